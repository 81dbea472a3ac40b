/*
 * Copyright 2024 forandom Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package passes

import (
    `github.com/forandom/art/internal/mir`
)

/* MethodUseCount accumulates, per SSA name, the number of times the name
 * appears as an operand anywhere in the method. The counts feed the
 * allocation passes downstream. The gate is degenerate in this
 * configuration, something downstream always wants the counts. */
type MethodUseCount struct{}

func (MethodUseCount) Name() string             { return "UseCount" }
func (MethodUseCount) Traversal() TraversalMode { return AllNodes }

func (MethodUseCount) Gate(cu *mir.CompilationUnit) bool {
    return true
}

func (MethodUseCount) Start(cu *mir.CompilationUnit) {
    cu.Graph.UseCount = make(map[mir.Reg]int)
}

func (MethodUseCount) Work(cu *mir.CompilationUnit, bb *mir.BasicBlock) bool {
    for _, p := range bb.Phi {
        countuses(cu.Graph.UseCount, p)
    }
    for _, p := range bb.Ins {
        countuses(cu.Graph.UseCount, p)
    }
    countuses(cu.Graph.UseCount, bb.Term)
    return false
}

func countuses(uc map[mir.Reg]int, p mir.IrNode) {
    if u, ok := p.(mir.IrUsages); ok {
        for _, r := range u.Usages() {
            if !r.Zero() {
                uc[*r]++
            }
        }
    }
}
