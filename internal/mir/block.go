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

package mir

import (
    `fmt`
    `strings`
)

/* BasicBlock is a node of the method graph, identified by Id within its
 * owning Graph. Pred is derived data, rebuilt from successor edges by
 * Graph.ComputePredecessors, it is never maintained by hand. */
type BasicBlock struct {
    Id   int
    Phi  []*IrPhi
    Ins  []IrNode
    Pred []int
    Term IrTerminator
}

func (self *BasicBlock) String() string {
    buf := []string { fmt.Sprintf("bb_%d:", self.Id) }
    for _, p := range self.Phi { buf = append(buf, "    " + p.String()) }
    for _, p := range self.Ins { buf = append(buf, "    " + p.String()) }
    if self.Term != nil {
        for _, ln := range strings.Split(self.Term.String(), "\n") {
            buf = append(buf, "    " + ln)
        }
    }
    return strings.Join(buf, "\n")
}

func (self *BasicBlock) addInstr(p IrNode) {
    if _, ok := p.(IrTerminator); ok {
        panic(fmt.Sprintf("mir: terminator in instruction body of bb_%d", self.Id))
    } else {
        self.Ins = append(self.Ins, p)
    }
}

func (self *BasicBlock) termBranch(to int) {
    self.Term = &IrSwitch { Ln: to }
}

func (self *BasicBlock) termCondition(v Reg, t int, f int) {
    self.Term = &IrSwitch { V: v, Ln: f, Br: map[int64]int { 1: t } }
}

func (self *BasicBlock) termReturn(rr []Reg) {
    self.Term = &IrReturn { R: rr }
}

/* successors dumps the successor block IDs in terminator order. */
func (self *BasicBlock) successors() []int {
    var ret []int
    if self.Term == nil {
        return nil
    }
    for it := self.Term.Successors(); it.Next(); {
        ret = append(ret, it.Block())
    }
    return ret
}
