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

package art

import (
    `github.com/forandom/art/internal/mir`
    `github.com/forandom/art/internal/opts`
    `github.com/forandom/art/internal/passes`
)

/* BuildSSA converts the method graph of cu into SSA form by running the
 * full pass pipeline, honoring the default debug options. An invariant
 * violation inside a pass aborts the compilation of this method only and
 * is reported as a PassError, the unit is left in an unspecified state. */
func BuildSSA(cu *mir.CompilationUnit) (err error) {
    o := opts.GetDefaultOptions()
    if o.VerifyDataflow {
        cu.Debug |= mir.DebugVerifyDataflow
    }
    if o.DumpPasses {
        cu.Debug |= mir.DebugDumpPasses
    }
    return run(cu)
}

func run(cu *mir.CompilationUnit) (err error) {
    defer func() {
        if v := recover(); v != nil {
            err = PassError { Method: cu.Method, Reason: v }
        }
    }()
    passes.BuildSSA(cu)
    return
}
