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

type PassDescriptor struct {
    Pass Pass
    Desc string
}

/* SSAPipeline builds the ordered pass list that (re)builds the SSA form of
 * a method graph. The order is load-bearing: every pass's preconditions are
 * the postconditions of the passes before it. The list is constructed per
 * call, a stateful pass instance must never be shared between methods
 * compiling in parallel. */
func SSAPipeline() []PassDescriptor {
    return []PassDescriptor {
        { Desc: "Initialize SSA Transformation" , Pass: new(InitializeSSATransformation) },
        { Desc: "Clear Phi Instructions"        , Pass: new(ClearPhiInstructions) },
        { Desc: "Calculate Predecessors"        , Pass: new(CalculatePredecessors) },
        { Desc: "DFS Orders"                    , Pass: new(DFSOrders) },
        { Desc: "Build Domination"              , Pass: new(BuildDomination) },
        { Desc: "Topological Sort Orders"       , Pass: new(TopologicalSortOrders) },
        { Desc: "Definition Block Matrix"       , Pass: new(DefBlockMatrix) },
        { Desc: "Create Phi Nodes"              , Pass: new(CreatePhiNodes) },
        { Desc: "Initialize Register Locations" , Pass: new(PerformInitRegLocations) },
        { Desc: "SSA Conversion"                , Pass: new(SSAConversion) },
        { Desc: "Phi Node Operands"             , Pass: new(PhiNodeOperands) },
        { Desc: "Constant Propagation"          , Pass: new(ConstantPropagation) },
        { Desc: "Method Use Count"              , Pass: new(MethodUseCount) },
        { Desc: "Finish SSA Transformation"     , Pass: new(FinishSSATransformation) },
    }
}

/* BuildSSA runs the full SSA pipeline over one compilation unit. */
func BuildSSA(cu *mir.CompilationUnit) {
    for _, p := range SSAPipeline() {
        Run(cu, p.Pass)
    }
}
