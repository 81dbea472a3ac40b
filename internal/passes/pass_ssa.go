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

/* InitializeSSATransformation reconciles the recorded block count with the
 * actual block set, earlier passes may have inserted blocks, and resets
 * the SSA bookkeeping. */
type InitializeSSATransformation struct{}

func (InitializeSSATransformation) Name() string             { return "InitializeSSATransformation" }
func (InitializeSSATransformation) Traversal() TraversalMode { return NoNodes }

func (InitializeSSATransformation) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

func (InitializeSSATransformation) Start(cu *mir.CompilationUnit) {
    cu.Graph.SSATransformationStart()
}

/* ClearPhiInstructions strips the phi nodes of an earlier construction
 * from every block before the representation is rebuilt. */
type ClearPhiInstructions struct{}

func (ClearPhiInstructions) Name() string             { return "ClearPhiInstructions" }
func (ClearPhiInstructions) Traversal() TraversalMode { return AllNodes }

func (ClearPhiInstructions) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

func (ClearPhiInstructions) Work(cu *mir.CompilationUnit, bb *mir.BasicBlock) bool {
    cu.Graph.ClearPhiNodes(bb)
    return false
}

/* CalculatePredecessors rebuilds every predecessor set from the successor
 * edges. It is cheap and never gated, the block set may have changed in
 * ways no flag tracks. */
type CalculatePredecessors struct{}

func (CalculatePredecessors) Name() string             { return "CalculatePredecessors" }
func (CalculatePredecessors) Traversal() TraversalMode { return NoNodes }

func (CalculatePredecessors) Start(cu *mir.CompilationUnit) {
    cu.Graph.ComputePredecessors()
}

/* DFSOrders computes the pre-order and post-order of the graph. */
type DFSOrders struct{}

func (DFSOrders) Name() string             { return "DFSOrders" }
func (DFSOrders) Traversal() TraversalMode { return NoNodes }

func (DFSOrders) Gate(cu *mir.CompilationUnit) bool {
    return !cu.Graph.DfsOrdersUpToDate()
}

func (DFSOrders) Start(cu *mir.CompilationUnit) {
    cu.Graph.ComputeDFSOrders()
}

/* BuildDomination computes the dominator tree and the dominance frontiers.
 * With the verify-dataflow debug flag set, End re-derives the dominator
 * sets by dataflow and aborts the method on any inconsistency. */
type BuildDomination struct{}

func (BuildDomination) Name() string             { return "BuildDomination" }
func (BuildDomination) Traversal() TraversalMode { return NoNodes }

func (BuildDomination) Gate(cu *mir.CompilationUnit) bool {
    return !cu.Graph.DominationUpToDate()
}

func (BuildDomination) Start(cu *mir.CompilationUnit) {
    cu.Graph.ComputeDominators()
}

func (BuildDomination) End(cu *mir.CompilationUnit) {
    if cu.Debug & mir.DebugVerifyDataflow != 0 {
        cu.Graph.VerifyDataflow(cu.Method)
    }
}

/* TopologicalSortOrders computes the reverse post-order of the graph. */
type TopologicalSortOrders struct{}

func (TopologicalSortOrders) Name() string             { return "TopologicalSortOrders" }
func (TopologicalSortOrders) Traversal() TraversalMode { return NoNodes }

func (TopologicalSortOrders) Gate(cu *mir.CompilationUnit) bool {
    return !cu.Graph.TopologicalOrderUpToDate()
}

func (TopologicalSortOrders) Start(cu *mir.CompilationUnit) {
    cu.Graph.ComputeTopologicalOrder()
}

/* DefBlockMatrix records, per variable, the set of blocks that define it. */
type DefBlockMatrix struct{}

func (DefBlockMatrix) Name() string             { return "DefBlockMatrix" }
func (DefBlockMatrix) Traversal() TraversalMode { return NoNodes }

func (DefBlockMatrix) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

func (DefBlockMatrix) Start(cu *mir.CompilationUnit) {
    cu.Graph.ComputeDefBlockMatrix()
}

/* CreatePhiNodes materializes empty phi nodes at the dominance-frontier
 * join points of every variable's definition sites. */
type CreatePhiNodes struct{}

func (CreatePhiNodes) Name() string             { return "CreatePhiNodes" }
func (CreatePhiNodes) Traversal() TraversalMode { return NoNodes }

func (CreatePhiNodes) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

func (CreatePhiNodes) Start(cu *mir.CompilationUnit) {
    cu.Graph.InsertPhiNodes()
}

/* PerformInitRegLocations allocates the per-variable storage-location
 * metadata consumed by the later allocation passes. */
type PerformInitRegLocations struct{}

func (PerformInitRegLocations) Name() string             { return "PerformInitRegLocations" }
func (PerformInitRegLocations) Traversal() TraversalMode { return NoNodes }

func (PerformInitRegLocations) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

func (PerformInitRegLocations) Start(cu *mir.CompilationUnit) {
    cu.Graph.InitRegLocations()
}

/* SSAConversion performs the renaming walk from the entry block. */
type SSAConversion struct{}

func (SSAConversion) Name() string             { return "SSAConversion" }
func (SSAConversion) Traversal() TraversalMode { return NoNodes }

func (SSAConversion) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

func (SSAConversion) Start(cu *mir.CompilationUnit) {
    cu.Graph.RenameRegisters()
}

/* PhiNodeOperands fills the operand slot of every phi node for each
 * predecessor edge with the version live at the end of that predecessor. */
type PhiNodeOperands struct{}

func (PhiNodeOperands) Name() string             { return "PhiNodeOperands" }
func (PhiNodeOperands) Traversal() TraversalMode { return PreOrderDFSTraversal }

func (PhiNodeOperands) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

func (PhiNodeOperands) Work(cu *mir.CompilationUnit, bb *mir.BasicBlock) bool {
    cu.Graph.InsertPhiNodeOperands(bb)
    return false
}

/* FinishSSATransformation marks the SSA representation valid and frees the
 * bookkeeping that later passes do not need. */
type FinishSSATransformation struct{}

func (FinishSSATransformation) Name() string             { return "FinishSSATransformation" }
func (FinishSSATransformation) Traversal() TraversalMode { return NoNodes }

func (FinishSSATransformation) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

func (FinishSSATransformation) End(cu *mir.CompilationUnit) {
    cu.Graph.SSATransformationEnd()
}
