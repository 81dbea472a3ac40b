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
    `fmt`

    `github.com/davecgh/go-spew/spew`
    `github.com/forandom/art/internal/mir`
)

type TraversalMode uint8

const (
    NoNodes TraversalMode = iota
    AllNodes
    PreOrderDFSTraversal
    TopologicalSortTraversal
)

/* Pass is the unit the engine drives. The lifecycle stages are optional
 * capabilities: a pass implements whichever of Gated, Started, Worker and
 * Ended it needs, the engine defaults the rest to no-ops (and the gate to
 * "run"). */
type Pass interface {
    Name() string
    Traversal() TraversalMode
}

/* Gated decides whether the pass runs at all for this compilation unit.
 * A false gate skips Start, Worker and End entirely. */
type Gated interface {
    Pass
    Gate(cu *mir.CompilationUnit) bool
}

/* Started runs once before any per-node work. */
type Started interface {
    Pass
    Start(cu *mir.CompilationUnit)
}

/* Worker runs once per node in the declared traversal. Returning true
 * requests another sweep, which the engine honors only for passes that are
 * also Iterative. */
type Worker interface {
    Pass
    Work(cu *mir.CompilationUnit, bb *mir.BasicBlock) bool
}

/* Ended runs once after all per-node work. */
type Ended interface {
    Pass
    End(cu *mir.CompilationUnit)
}

/* Iterative marks a pass as supporting fixed-point iteration of its worker
 * loop. None of the passes in this package are. */
type Iterative interface {
    Pass
    Iterative()
}

/* Run drives one pass over one compilation unit through its whole
 * lifecycle. The engine is a pure driver: every side effect goes through
 * the shared graph and unit, and a pass runs to completion once its gate
 * admits it. */
func Run(cu *mir.CompilationUnit, p Pass) {
    if g, ok := p.(Gated); ok && !g.Gate(cu) {
        return
    }

    /* one-time setup */
    if s, ok := p.(Started); ok {
        s.Start(cu)
    }

    /* per-node work in the declared order */
    if w, ok := p.(Worker); ok && p.Traversal() != NoNodes {
        _, fix := p.(Iterative)
        for again := true; again; {
            again = false
            for _, id := range order(cu.Graph, p) {
                if w.Work(cu, cu.Graph.Block(id)) && fix {
                    again = true
                }
            }
        }
    }

    /* teardown and optional post-condition verification */
    if e, ok := p.(Ended); ok {
        e.End(cu)
    }

    /* debugging */
    if cu.Debug & mir.DebugDumpPasses != 0 {
        fmt.Printf("=== %s: after pass %q ===\n", cu.Method, p.Name())
        spew.Config.SortKeys = true
        spew.Config.DisablePointerMethods = true
        spew.Dump(cu.Graph.TopoOrder)
        fmt.Println(cu)
    }
}

/* order resolves the traversal of a pass into a block ID sequence. A
 * traversal over a stale analysis is an invariant violation: the pipeline
 * must schedule the computing pass first, the gates cannot catch it here. */
func order(g *mir.Graph, p Pass) []int {
    switch p.Traversal() {
        case AllNodes: {
            return g.BlockIds()
        }
        case PreOrderDFSTraversal: {
            if !g.DfsOrdersUpToDate() {
                panic(fmt.Sprintf("passes: %s: pre-order DFS traversal over stale DFS orders", p.Name()))
            }
            return g.PreOrder
        }
        case TopologicalSortTraversal: {
            if !g.TopologicalOrderUpToDate() {
                panic(fmt.Sprintf("passes: %s: topological traversal over stale topological order", p.Name()))
            }
            return g.TopoOrder
        }
        default: {
            panic(fmt.Sprintf("passes: %s: invalid traversal mode", p.Name()))
        }
    }
}

/* ssaRepStale is the shared gate of the SSA construction sub-passes: they
 * run only while the SSA representation is out of date. */
func ssaRepStale(cu *mir.CompilationUnit) bool {
    return !cu.Graph.SSARepUpToDate()
}
