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
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
    `gonum.org/v1/gonum/graph/flow`
    `gonum.org/v1/gonum/graph/simple`
)

func analyze(g *Graph) {
    g.ComputePredecessors()
    g.ComputeDFSOrders()
    g.ComputeDominators()
}

/* bb_1 -> bb_2, bb_3 -> bb_4 */
func diamondUnit() *CompilationUnit {
    p := NewBuilder("test.diamond")
    b1 := p.Block()
    b2 := p.Block()
    b3 := p.Block()
    b4 := p.Block()
    c := Rv(0)
    v := Rv(1)
    p.LoadArg(b1, c, 0)
    p.If(b1, c, b2, b3)
    p.ConstInt(b2, v, 1)
    p.Goto(b2, b4)
    p.ConstInt(b3, v, 2)
    p.Goto(b3, b4)
    p.Ret(b4, v)
    return p.Build()
}

/* bb_1 -> bb_2 <-> bb_3, bb_2 -> bb_4 */
func loopUnit() *CompilationUnit {
    p := NewBuilder("test.loop")
    b1 := p.Block()
    b2 := p.Block()
    b3 := p.Block()
    b4 := p.Block()
    c := Rv(0)
    v := Rv(1)
    p.LoadArg(b1, v, 0)
    p.LoadArg(b1, c, 1)
    p.Goto(b1, b2)
    p.If(b2, c, b3, b4)
    p.Unary(b3, v, v, IrOpNegate)
    p.Goto(b3, b2)
    p.Ret(b4, v)
    return p.Build()
}

/* a nested structure with one loop and a three-way join:
 *
 *   bb_1 -> bb_2 bb_9
 *   bb_2 -> bb_3 bb_4       (switch, two cases share bb_3)
 *   bb_3 bb_4 -> bb_5
 *   bb_5 -> bb_6 bb_2       (back edge)
 *   bb_6 -> bb_7 bb_8 bb_10
 *   bb_7 bb_8 bb_9 -> bb_10
 */
func complexUnit() *CompilationUnit {
    p := NewBuilder("test.complex")
    bb := make([]*BasicBlock, 11)
    for i := 1; i <= 10; i++ {
        bb[i] = p.Block()
    }
    c := Rv(0)
    p.LoadArg(bb[1], c, 0)
    p.If(bb[1], c, bb[2], bb[9])
    p.Switch(bb[2], c, map[int64]*BasicBlock { 0: bb[3], 1: bb[3] }, bb[4])
    p.Goto(bb[3], bb[5])
    p.Goto(bb[4], bb[5])
    p.If(bb[5], c, bb[6], bb[2])
    p.Switch(bb[6], c, map[int64]*BasicBlock { 0: bb[7], 1: bb[8] }, bb[10])
    p.Goto(bb[7], bb[10])
    p.Goto(bb[8], bb[10])
    p.Goto(bb[9], bb[10])
    p.Ret(bb[10])
    return p.Build()
}

/* diamondUnit plus bb_5, which branches into the join block but is itself
 * reachable from nowhere */
func unreachableUnit() *CompilationUnit {
    p := NewBuilder("test.unreachable")
    b1 := p.Block()
    b2 := p.Block()
    b3 := p.Block()
    b4 := p.Block()
    b5 := p.Block()
    c := Rv(0)
    v := Rv(1)
    p.LoadArg(b1, c, 0)
    p.If(b1, c, b2, b3)
    p.ConstInt(b2, v, 1)
    p.Goto(b2, b4)
    p.ConstInt(b3, v, 2)
    p.Goto(b3, b4)
    p.Ret(b4, v)
    p.ConstInt(b5, v, 9)
    p.Goto(b5, b4)
    return p.Build()
}

/* crossCheckDominators rebuilds the graph in gonum and compares every
 * immediate dominator against the flow package's answer. */
func crossCheckDominators(t *testing.T, g *Graph) {
    dg := simple.NewDirectedGraph()
    for _, id := range g.BlockIds() {
        if dg.Node(int64(id)) == nil {
            dg.AddNode(simple.Node(id))
        }
    }
    for _, id := range g.BlockIds() {
        for _, w := range g.Blocks[id].successors() {
            if id != w {
                dg.SetEdge(simple.Edge { F: simple.Node(id), T: simple.Node(w) })
            }
        }
    }
    dt := flow.Dominators(simple.Node(g.Entry), dg)
    for _, id := range g.BlockIds() {
        d, ok := g.DominatedBy[id]
        if n := dt.DominatorOf(int64(id)); n == nil {
            assert.False(t, ok, "bb_%d should have no immediate dominator", id)
        } else {
            require.True(t, ok, "bb_%d should have an immediate dominator", id)
            assert.Equal(t, n.ID(), int64(d), "immediate dominator of bb_%d", id)
        }
    }
}

/* dominates walks the idom chain from b up to the entry block. */
func dominates(g *Graph, a int, b int) bool {
    for r := b; ; r = g.DominatedBy[r] {
        if r == a {
            return true
        }
        if r == g.Entry {
            return false
        }
    }
}

func TestDominators_Diamond(t *testing.T) {
    g := diamondUnit().Graph
    analyze(g)
    assert.Equal(t, map[int]int { 2: 1, 3: 1, 4: 1 }, g.DominatedBy)
    assert.Equal(t, map[int][]int { 1: { 2, 3, 4 } }, g.DominatorOf)
    assert.Equal(t, map[int]int { 1: 0, 2: 1, 3: 1, 4: 1 }, g.Depth)
    assert.Equal(t, map[int][]int { 2: { 4 }, 3: { 4 } }, g.DomFrontier)
    crossCheckDominators(t, g)
}

func TestDominators_Loop(t *testing.T) {
    g := loopUnit().Graph
    analyze(g)
    assert.Equal(t, map[int]int { 2: 1, 3: 2, 4: 2 }, g.DominatedBy)
    assert.Equal(t, map[int]int { 1: 0, 2: 1, 3: 2, 4: 2 }, g.Depth)

    /* the loop header is in its own frontier */
    assert.Equal(t, map[int][]int { 2: { 2 }, 3: { 2 } }, g.DomFrontier)
    crossCheckDominators(t, g)
}

func TestDominators_Complex(t *testing.T) {
    g := complexUnit().Graph
    analyze(g)
    assert.Equal(t, map[int]int {
        2: 1, 3: 2, 4: 2, 5: 2, 6: 5, 7: 6, 8: 6, 9: 1, 10: 1,
    }, g.DominatedBy)
    assert.Equal(t, map[int]int {
        1: 0, 2: 1, 9: 1, 10: 1, 3: 2, 4: 2, 5: 2, 6: 3, 7: 4, 8: 4,
    }, g.Depth)
    assert.Equal(t, map[int][]int {
        2: { 2, 10 },
        3: { 5 },
        4: { 5 },
        5: { 2, 10 },
        6: { 10 },
        7: { 10 },
        8: { 10 },
        9: { 10 },
    }, g.DomFrontier)
    crossCheckDominators(t, g)

    /* two switch cases on the same target are a single predecessor edge */
    assert.Equal(t, []int { 2 }, g.Blocks[3].Pred)
}

func TestDominators_SingleBlock(t *testing.T) {
    p := NewBuilder("test.single")
    b1 := p.Block()
    p.Ret(b1)
    g := p.Build().Graph
    analyze(g)
    assert.Empty(t, g.DominatedBy)
    assert.Equal(t, map[int]int { 1: 0 }, g.Depth)
    assert.NotPanics(t, func() { g.VerifyDataflow("test.single") })
}

func TestDominators_UnreachableBlocksExcluded(t *testing.T) {
    g := unreachableUnit().Graph
    analyze(g)
    assert.NotContains(t, g.DominatedBy, 5)
    assert.NotContains(t, g.Depth, 5)
    assert.NotContains(t, g.PreOrder, 5)
    assert.NotContains(t, g.PostOrder, 5)

    /* the unreachable block still is a predecessor in the arena */
    assert.Contains(t, g.Blocks[4].Pred, 5)
    crossCheckDominators(t, g)
}

func TestDominators_RequireDFSOrders(t *testing.T) {
    g := diamondUnit().Graph
    g.ComputePredecessors()
    require.Panics(t, func() { g.ComputeDominators() })
}

func TestDominators_ImmediateDominatorIsDeepestStrictDominator(t *testing.T) {
    g := complexUnit().Graph
    analyze(g)
    for b, d := range g.DominatedBy {
        require.True(t, dominates(g, d, b), "bb_%d must dominate bb_%d", d, b)

        /* every other strict dominator of b must dominate the idom */
        for _, a := range g.BlockIds() {
            if a != b && a != d && dominates(g, a, b) {
                assert.True(t, dominates(g, a, d), "bb_%d dominates bb_%d but not bb_%d", a, b, d)
            }
        }
    }
}

func TestVerifyDataflow(t *testing.T) {
    g := complexUnit().Graph
    analyze(g)
    assert.NotPanics(t, func() { g.VerifyDataflow("test.complex") })

    /* a wrong immediate dominator must be caught */
    t.Run("corrupted idom", func(t *testing.T) {
        g := complexUnit().Graph
        analyze(g)
        g.DominatedBy[10] = 9
        require.Panics(t, func() { g.VerifyDataflow("test.complex") })
    })

    /* a missing immediate dominator must be caught */
    t.Run("missing idom", func(t *testing.T) {
        g := complexUnit().Graph
        analyze(g)
        delete(g.DominatedBy, 5)
        require.Panics(t, func() { g.VerifyDataflow("test.complex") })
    })

    /* stale domination must be caught */
    t.Run("stale domination", func(t *testing.T) {
        g := complexUnit().Graph
        require.Panics(t, func() { g.VerifyDataflow("test.complex") })
    })
}

func TestDFSOrders(t *testing.T) {
    g := complexUnit().Graph
    g.ComputePredecessors()
    g.ComputeDFSOrders()
    require.Len(t, g.PreOrder, 10)
    require.Len(t, g.PostOrder, 10)
    assert.Equal(t, g.Entry, g.PreOrder[0])
    assert.Equal(t, g.Entry, g.PostOrder[len(g.PostOrder) - 1])

    /* both orders visit the same set exactly once */
    seen := make(map[int]bool)
    for _, id := range g.PreOrder {
        assert.False(t, seen[id], "bb_%d visited twice", id)
        seen[id] = true
    }
    for _, id := range g.PostOrder {
        assert.True(t, seen[id], "bb_%d in post-order only", id)
    }
}

func TestTopologicalOrder(t *testing.T) {
    g := complexUnit().Graph
    analyze(g)
    g.ComputeTopologicalOrder()
    require.True(t, g.TopologicalOrderUpToDate())
    require.Len(t, g.TopoOrder, 10)
    assert.Equal(t, g.Entry, g.TopoOrder[0])

    /* only back edges point against the order */
    idx := make(map[int]int)
    for i, id := range g.TopoOrder {
        idx[id] = i
    }
    for _, id := range g.TopoOrder {
        for _, w := range g.Blocks[id].successors() {
            if idx[w] <= idx[id] {
                assert.True(t, dominates(g, w, id), "bb_%d -> bb_%d is not a back edge", id, w)
            }
        }
    }
}

func TestTopologicalOrder_RequireDFSOrders(t *testing.T) {
    g := diamondUnit().Graph
    g.ComputePredecessors()
    require.Panics(t, func() { g.ComputeTopologicalOrder() })
}

func TestDomTreeOrder(t *testing.T) {
    g := complexUnit().Graph
    analyze(g)

    /* pre-order: a parent always before its children, ties by block ID */
    var order []int
    g.DomTreeOrder().ForEach(func(bb *BasicBlock) {
        order = append(order, bb.Id)
    })
    assert.Equal(t, []int { 1, 2, 3, 4, 5, 6, 7, 8, 9, 10 }, order)
}

func TestDomTreeOrder_RequireDomination(t *testing.T) {
    g := diamondUnit().Graph
    require.Panics(t, func() { g.DomTreeOrder() })
}
