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
)

func TestGraphEdit_InvalidatesAnalyses(t *testing.T) {
    cu := diamondUnit()
    g := cu.Graph
    analyze(g)
    g.ComputeTopologicalOrder()
    require.True(t, g.DfsOrdersUpToDate())
    require.True(t, g.TopologicalOrderUpToDate())
    require.True(t, g.DominationUpToDate())

    /* any editor scope drops every analysis, even an empty one */
    g.Edit(func(ed *GraphEdit) {})
    assert.False(t, g.DfsOrdersUpToDate())
    assert.False(t, g.TopologicalOrderUpToDate())
    assert.False(t, g.DominationUpToDate())
    assert.False(t, g.SSARepUpToDate())
}

func TestGraphEdit_RemoveEntryPanics(t *testing.T) {
    cu := diamondUnit()
    g := cu.Graph
    require.Panics(t, func() {
        g.Edit(func(ed *GraphEdit) {
            ed.RemoveBlock(g.EntryBlock())
        })
    })
}

func TestGraph_BlockLookup(t *testing.T) {
    cu := diamondUnit()
    assert.Equal(t, 1, cu.Graph.EntryBlock().Id)
    assert.Equal(t, []int { 1, 2, 3, 4 }, cu.Graph.BlockIds())
    require.Panics(t, func() { cu.Graph.Block(99) })
}

func TestBuilder_RejectsUnterminatedBlocks(t *testing.T) {
    p := NewBuilder("bad")
    b1 := p.Block()
    p.ConstInt(b1, Rv(0), 1)
    require.Panics(t, func() { p.Build() })
}

func TestBuilder_RejectsEmptyGraph(t *testing.T) {
    require.Panics(t, func() { NewBuilder("empty").Build() })
}

func TestBasicBlock_RejectsTerminatorInBody(t *testing.T) {
    p := NewBuilder("term")
    b1 := p.Block()
    require.Panics(t, func() {
        b1.addInstr(&IrSwitch { Ln: 1 })
    })
}
