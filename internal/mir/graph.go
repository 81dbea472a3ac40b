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
    `sort`
    `strings`
)

/* Graph is the per-method control-flow graph along with every analysis
 * derived from it. Blocks are owned by the arena and referenced by ID
 * everywhere, inserting or removing a block can never dangle.
 *
 * The four staleness flags are the coordination signal between passes: any
 * structural mutation (performed through Edit) resets all of them, and the
 * pass that recomputes an analysis sets the matching flag back. A pass that
 * reads an analysis must observe its flag true, the pass gates enforce
 * this. */
type Graph struct {
    Entry  int
    Blocks map[int]*BasicBlock

    /* recorded block count, reconciled by SSATransformationStart */
    numBlocks int
    nextId    int

    /* staleness flags */
    dfsValid  bool
    topoValid bool
    domValid  bool
    ssaValid  bool

    /* order analyses */
    PreOrder  []int
    PostOrder []int
    TopoOrder []int

    /* domination analyses */
    DominatedBy map[int]int
    DominatorOf map[int][]int
    DomFrontier map[int][]int
    Depth       map[int]int

    /* SSA bookkeeping, transient between SSATransformationStart and
     * SSATransformationEnd except for the use counts and locations */
    DefBlocks map[Reg]map[int]bool
    phiInput  map[int]map[Reg]Reg
    UseCount  map[Reg]int
    Locations map[Reg]int
}

func newGraph() *Graph {
    return &Graph {
        Entry  : -1,
        nextId : 1,
        Blocks : make(map[int]*BasicBlock),
    }
}

func (self *Graph) Block(id int) *BasicBlock {
    if bb, ok := self.Blocks[id]; ok {
        return bb
    } else {
        panic(fmt.Sprintf("mir: no such block: bb_%d", id))
    }
}

func (self *Graph) EntryBlock() *BasicBlock {
    return self.Block(self.Entry)
}

/* BlockIds returns every block ID in the arena in ascending order,
 * including unreachable blocks. */
func (self *Graph) BlockIds() []int {
    ids := make([]int, 0, len(self.Blocks))
    for id := range self.Blocks { ids = append(ids, id) }
    sort.Ints(ids)
    return ids
}

/* NumBlocks is the block count recorded by the last SSATransformationStart,
 * it may lag behind len(Blocks) until the next reconciliation. */
func (self *Graph) NumBlocks() int {
    return self.numBlocks
}

func (self *Graph) DfsOrdersUpToDate() bool      { return self.dfsValid }
func (self *Graph) TopologicalOrderUpToDate() bool { return self.topoValid }
func (self *Graph) DominationUpToDate() bool     { return self.domValid }
func (self *Graph) SSARepUpToDate() bool         { return self.ssaValid }

func (self *Graph) invalidate() {
    self.dfsValid  = false
    self.topoValid = false
    self.domValid  = false
    self.ssaValid  = false
}

/* Edit batches structural mutations of the graph. Every block or edge
 * mutation must go through an editor scope, the scope invalidates all four
 * staleness flags when it closes no matter what was touched. */
func (self *Graph) Edit(fn func(ed *GraphEdit)) {
    ed := GraphEdit { g: self }
    defer self.invalidate()
    fn(&ed)
}

type GraphEdit struct {
    g *Graph
}

func (self *GraphEdit) NewBlock() *BasicBlock {
    bb := &BasicBlock { Id: self.g.nextId }
    self.g.nextId++
    self.g.Blocks[bb.Id] = bb
    return bb
}

func (self *GraphEdit) SetEntry(bb *BasicBlock) {
    self.g.Entry = bb.Id
}

func (self *GraphEdit) Append(bb *BasicBlock, p IrNode) {
    bb.addInstr(p)
}

func (self *GraphEdit) Branch(bb *BasicBlock, to *BasicBlock) {
    bb.termBranch(to.Id)
}

func (self *GraphEdit) BranchIf(bb *BasicBlock, v Reg, t *BasicBlock, f *BasicBlock) {
    bb.termCondition(v, t.Id, f.Id)
}

func (self *GraphEdit) Switch(bb *BasicBlock, v Reg, br map[int64]*BasicBlock, ln *BasicBlock) {
    m := make(map[int64]int, len(br))
    for k, t := range br {
        m[k] = t.Id
    }
    bb.Term = &IrSwitch { V: v, Ln: ln.Id, Br: m }
}

func (self *GraphEdit) Return(bb *BasicBlock, rr ...Reg) {
    bb.termReturn(rr)
}

func (self *GraphEdit) RemoveBlock(bb *BasicBlock) {
    if bb.Id == self.g.Entry {
        panic("mir: cannot remove the entry block")
    }
    delete(self.g.Blocks, bb.Id)
}

/* CompilationUnit is the per-method compilation context, it exclusively
 * owns its Graph for the duration of the pipeline. */
type CompilationUnit struct {
    Method string
    Graph  *Graph
    Debug  DebugFlags
}

type DebugFlags uint32

const (
    DebugVerifyDataflow DebugFlags = 1 << iota
    DebugDumpPasses
)

func NewCompilationUnit(method string) *CompilationUnit {
    return &CompilationUnit {
        Method : method,
        Graph  : newGraph(),
    }
}

func (self *CompilationUnit) String() string {
    buf := []string { fmt.Sprintf("method %s, entry bb_%d", self.Method, self.Graph.Entry) }
    for _, id := range self.Graph.BlockIds() {
        buf = append(buf, self.Graph.Blocks[id].String())
    }
    return strings.Join(buf, "\n")
}
