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

type _Renamer struct {
    g     *Graph
    count map[Reg]int
    stack map[Reg][]int
}

func newRenamer(g *Graph) _Renamer {
    return _Renamer {
        g     : g,
        count : make(map[Reg]int),
        stack : make(map[Reg][]int),
    }
}

func (self _Renamer) popr(r Reg) {
    if n := len(self.stack[r]); n != 0 {
        self.stack[r] = self.stack[r][:n - 1]
    }
}

/* top of the version stack, version 0 means "value at method entry" */
func (self _Renamer) topr(r Reg) int {
    if n := len(self.stack[r]); n == 0 {
        return 0
    } else {
        return self.stack[r][n - 1]
    }
}

func (self _Renamer) pushr(r Reg) (i int) {
    i = self.count[r] + 1
    self.count[r] = i
    self.stack[r] = append(self.stack[r], i)
    return
}

func (self _Renamer) renameuses(ins IrNode) {
    if u, ok := ins.(IrUsages); ok {
        for _, a := range u.Usages() {
            if !a.Zero() {
                *a = a.Derive(self.topr(a.Base()))
            }
        }
    }
}

func (self _Renamer) renamedefs(ins IrNode, buf *[]Reg) {
    if s, ok := ins.(IrDefinitions); ok {
        for _, def := range s.Definitions() {
            if !def.Zero() {
                b := def.Base()
                *buf = append(*buf, b)
                *def = b.Derive(self.pushr(b))
            }
        }
    }
}

func (self _Renamer) renameblock(id int) {
    var d []Reg
    var n IrNode

    /* phi definitions rename first, their operands are filled in by a
     * separate pass after the whole walk */
    bb := self.g.Block(id)
    for _, n = range bb.Phi {
        self.renamedefs(n, &d)
    }

    /* rename body */
    for _, n = range bb.Ins {
        self.renameuses(n)
        self.renamedefs(n, &d)
    }

    /* rename the terminator, terminators define nothing */
    self.renameuses(bb.Term)

    /* snapshot the version that is live at the end of this block for every
     * variable a successor phi merges, the phi operand pass reads these */
    for _, w := range bb.successors() {
        for _, phi := range self.g.Block(w).Phi {
            b := phi.R.Base()
            if self.g.phiInput[id] == nil {
                self.g.phiInput[id] = make(map[Reg]Reg)
            }
            self.g.phiInput[id][b] = b.Derive(self.topr(b))
        }
    }

    /* rename all the children in the dominator tree */
    for _, c := range self.g.DominatorOf[id] {
        self.renameblock(c)
    }

    /* pop the definitions on the way out */
    for _, s := range d {
        self.popr(s)
    }
}

/* RenameRegisters rewrites every definition to a fresh SSA version and
 * every use to the version on top of the per-variable stack, walking the
 * dominator tree in pre-order from the entry block. The versioning is
 * identical to the classic CFG pre-order formulation, but a block's stack
 * entries are popped exactly once when the walk leaves its subtree. */
func (self *Graph) RenameRegisters() {
    if !self.domValid {
        panic("mir: renaming requires up-to-date domination")
    }
    rr := newRenamer(self)
    rr.renameblock(self.Entry)
}

/* InsertPhiNodeOperands fills, for every phi node of one block, the operand
 * slot of each predecessor edge with the SSA version that was live at the
 * end of that predecessor. Renaming must have completed first. */
func (self *Graph) InsertPhiNodeOperands(bb *BasicBlock) {
    for _, phi := range bb.Phi {
        b := phi.R.Base()
        for p, slot := range phi.V {
            if v, ok := self.phiInput[p][b]; ok {
                *slot = v
            } else {
                *slot = b.Derive(0)
            }
        }
    }
}
