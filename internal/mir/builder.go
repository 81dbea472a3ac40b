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

/* Builder is the front-end boundary: it assembles a populated method graph
 * block by block. The first block created becomes the entry unless Entry is
 * called. Build closes the construction scope and hands the unit over with
 * every analysis marked stale. */
type Builder struct {
    cu *CompilationUnit
    ed GraphEdit
}

func NewBuilder(method string) *Builder {
    cu := NewCompilationUnit(method)
    return &Builder {
        cu: cu,
        ed: GraphEdit { g: cu.Graph },
    }
}

func (self *Builder) Block() *BasicBlock {
    bb := self.ed.NewBlock()
    if self.cu.Graph.Entry < 0 {
        self.cu.Graph.Entry = bb.Id
    }
    return bb
}

func (self *Builder) Entry(bb *BasicBlock) *Builder {
    self.ed.SetEntry(bb)
    return self
}

func (self *Builder) LoadArg(bb *BasicBlock, r Reg, id uint64) *Builder {
    self.ed.Append(bb, &IrLoadArg { R: r, Id: id })
    return self
}

func (self *Builder) ConstInt(bb *BasicBlock, r Reg, v int64) *Builder {
    self.ed.Append(bb, &IrConstInt { R: r, V: v })
    return self
}

func (self *Builder) Copy(bb *BasicBlock, r Reg, v Reg) *Builder {
    self.ed.Append(bb, &IrCopy { R: r, V: v })
    return self
}

func (self *Builder) Unary(bb *BasicBlock, r Reg, v Reg, op IrUnaryOp) *Builder {
    self.ed.Append(bb, &IrUnaryExpr { R: r, V: v, Op: op })
    return self
}

func (self *Builder) Binary(bb *BasicBlock, r Reg, x Reg, y Reg, op IrBinaryOp) *Builder {
    self.ed.Append(bb, &IrBinaryExpr { R: r, X: x, Y: y, Op: op })
    return self
}

func (self *Builder) Goto(bb *BasicBlock, to *BasicBlock) *Builder {
    self.ed.Branch(bb, to)
    return self
}

func (self *Builder) If(bb *BasicBlock, v Reg, t *BasicBlock, f *BasicBlock) *Builder {
    self.ed.BranchIf(bb, v, t, f)
    return self
}

func (self *Builder) Switch(bb *BasicBlock, v Reg, br map[int64]*BasicBlock, ln *BasicBlock) *Builder {
    self.ed.Switch(bb, v, br, ln)
    return self
}

func (self *Builder) Ret(bb *BasicBlock, rr ...Reg) *Builder {
    self.ed.Return(bb, rr...)
    return self
}

func (self *Builder) Build() *CompilationUnit {
    g := self.cu.Graph

    /* a method must have an entry block */
    if g.Entry < 0 {
        panic("mir: empty method graph")
    }

    /* every block must terminate */
    for _, id := range g.BlockIds() {
        if g.Blocks[id].Term == nil {
            panic(g.Blocks[id].String() + "\nmir: basic block does not terminate")
        }
    }

    /* fresh graphs carry no valid analyses */
    g.invalidate()
    return self.cu
}
