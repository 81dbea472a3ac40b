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

    `github.com/forandom/art/internal/mir`
)

/* ConstantPropagation folds operands with known-constant SSA values into
 * instructions, visiting the blocks in topological order so that a
 * definition is seen before its uses on every forward path. It is a single
 * forward sweep: a constant that only becomes known through a loop back
 * edge is not rediscovered, that case is left to a later pass. */
type ConstantPropagation struct {
    consts map[mir.Reg]int64
}

func (*ConstantPropagation) Name() string             { return "ConstantPropagation" }
func (*ConstantPropagation) Traversal() TraversalMode { return TopologicalSortTraversal }

func (*ConstantPropagation) Gate(cu *mir.CompilationUnit) bool {
    return ssaRepStale(cu)
}

/* Start initializes the per-variable constant lattice. */
func (self *ConstantPropagation) Start(cu *mir.CompilationUnit) {
    self.consts = make(map[mir.Reg]int64)
    self.consts[mir.Rz] = 0
}

func (self *ConstantPropagation) Work(cu *mir.CompilationUnit, bb *mir.BasicBlock) bool {
    phi := make([]*mir.IrPhi, 0, len(bb.Phi))
    ins := make([]mir.IrNode, 0, len(bb.Ins))

    /* a phi node is a constant iff all its arguments are the same
     * constant */
    for _, p := range bb.Phi {
        if v, ok := self.phiconst(p); !ok {
            phi = append(phi, p)
        } else {
            ins = append(ins, &mir.IrConstInt { R: p.R, V: v })
            self.addconst(p.R, v)
        }
    }

    /* check every instruction */
    for _, v := range bb.Ins {
        switch p := v.(type) {
            default: {
                ins = append(ins, p)
            }

            /* integer constant */
            case *mir.IrConstInt: {
                ins = append(ins, p)
                self.addconst(p.R, p.V)
            }

            /* copy of a constant collapses to the constant */
            case *mir.IrCopy: {
                if cc, ok := self.consts[p.V]; !ok {
                    ins = append(ins, p)
                } else {
                    ins = append(ins, &mir.IrConstInt { R: p.R, V: cc })
                    self.addconst(p.R, cc)
                }
            }

            /* unary expressions */
            case *mir.IrUnaryExpr: {
                if cc, ok := self.consts[p.V]; !ok {
                    ins = append(ins, p)
                } else {
                    r := self.unary(cc, p.Op)
                    ins = append(ins, &mir.IrConstInt { R: p.R, V: r })
                    self.addconst(p.R, r)
                }
            }

            /* binary expressions */
            case *mir.IrBinaryExpr: {
                if x, ok := self.consts[p.X]; !ok {
                    ins = append(ins, p)
                } else if y, ok := self.consts[p.Y]; !ok {
                    ins = append(ins, p)
                } else {
                    r := self.binary(x, y, p.Op)
                    ins = append(ins, &mir.IrConstInt { R: p.R, V: r })
                    self.addconst(p.R, r)
                }
            }
        }
    }

    /* rebuild the basic block */
    bb.Phi = phi
    bb.Ins = ins
    return false
}

func (self *ConstantPropagation) addconst(r mir.Reg, v int64) {
    if _, ok := self.consts[r]; !ok {
        self.consts[r] = v
    }
}

func (self *ConstantPropagation) phiconst(p *mir.IrPhi) (int64, bool) {
    var first bool
    var cdata int64

    /* registers declared by phi nodes can never be zero registers */
    if p.R.Zero() {
        panic("constprop: assignment to zero register in phi node: " + p.String())
    }

    /* all operands must agree on one constant */
    first = true
    for _, r := range p.V {
        if cc, ok := self.consts[*r]; !ok {
            return 0, false
        } else if first {
            cdata, first = cc, false
        } else if cdata != cc {
            return 0, false
        }
    }

    /* a phi with no operand slots merges nothing */
    return cdata, !first
}

func (ConstantPropagation) unary(v int64, op mir.IrUnaryOp) int64 {
    switch op {
        case mir.IrOpNegate : return -v
        case mir.IrOpNot    : return ^v
        default             : panic(fmt.Sprintf("constprop: invalid unary operator: %d", op))
    }
}

func (ConstantPropagation) binary(x int64, y int64, op mir.IrBinaryOp) int64 {
    switch op {
        case mir.IrOpAdd : return x + y
        case mir.IrOpSub : return x - y
        case mir.IrOpMul : return x * y
        case mir.IrOpAnd : return x & y
        case mir.IrOpOr  : return x | y
        case mir.IrOpXor : return x ^ y
        case mir.IrOpShr : return int64(uint64(x) >> uint64(y))
        case mir.IrCmpEq : if x == y { return 1 } else { return 0 }
        case mir.IrCmpNe : if x != y { return 1 } else { return 0 }
        case mir.IrCmpLt : if x <  y { return 1 } else { return 0 }
        default          : panic(fmt.Sprintf("constprop: invalid binary operator: %d", op))
    }
}
