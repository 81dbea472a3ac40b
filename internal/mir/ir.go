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

/** SSA Register Representation
 *
 *  A Reg packs the original variable name and its SSA version into a single
 *  integer. Version 0 is reserved for "value at method entry": the renaming
 *  pass hands out versions starting from 1, so a use that is reached by no
 *  explicit definition keeps version 0.
 */

type Reg uint64

const (
    _B_kind = 60
    _B_name = 32
)

const (
    _M_kind = 0x0f
    _M_name = 0x0fffffff
    _M_vers = 0xffffffff
)

const (
    _K_norm = 0
    _K_zero = 1
)

/* Rz is the constant-zero register, it is never renamed */
const Rz Reg = _K_zero << _B_kind

func Rv(name int) Reg {
    if name < 0 || name > _M_name {
        panic(fmt.Sprintf("mir: invalid register name: %d", name))
    } else {
        return Reg(name) << _B_name
    }
}

func (self Reg) Name() int {
    return int((self >> _B_name) & _M_name)
}

func (self Reg) Kind() uint8 {
    return uint8((self >> _B_kind) & _M_kind)
}

func (self Reg) Version() int {
    return int(self & _M_vers)
}

func (self Reg) Zero() bool {
    return self.Kind() == _K_zero
}

/* Base strips the SSA version, yielding the original variable. */
func (self Reg) Base() Reg {
    return self &^ _M_vers
}

/* Derive produces the same variable at SSA version i. */
func (self Reg) Derive(i int) Reg {
    return self.Base() | Reg(uint64(i) & _M_vers)
}

func (self Reg) String() string {
    if self.Zero() {
        return "$0"
    } else {
        return fmt.Sprintf("%%v%d.%d", self.Name(), self.Version())
    }
}

type IrNode interface {
    fmt.Stringer
    irnode()
}

func (*IrPhi)        irnode() {}
func (*IrCopy)       irnode() {}
func (*IrSwitch)     irnode() {}
func (*IrReturn)     irnode() {}
func (*IrLoadArg)    irnode() {}
func (*IrConstInt)   irnode() {}
func (*IrUnaryExpr)  irnode() {}
func (*IrBinaryExpr) irnode() {}

type IrUsages interface {
    IrNode
    Usages() []*Reg
}

type IrDefinitions interface {
    IrNode
    Definitions() []*Reg
}

/* IrPhi merges one SSA version of R per predecessor edge, keyed by
 * predecessor block ID. The operand slots are materialized by the phi
 * placement pass and filled by a separate pass after renaming. */
type IrPhi struct {
    R Reg
    V map[int]*Reg
}

func (self *IrPhi) String() string {
    nb := len(self.V)
    ret := make([]string, 0, nb)
    ids := make([]int, 0, nb)

    /* sort by predecessor block ID */
    for id := range self.V {
        ids = append(ids, id)
    }
    sort.Ints(ids)

    /* add each path */
    for _, id := range ids {
        ret = append(ret, fmt.Sprintf("bb_%d: %s", id, *self.V[id]))
    }

    /* join them together */
    return fmt.Sprintf(
        "%s = φ(%s)",
        self.R,
        strings.Join(ret, ", "),
    )
}

func (self *IrPhi) Usages() (r []*Reg) {
    ids := make([]int, 0, len(self.V))
    for id := range self.V { ids = append(ids, id) }
    sort.Ints(ids)
    for _, id := range ids { r = append(r, self.V[id]) }
    return
}

func (self *IrPhi) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrSuccessors interface {
    Next() bool
    Block() int
    Value() (int64, bool)
}

type IrTerminator interface {
    IrNode
    Successors() IrSuccessors
    irterminator()
}

func (*IrSwitch) irterminator() {}
func (*IrReturn) irterminator() {}

type _SwitchSuccessors struct {
    i int
    k []int64
    v []int
}

func (self *_SwitchSuccessors) Next() bool {
    self.i++
    return self.i < len(self.v)
}

func (self *_SwitchSuccessors) Block() int {
    return self.v[self.i]
}

func (self *_SwitchSuccessors) Value() (int64, bool) {
    if self.i >= len(self.k) {
        return 0, false
    } else {
        return self.k[self.i], true
    }
}

/* IrSwitch is the only branching terminator: Br maps compare values to
 * successor blocks, Ln is the default successor. An unconditional branch is
 * a switch with no cases. Successors are block IDs, never block pointers. */
type IrSwitch struct {
    V  Reg
    Ln int
    Br map[int64]int
}

func (self *IrSwitch) String() string {
    nb := len(self.Br)
    ret := make([]string, 0, nb)

    /* no branches */
    if nb == 0 {
        return fmt.Sprintf("goto bb_%d", self.Ln)
    }

    /* add each case, sorted by value */
    for _, k := range self.keys() {
        ret = append(ret, fmt.Sprintf("  %d => bb_%d,", k, self.Br[k]))
    }

    /* default branch */
    ret = append(ret, fmt.Sprintf(
        "  _ => bb_%d,",
        self.Ln,
    ))

    /* join them together */
    return fmt.Sprintf(
        "switch %s {\n%s\n}",
        self.V,
        strings.Join(ret, "\n"),
    )
}

func (self *IrSwitch) keys() []int64 {
    ks := make([]int64, 0, len(self.Br))
    for k := range self.Br { ks = append(ks, k) }
    sort.Slice(ks, func(i int, j int) bool { return ks[i] < ks[j] })
    return ks
}

func (self *IrSwitch) Usages() []*Reg {
    if len(self.Br) == 0 {
        return nil
    } else {
        return []*Reg { &self.V }
    }
}

func (self *IrSwitch) Successors() IrSuccessors {
    ks := self.keys()
    vs := make([]int, 0, len(ks) + 1)
    for _, k := range ks { vs = append(vs, self.Br[k]) }
    return &_SwitchSuccessors {
        i: -1,
        k: ks,
        v: append(vs, self.Ln),
    }
}

type _EmptySuccessor struct{}
func (_EmptySuccessor) Next()  bool          { return false }
func (_EmptySuccessor) Block() int           { return -1 }
func (_EmptySuccessor) Value() (int64, bool) { return 0, false }

type IrReturn struct {
    R []Reg
}

func (self *IrReturn) String() string {
    nb := len(self.R)
    ret := make([]string, 0, nb)

    /* dump registers */
    for _, r := range self.R {
        ret = append(ret, r.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "ret {%s}",
        strings.Join(ret, ", "),
    )
}

func (self *IrReturn) Usages() []*Reg {
    return regsliceref(self.R)
}

func (self *IrReturn) Successors() IrSuccessors {
    return _EmptySuccessor{}
}

/* IrLoadArg is the only opaque definition source: the value of a method
 * argument is unknowable to every pass. */
type IrLoadArg struct {
    R  Reg
    Id uint64
}

func (self *IrLoadArg) String() string {
    return fmt.Sprintf("%s = load.arg(#%d)", self.R, self.Id)
}

func (self *IrLoadArg) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrConstInt struct {
    R Reg
    V int64
}

func (self *IrConstInt) String() string {
    return fmt.Sprintf("%s = const.i64 %d", self.R, self.V)
}

func (self *IrConstInt) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrCopy struct {
    R Reg
    V Reg
}

func (self *IrCopy) String() string {
    return fmt.Sprintf("%s = %s", self.R, self.V)
}

func (self *IrCopy) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrCopy) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type (
    IrUnaryOp  uint8
    IrBinaryOp uint8
)

const (
    IrOpNegate IrUnaryOp = iota
    IrOpNot
)

const (
    IrOpAdd IrBinaryOp = iota
    IrOpSub
    IrOpMul
    IrOpAnd
    IrOpOr
    IrOpXor
    IrOpShr
    IrCmpEq
    IrCmpNe
    IrCmpLt
)

func (self IrUnaryOp) String() string {
    switch self {
        case IrOpNegate : return "negate"
        case IrOpNot    : return "not"
        default         : panic("unreachable")
    }
}

func (self IrBinaryOp) String() string {
    switch self {
        case IrOpAdd : return "+"
        case IrOpSub : return "-"
        case IrOpMul : return "*"
        case IrOpAnd : return "&"
        case IrOpOr  : return "|"
        case IrOpXor : return "^"
        case IrOpShr : return ">>"
        case IrCmpEq : return "=="
        case IrCmpNe : return "!="
        case IrCmpLt : return "<"
        default      : panic("unreachable")
    }
}

type IrUnaryExpr struct {
    R  Reg
    V  Reg
    Op IrUnaryOp
}

func (self *IrUnaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s", self.R, self.Op, self.V)
}

func (self *IrUnaryExpr) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrUnaryExpr) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrBinaryExpr struct {
    R  Reg
    X  Reg
    Y  Reg
    Op IrBinaryOp
}

func (self *IrBinaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s %s", self.R, self.X, self.Op, self.Y)
}

func (self *IrBinaryExpr) Usages() []*Reg {
    return []*Reg { &self.X, &self.Y }
}

func (self *IrBinaryExpr) Definitions() []*Reg {
    return []*Reg { &self.R }
}
