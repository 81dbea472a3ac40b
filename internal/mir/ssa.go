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

/* SSATransformationStart reconciles the recorded block count with the
 * actual block set, earlier passes may have inserted or removed blocks,
 * then resets every piece of SSA bookkeeping for a fresh construction. */
func (self *Graph) SSATransformationStart() {
    self.numBlocks = len(self.Blocks)
    self.DefBlocks = nil
    self.phiInput = make(map[int]map[Reg]Reg, self.numBlocks)
    self.UseCount = nil
    self.Locations = nil
}

/* SSATransformationEnd marks the SSA representation valid and releases the
 * bookkeeping that no later pass needs. */
func (self *Graph) SSATransformationEnd() {
    self.DefBlocks = nil
    self.phiInput = nil
    self.ssaValid = true
}

/* ClearPhiNodes drops the phi nodes of one block, stale phis from an
 * earlier construction must not survive into a rebuild. */
func (self *Graph) ClearPhiNodes(bb *BasicBlock) {
    bb.Phi = nil
}

/* ComputeDefBlockMatrix scans the instruction list of every reachable
 * block once and records, per variable, the set of blocks that define it.
 * Definitions in unreachable blocks are deliberately excluded, they must
 * not drive phi placement or renaming of reachable code. */
func (self *Graph) ComputeDefBlockMatrix() {
    if !self.dfsValid {
        panic("mir: def-block matrix requires up-to-date DFS orders")
    }

    defs := make(map[Reg]map[int]bool)
    for _, id := range self.PreOrder {
        for _, ins := range self.Blocks[id].Ins {
            if def, ok := ins.(IrDefinitions); ok {
                for _, d := range def.Definitions() {
                    if !d.Zero() {
                        if r := d.Base(); defs[r] == nil {
                            defs[r] = map[int]bool { id: true }
                        } else {
                            defs[r][id] = true
                        }
                    }
                }
            }
        }
    }
    self.DefBlocks = defs
}

/* InsertPhiNodes materializes one empty phi node per variable at every
 * block of the iterated dominance frontier of that variable's definition
 * sites. Operand slots are created per predecessor edge but left at the
 * unversioned variable, a later pass fills them in. */
func (self *Graph) InsertPhiNodes() {
    if !self.domValid {
        panic("mir: phi insertion requires up-to-date domination")
    }

    /* process variables in register order for determinism */
    phi := make(map[Reg]map[int]bool)
    for _, r := range regsetdump(self.DefBlocks) {
        wl := intsetdump(self.DefBlocks[r])

        /* iterated frontier worklist */
        for len(wl) != 0 {
            n := wl[0]
            wl = wl[1:]

            /* insert a phi node at every frontier block */
            for _, y := range self.DomFrontier[n] {
                if rem := phi[r]; !rem[y] {
                    yb := self.Blocks[y]
                    src := make(map[int]*Reg, len(yb.Pred))

                    /* mark as processed */
                    if rem != nil {
                        rem[y] = true
                    } else {
                        phi[r] = map[int]bool { y: true }
                    }

                    /* one operand slot per predecessor edge, an edge from
                     * an unreachable block carries no value */
                    for _, pred := range self.reachablePreds(y) {
                        src[pred] = regnewref(r)
                    }

                    /* insert the new phi node */
                    yb.Phi = append(yb.Phi, &IrPhi {
                        R: r,
                        V: src,
                    })

                    /* the phi node is itself a definition of the variable,
                     * a block may also contain an ordinary definition */
                    if !self.DefBlocks[r][y] {
                        wl = append(wl, y)
                    }
                }
            }
        }
    }
}

/* InitRegLocations allocates the per-variable storage-location slots the
 * later allocation passes consume, assigned in dominator-tree pre-order so
 * that the numbering is stable across runs. */
func (self *Graph) InitRegLocations() {
    loc := make(map[Reg]int)
    self.DomTreeOrder().ForEach(func(bb *BasicBlock) {
        for _, p := range bb.Phi {
            locassign(loc, p.R.Base())
        }
        for _, ins := range bb.Ins {
            if def, ok := ins.(IrDefinitions); ok {
                for _, d := range def.Definitions() {
                    if !d.Zero() {
                        locassign(loc, d.Base())
                    }
                }
            }
        }
    })
    self.Locations = loc
}

func locassign(loc map[Reg]int, r Reg) {
    if _, ok := loc[r]; !ok {
        loc[r] = len(loc)
    }
}
