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

/** Iterative dominator computation as described in Cooper, Harvey & Kennedy,
 *  "A Simple, Fast Dominance Algorithm", using the "intersect" walk over
 *  post-order numbers, followed by dominance frontier calculation.
 */

package mir

import (
    `fmt`
    `sort`

    `github.com/oleiade/lane`
)

/* ComputeDominators computes the immediate dominator of every reachable
 * block except the entry, the dominator tree children lists, the dominance
 * depth of each block, and the dominance frontiers. Requires up-to-date DFS
 * orders and predecessor sets. Unreachable blocks are excluded entirely. */
func (self *Graph) ComputeDominators() {
    if !self.dfsValid {
        panic("mir: domination requires up-to-date DFS orders")
    }

    /* post-order numbering of the reachable blocks */
    pidx := make(map[int]int, len(self.PostOrder))
    for i, id := range self.PostOrder {
        pidx[id] = i
    }

    /* reverse post-order, entry first */
    rpo := make([]int, len(self.PostOrder))
    copy(rpo, self.PostOrder)
    intreverse(rpo)

    /* the entry block dominates itself and has no immediate dominator */
    idom := make(map[int]int, len(rpo))
    idom[self.Entry] = self.Entry

    /* fixed point over reverse post-order */
    for changed := true; changed; {
        changed = false

        /* every reachable block except the entry */
        for _, b := range rpo[1:] {
            newidom := -1

            /* pick the first processed predecessor, fold in the rest;
             * unreachable predecessors have no post-order number and do
             * not participate */
            for _, p := range self.Blocks[b].Pred {
                if _, ok := pidx[p]; !ok {
                    continue
                }
                if _, ok := idom[p]; !ok {
                    continue
                }
                if newidom == -1 {
                    newidom = p
                } else {
                    newidom = self.intersect(idom, pidx, p, newidom)
                }
            }

            /* every non-entry reachable block has at least one reachable
             * predecessor by construction of the DFS */
            if newidom == -1 {
                panic(fmt.Sprintf("mir: no processed predecessor for reachable block bb_%d", b))
            }

            /* update the fixed point */
            if idom[b] != newidom {
                idom[b] = newidom
                changed = true
            }
        }
    }

    /* map the dominator relations, the entry has no immediate dominator */
    domby := make(map[int]int, len(idom))
    domof := make(map[int][]int, len(idom))
    for _, b := range rpo[1:] {
        domby[b] = idom[b]
        domof[idom[b]] = append(domof[idom[b]], b)
    }

    /* deterministic children order */
    for _, v := range domof {
        sort.Ints(v)
    }

    /* dominance depth, breadth-first down the dominator tree */
    q := lane.NewQueue()
    depth := make(map[int]int, len(rpo))
    depth[self.Entry] = 0

    for q.Enqueue(self.Entry); !q.Empty(); {
        p := q.Dequeue().(int)
        for _, c := range domof[p] {
            depth[c] = depth[p] + 1
            q.Enqueue(c)
        }
    }

    self.DominatedBy = domby
    self.DominatorOf = domof
    self.Depth = depth
    self.computeDominanceFrontier(rpo, domby)
    self.domValid = true
}

/* intersect walks up the two dominator chains until they meet, comparing
 * positions by post-order number. */
func (self *Graph) intersect(idom map[int]int, pidx map[int]int, a int, b int) int {
    for a != b {
        for pidx[a] < pidx[b] {
            a = idom[a]
        }
        for pidx[b] < pidx[a] {
            b = idom[b]
        }
    }
    return a
}

/* A block with two or more predecessors is in the dominance frontier of
 * every block on the path from each predecessor up to, but excluding, its
 * own immediate dominator. */
func (self *Graph) computeDominanceFrontier(rpo []int, domby map[int]int) {
    df := make(map[int]map[int]bool)

    for _, b := range rpo {
        preds := self.reachablePreds(b)
        if len(preds) < 2 {
            continue
        }
        for _, p := range preds {
            for r := p; r != domby[b]; r = domby[r] {
                if df[r] == nil {
                    df[r] = make(map[int]bool)
                }
                df[r][b] = true

                /* the entry block terminates every chain */
                if r == self.Entry {
                    break
                }
            }
        }
    }

    /* dump the sets in deterministic order */
    self.DomFrontier = make(map[int][]int, len(df))
    for b, s := range df {
        self.DomFrontier[b] = intsetdump(s)
    }
}

func (self *Graph) reachablePreds(b int) []int {
    var ret []int
    for _, p := range self.Blocks[b].Pred {
        if _, ok := self.Depth[p]; ok || p == self.Entry {
            ret = append(ret, p)
        }
    }
    return ret
}

/* VerifyDataflow recomputes the full dominator sets with a straightforward
 * iterative dataflow and checks the immediate dominators against them. It
 * is diagnostic only: a mismatch is an invariant violation and aborts the
 * compilation of this method, the graph is never repaired. */
func (self *Graph) VerifyDataflow(method string) {
    if !self.domValid {
        panic(fmt.Sprintf("verify-dataflow: %s: domination is stale", method))
    }

    /* Dom(entry) = {entry}, Dom(b) = {b} ∪ ⋂ Dom(pred) */
    dom := make(map[int]map[int]bool, len(self.PostOrder))
    dom[self.Entry] = map[int]bool { self.Entry: true }

    /* iterate in reverse post-order until stable */
    rpo := make([]int, len(self.PostOrder))
    copy(rpo, self.PostOrder)
    intreverse(rpo)

    for changed := true; changed; {
        changed = false
        for _, b := range rpo[1:] {
            var acc map[int]bool

            /* intersect the predecessor sets */
            for _, p := range self.reachablePreds(b) {
                if dom[p] == nil {
                    continue
                }
                if acc == nil {
                    acc = make(map[int]bool, len(dom[p]))
                    for d := range dom[p] {
                        acc[d] = true
                    }
                } else {
                    for d := range acc {
                        if !dom[p][d] {
                            delete(acc, d)
                        }
                    }
                }
            }

            /* a block always dominates itself */
            if acc == nil {
                acc = make(map[int]bool)
            }
            acc[b] = true

            /* check for changes */
            if len(acc) != len(dom[b]) {
                dom[b] = acc
                changed = true
            }
        }
    }

    /* the immediate dominator must be the unique deepest strict dominator */
    for _, b := range rpo[1:] {
        d, ok := self.DominatedBy[b]
        if !ok {
            panic(fmt.Sprintf("verify-dataflow: %s: reachable block bb_%d has no immediate dominator", method, b))
        }
        if !dom[b][d] {
            panic(fmt.Sprintf("verify-dataflow: %s: bb_%d does not dominate bb_%d", method, d, b))
        }
        if _, ok := dom[d]; !ok {
            panic(fmt.Sprintf("verify-dataflow: %s: bb_%d is dominated by unreachable block bb_%d", method, b, d))
        }
        for s := range dom[b] {
            if s != b && s != d && !dom[d][s] {
                panic(fmt.Sprintf("verify-dataflow: %s: bb_%d dominates bb_%d but not its immediate dominator bb_%d", method, s, b, d))
            }
        }
    }
}
