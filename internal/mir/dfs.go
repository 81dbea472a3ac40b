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

/* ComputeDFSOrders records the pre-order and post-order visitation
 * sequences of a depth-first walk over successor edges from the entry
 * block. The visited set is local to this call, it is never stored on the
 * blocks themselves. Unreachable blocks appear in neither order. */
func (self *Graph) ComputeDFSOrders() {
    pre := make([]int, 0, len(self.Blocks))
    post := make([]int, 0, len(self.Blocks))
    visited := make(map[int]bool, len(self.Blocks))

    /* depth-first walk over successor edges */
    var dfs func(id int)
    dfs = func(id int) {
        visited[id] = true
        pre = append(pre, id)

        /* visit every successor exactly once */
        for _, w := range self.Block(id).successors() {
            if !visited[w] {
                dfs(w)
            }
        }

        /* all successors done */
        post = append(post, id)
    }

    /* traverse from the entry block */
    dfs(self.Entry)
    self.PreOrder = pre
    self.PostOrder = post
    self.dfsValid = true
}

/* ComputePredecessors rebuilds the predecessor set of every block from the
 * successor edges. It is a full recomputation every time, blocks may have
 * been inserted or removed since the last one. */
func (self *Graph) ComputePredecessors() {
    ids := self.BlockIds()
    seen := make(map[[2]int]bool)

    /* predecessors are derived data, drop the previous sets */
    for _, id := range ids {
        self.Blocks[id].Pred = nil
    }

    /* scan the successor edges of every block in the arena */
    for _, id := range ids {
        for _, w := range self.Blocks[id].successors() {
            e := [2]int { id, w }

            /* a switch may branch to the same block on several values,
             * that still is a single predecessor edge */
            if !seen[e] {
                seen[e] = true
                self.Blocks[w].Pred = append(self.Blocks[w].Pred, id)
            }
        }
    }
}

/* ComputeTopologicalOrder computes a reverse post-order of the reachable
 * blocks. Back edges are the only edges against the order, which makes it a
 * topological sort of the acyclic reduction of the graph. */
func (self *Graph) ComputeTopologicalOrder() {
    if !self.dfsValid {
        panic("mir: topological order requires up-to-date DFS orders")
    }

    /* reverse post-order */
    rpo := make([]int, len(self.PostOrder))
    copy(rpo, self.PostOrder)
    intreverse(rpo)

    /* mark as valid */
    self.TopoOrder = rpo
    self.topoValid = true
}
