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
    `github.com/oleiade/lane`
)

/* DomTreeIter iterates the dominator tree in pre-order. The visited set
 * lives on the iterator, not on the blocks. Requires up-to-date
 * domination. */
type DomTreeIter struct {
    g *Graph
    b *BasicBlock
    s *lane.Stack
}

func (self *Graph) DomTreeOrder() *DomTreeIter {
    if !self.domValid {
        panic("mir: dominator tree traversal requires up-to-date domination")
    }
    s := lane.NewStack()
    s.Push(self.Entry)
    return &DomTreeIter { g: self, s: s }
}

func (self *DomTreeIter) Next() bool {
    if self.s.Empty() {
        self.b = nil
        return false
    }

    /* visit the node, then push the children in reverse so that the
     * smallest block ID pops first */
    id := self.s.Pop().(int)
    cc := self.g.DominatorOf[id]
    for i := len(cc) - 1; i >= 0; i-- {
        self.s.Push(cc[i])
    }

    self.b = self.g.Block(id)
    return true
}

func (self *DomTreeIter) Block() *BasicBlock {
    return self.b
}

func (self *DomTreeIter) ForEach(action func(bb *BasicBlock)) {
    for self.Next() {
        action(self.b)
    }
}
