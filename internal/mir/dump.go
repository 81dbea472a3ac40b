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
    `strings`

    `github.com/oleiade/lane`
)

/* DumpDot renders the reachable part of the graph as a Graphviz document,
 * annotated with predecessors and, when domination is up to date, the
 * immediate dominator and dominance frontier of each block. Debugging aid
 * only. */
func (self *Graph) DumpDot() string {
    q := lane.NewQueue()
    n := make(map[int]bool)
    buf := []string {
        "digraph CFG {",
        `    node [ fontsize = "16" shape = "box" ]`,
        `    START [ shape = "circle" ]`,
        fmt.Sprintf(`    START -> bb_%d`, self.Entry),
    }

    /* breadth-first over successor edges */
    n[self.Entry] = true
    for q.Enqueue(self.Entry); !q.Empty(); {
        id := q.Dequeue().(int)
        bb := self.Block(id)
        buf = append(buf, fmt.Sprintf(`    bb_%d [ label = %q ]`, id, self.dumplabel(bb)))

        /* add every edge */
        for _, w := range bb.successors() {
            buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d`, id, w))
            if !n[w] {
                n[w] = true
                q.Enqueue(w)
            }
        }
    }

    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}

func (self *Graph) dumplabel(bb *BasicBlock) string {
    var meta []string

    /* predecessors */
    pred := make([]string, 0, len(bb.Pred))
    for _, p := range bb.Pred {
        pred = append(pred, fmt.Sprintf("bb_%d", p))
    }
    meta = append(meta, fmt.Sprintf("# pred = {%s}", strings.Join(pred, ", ")))

    /* dominance annotations */
    if self.domValid {
        idom := "∅"
        if d, ok := self.DominatedBy[bb.Id]; ok {
            idom = fmt.Sprintf("bb_%d", d)
        }
        df := make([]string, 0, len(self.DomFrontier[bb.Id]))
        for _, d := range self.DomFrontier[bb.Id] {
            df = append(df, fmt.Sprintf("bb_%d", d))
        }
        meta = append(meta, fmt.Sprintf("# idom = %s", idom))
        meta = append(meta, fmt.Sprintf("# df = {%s}", strings.Join(df, ", ")))
    }

    return strings.Join(append(meta, bb.String()), "\n")
}
