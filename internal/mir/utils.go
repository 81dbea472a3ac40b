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
    `sort`
)

func regnewref(v Reg) (r *Reg) {
    r = new(Reg)
    *r = v
    return
}

func regsliceref(v []Reg) (r []*Reg) {
    r = make([]*Reg, len(v))
    for i := range v { r[i] = &v[i] }
    return
}

func intsetdump(m map[int]bool) (r []int) {
    r = make([]int, 0, len(m))
    for i := range m { r = append(r, i) }
    sort.Ints(r)
    return
}

func regsetdump(m map[Reg]map[int]bool) (r []Reg) {
    r = make([]Reg, 0, len(m))
    for v := range m { r = append(r, v) }
    sort.Slice(r, func(i int, j int) bool { return r[i] < r[j] })
    return
}

func intreverse(v []int) {
    for i, j := 0, len(v) - 1; i < j; i, j = i + 1, j - 1 {
        v[i], v[j] = v[j], v[i]
    }
}
