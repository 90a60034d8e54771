/*
 * Copyright 2026 CloudWeGo Authors
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

package tac

import (
    `fmt`
    `sort`
    `strings`
)

type (
    BlockSet map[int]struct{}
    VarSet   map[string]struct{}
)

func newBlockSet(ids ...int) (rs BlockSet) {
    rs = make(BlockSet, len(ids))
    for _, id := range ids { rs.add(id) }
    return
}

func (self BlockSet) Has(id int) bool {
    _, ok := self[id]
    return ok
}

func (self BlockSet) add(id int) bool {
    if _, ok := self[id]; ok {
        return false
    } else {
        self[id] = struct{}{}
        return true
    }
}

func (self BlockSet) clone() (rs BlockSet) {
    rs = make(BlockSet, len(self))
    for id := range self {
        rs.add(id)
    }
    return
}

func (self BlockSet) union(other BlockSet) {
    for id := range other {
        self.add(id)
    }
}

func (self BlockSet) intersect(other BlockSet) {
    for id := range self {
        if !other.Has(id) {
            delete(self, id)
        }
    }
}

func (self BlockSet) equals(other BlockSet) bool {
    if len(self) != len(other) {
        return false
    }

    /* check every element */
    for id := range self {
        if !other.Has(id) {
            return false
        }
    }
    return true
}

// Slice returns the block IDs in ascending order.
func (self BlockSet) Slice() []int {
    rs := make([]int, 0, len(self))
    for id := range self {
        rs = append(rs, id)
    }

    /* sort by block ID */
    sort.Ints(rs)
    return rs
}

func (self BlockSet) String() string {
    ids := self.Slice()
    rs := make([]string, 0, len(ids))

    /* convert every block */
    for _, id := range ids {
        rs = append(rs, fmt.Sprintf("bb_%d", id))
    }

    /* join them together */
    return fmt.Sprintf(
        "{%s}",
        strings.Join(rs, ", "),
    )
}

func (self VarSet) Has(v string) bool {
    _, ok := self[v]
    return ok
}

func (self VarSet) add(vs ...string) {
    for _, v := range vs {
        self[v] = struct{}{}
    }
}

func (self VarSet) union(other VarSet) {
    for v := range other {
        self[v] = struct{}{}
    }
}
