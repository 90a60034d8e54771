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
    `sync/atomic`
)

var (
    FuncCount   int64
    CopyCount   int64
    FoldCount   int64
    BranchCount int64
    ElideCount  int64
    RemoveCount int64
    HoistCount  int64
)

func stat(p *int64, n int) {
    if n != 0 {
        atomic.AddInt64(p, int64(n))
    }
}

// Tally collects the changes made to a single function. Nothing is published
// to the global counters until Commit is called, so the work done on a result
// that gets discarded is never reported.
type Tally struct {
    Copies   int
    Folds    int
    Branches int
    Elided   int
    Removed  int
    Hoisted  int
}

// Commit publishes the tally to the global counters and resets it.
func (self *Tally) Commit() {
    stat(&CopyCount, self.Copies)
    stat(&FoldCount, self.Folds)
    stat(&BranchCount, self.Branches)
    stat(&ElideCount, self.Elided)
    stat(&RemoveCount, self.Removed)
    stat(&HoistCount, self.Hoisted)
    *self = Tally{}
}
