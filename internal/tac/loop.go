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

    `github.com/oleiade/lane`
)

// Loop is a natural loop. Preheader is -1 when the loop has no single
// predecessor outside of the body through which every entry flows.
type Loop struct {
    Header    int
    Latches   []int
    Body      BlockSet
    Preheader int
}

func (self *Loop) String() string {
    return fmt.Sprintf("loop bb_%d (preheader = %d, body = %s)", self.Header, self.Preheader, self.Body)
}

// FindLoops finds the natural loop of every back edge, largest body first.
// A header with multiple back edges produces one loop per edge, use
// MergeLoops to combine them.
func FindLoops(cfg *CFG, dom DomSets) []*Loop {
    var ret []*Loop
    reach := cfg.Reachable()

    /* find every back edge (p -> h) where h dominates p */
    for _, bb := range cfg.Blocks {
        for _, p := range bb.Pred {
            if reach.Has(p) && dom.Dominates(bb.Id, p) {
                body := loopBody(cfg, bb.Id, p, reach)
                ret = append(ret, &Loop {
                    Header    : bb.Id,
                    Latches   : []int { p },
                    Body      : body,
                    Preheader : preheaderOf(cfg, bb.Id, body, reach),
                })
            }
        }
    }

    /* outer (larger) loops first */
    sortLoops(ret)
    return ret
}

// MergeLoops combines loops sharing the same header into a single loop.
func MergeLoops(cfg *CFG, loops []*Loop) []*Loop {
    ret := make([]*Loop, 0, len(loops))
    idx := make(map[int]*Loop, len(loops))

    /* union the bodies and latches */
    for _, lp := range loops {
        if p, ok := idx[lp.Header]; !ok {
            v := &Loop {
                Header    : lp.Header,
                Latches   : append([]int(nil), lp.Latches...),
                Body      : lp.Body.clone(),
                Preheader : lp.Preheader,
            }
            idx[lp.Header] = v
            ret = append(ret, v)
        } else {
            p.Body.union(lp.Body)
            p.Latches = append(p.Latches, lp.Latches...)
        }
    }

    /* the preheader depends on the merged body */
    reach := cfg.Reachable()
    for _, lp := range ret {
        if len(lp.Latches) > 1 {
            lp.Preheader = preheaderOf(cfg, lp.Header, lp.Body, reach)
        }
    }

    /* keep the outer-first order */
    sortLoops(ret)
    return ret
}

func sortLoops(loops []*Loop) {
    sort.SliceStable(loops, func(i int, j int) bool {
        if ni, nj := len(loops[i].Body), len(loops[j].Body); ni != nj {
            return ni > nj
        } else {
            return loops[i].Header < loops[j].Header
        }
    })
}

func loopBody(cfg *CFG, header int, latch int, reach BlockSet) BlockSet {
    st := lane.NewStack()
    body := newBlockSet(header)

    /* flood-fill backwards from the latch, stopping at the header */
    if body.add(latch) {
        st.Push(latch)
    }

    /* walk the reachable predecessors */
    for !st.Empty() {
        for _, p := range cfg.Blocks[st.Pop().(int)].Pred {
            if reach.Has(p) && body.add(p) {
                st.Push(p)
            }
        }
    }
    return body
}

func preheaderOf(cfg *CFG, header int, body BlockSet, reach BlockSet) int {
    ret := -1
    for _, p := range cfg.Blocks[header].Pred {
        if !body.Has(p) && reach.Has(p) {
            if ret >= 0 {
                return -1
            }
            ret = p
        }
    }
    return ret
}
