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

// DomSets maps every block ID to the set of blocks dominating it.
//
// Blocks without predecessors (other than the entry) keep the full block set,
// which means their dominance is undefined since they are unreachable.
type DomSets []BlockSet

// Dominates reports whether block a dominates block b.
func (self DomSets) Dominates(a int, b int) bool {
    return self[b].Has(a)
}

// Dominators computes the dominator sets of every block with the classic
// iterative data-flow formulation:
//
//     dom(entry) = {entry}
//     dom(b)     = {b} ∪ ⋂ dom(p) for every predecessor p of b
//
// The sets only shrink and are bounded below by {b}, so the iteration
// always terminates.
func Dominators(cfg *CFG) DomSets {
    nb := len(cfg.Blocks)
    dom := make(DomSets, nb)

    /* nothing to do for empty functions */
    if nb == 0 {
        return dom
    }

    /* the universal set */
    full := make(BlockSet, nb)
    for id := range cfg.Blocks {
        full.add(id)
    }

    /* initialize every set */
    for id := range dom {
        if id == cfg.Entry {
            dom[id] = newBlockSet(id)
        } else {
            dom[id] = full.clone()
        }
    }

    /* visit reachable blocks in reverse post order, then the rest */
    vis := make([]bool, nb)
    order := cfg.ReversePostOrder()

    /* mark the visited blocks */
    for _, id := range order {
        vis[id] = true
    }

    /* append the unreachable blocks */
    for id := range cfg.Blocks {
        if !vis[id] {
            order = append(order, id)
        }
    }

    /* iterate until no set changes */
    for changed := true; changed; {
        changed = false
        for _, id := range order {
            bb := cfg.Blocks[id]

            /* entry is fixed, blocks without predecessors keep the full set */
            if id == cfg.Entry || len(bb.Pred) == 0 {
                continue
            }

            /* intersect the dominators of every predecessor */
            ds := dom[bb.Pred[0]].clone()
            for _, p := range bb.Pred[1:] {
                ds.intersect(dom[p])
            }

            /* add the block itself */
            if ds.add(id); !ds.equals(dom[id]) {
                dom[id] = ds
                changed = true
            }
        }
    }
    return dom
}
