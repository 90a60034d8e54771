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
    `github.com/cloudwego/tacopt/ir`
)

// LICM moves loop-invariant computations into the preheader of their loop.
//
// Loops are processed outer first, code that only becomes invariant after the
// inner loops are processed needs another run of the pass. Hoisted code runs
// even when the loop body would not, which is harmless for the pure operations
// considered here except a `div` that would fault.
type LICM struct{}

type _LoopState struct {
    lp   *Loop
    cfg  *CFG
    dom  DomSets
    defs map[string]int
}

func (self *_LoopState) fixed(p *ir.Instr) bool {
    switch p.Op {
        case ir.OpConst : return true
        case ir.OpLoad  : return false
        case ir.OpStore : return false
        case ir.OpCall  : return false
        case ir.OpPrint : return false
        case ir.OpBr    : return false
        case ir.OpJmp   : return false
        case ir.OpRet   : return false
        case ir.OpPhi   : return false
        case ir.OpAlloc : return false
        case ir.OpFree  : return false
    }

    /* every operand must come from outside the loop */
    for _, v := range p.Args {
        if self.defs[v] != 0 {
            return false
        }
    }
    return true
}

// dominant checks that the definition at (bb, i) reaches every use of its
// destination inside the loop, so no iteration can observe an older value.
func (self *_LoopState) dominant(bb int, i int, dest string) bool {
    for _, id := range self.lp.Body.Slice() {
        for j, p := range self.cfg.Blocks[id].Ins {
            if !readsVar(&p, dest) {
                continue
            }

            /* uses in the same block must come after the definition */
            if id == bb {
                if j <= i {
                    return false
                }
            } else if !self.dom.Dominates(bb, id) {
                return false
            }
        }
    }
    return true
}

func (self *_LoopState) movable(bb int, i int, p *ir.Instr) bool {
    if !p.HasDest() || self.defs[p.Dest] != 1 || !self.fixed(p) {
        return false
    }

    /* the preheader terminator must not observe the hoisted value */
    if tr := self.cfg.Blocks[self.lp.Preheader].terminator(); tr != nil && readsVar(tr, p.Dest) {
        return false
    }

    /* all the uses inside the loop must see this definition */
    return self.dominant(bb, i, p.Dest) && self.contained(bb, p.Dest)
}

// contained checks that the readers outside of the loop can not tell the
// difference, either there are none, or every way out of the loop passes
// through the definition and nothing but the loop follows the preheader.
func (self *_LoopState) contained(bb int, dest string) bool {
    used := false
    body := self.lp.Body

    /* find readers outside of the loop */
    for _, blk := range self.cfg.Blocks {
        if !body.Has(blk.Id) {
            for j := range blk.Ins {
                if readsVar(&blk.Ins[j], dest) {
                    used = true
                    break
                }
            }
        }
    }

    /* not used outside, no one can observe it */
    if !used {
        return true
    }

    /* the preheader must lead to the loop only */
    if len(self.cfg.Blocks[self.lp.Preheader].Succ) != 1 {
        return false
    }

    /* every exiting block must be dominated by the definition */
    for _, id := range body.Slice() {
        for _, s := range self.cfg.Blocks[id].Succ {
            if !body.Has(s) && !self.dom.Dominates(bb, id) {
                return false
            }
        }
    }
    return true
}

func readsVar(p *ir.Instr, name string) bool {
    for _, v := range p.Args {
        if v == name {
            return true
        }
    }
    return false
}

func (self LICM) hoist(cfg *CFG, dom DomSets, order []int, lp *Loop) int {
    var out []ir.Instr
    st := &_LoopState { lp: lp, cfg: cfg, dom: dom, defs: make(map[string]int) }

    /* count the definitions of every variable in the body */
    for _, id := range lp.Body.Slice() {
        for _, p := range cfg.Blocks[id].Ins {
            if p.HasDest() {
                st.defs[p.Dest]++
            }
        }
    }

    /* scan the body in reverse post order so that definitions come before their uses */
    for _, id := range order {
        if !lp.Body.Has(id) {
            continue
        }

        /* pick out the invariant instructions */
        bb := cfg.Blocks[id]
        ins := make([]ir.Instr, 0, len(bb.Ins))

        /* hoisting a definition makes its dependents candidates too */
        for i := range bb.Ins {
            if p := &bb.Ins[i]; !st.movable(id, i, p) {
                ins = append(ins, *p)
            } else {
                delete(st.defs, p.Dest)
                out = append(out, *p)
            }
        }

        /* update the block */
        if len(ins) != len(bb.Ins) {
            bb.Ins = ins
        }
    }

    /* insert before the preheader terminator */
    if len(out) != 0 {
        ph := cfg.Blocks[lp.Preheader]
        ph.Ins = spliceBeforeTerminator(ph, out)
    }
    return len(out)
}

func spliceBeforeTerminator(bb *BasicBlock, ins []ir.Instr) []ir.Instr {
    n := len(bb.Ins)
    ret := make([]ir.Instr, 0, n + len(ins))

    /* no terminator, append to the end */
    if bb.terminator() == nil {
        ret = append(ret, bb.Ins...)
        return append(ret, ins...)
    }

    /* keep the terminator last */
    ret = append(ret, bb.Ins[:n - 1]...)
    ret = append(ret, ins...)
    return append(ret, bb.Ins[n - 1])
}

func (self LICM) Apply(fn *ir.Function) {
    apply(self, fn)
}

func (self LICM) Run(fn *ir.Function, tally *Tally) {
    nh := 0
    cfg := BuildCFG(fn)

    /* nothing to do for empty functions */
    if len(cfg.Blocks) == 0 {
        return
    }

    /* find all the loops */
    dom := Dominators(cfg)
    rpo := cfg.ReversePostOrder()
    loops := MergeLoops(cfg, FindLoops(cfg, dom))

    /* loops without a preheader are skipped entirely */
    for _, lp := range loops {
        if lp.Preheader >= 0 {
            nh += self.hoist(cfg, dom, rpo, lp)
        }
    }

    /* rebuild the instruction list */
    if nh != 0 {
        tally.Hoisted += nh
        fn.Instrs = cfg.Instrs()
    }
}
