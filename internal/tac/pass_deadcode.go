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

// removable reports whether p may be dropped once its result is unused.
// Labels, control transfers, effectful operations and operations without
// a destination are never removed.
func removable(p *ir.Instr) bool {
    return p.HasDest() && !p.IsEffectful() && !p.IsTerminator()
}

func usages(ins []ir.Instr) VarSet {
    use := make(VarSet)
    for i := range ins {
        use.add(ins[i].Args...)
    }
    return use
}

func sweepUnused(ins []ir.Instr, tally *Tally) ([]ir.Instr, int) {
    use := usages(ins)
    ret := make([]ir.Instr, 0, len(ins))

    /* drop every removable definition that nobody reads */
    for i := range ins {
        if p := &ins[i]; !removable(p) || use.Has(p.Dest) {
            ret = append(ret, *p)
        }
    }

    /* count the removed instructions */
    tally.Removed += len(ins) - len(ret)
    return ret, len(ins) - len(ret)
}

// DCEOnce removes unused definitions with a single flow-insensitive sweep. It
// might leave definitions that only became dead during the sweep.
type DCEOnce struct{}

func (self DCEOnce) Apply(fn *ir.Function) {
    apply(self, fn)
}

func (DCEOnce) Run(fn *ir.Function, tally *Tally) {
    fn.Instrs, _ = sweepUnused(fn.Instrs, tally)
}

// DCE repeats the flow-insensitive sweep until nothing is removed.
type DCE struct{}

func (self DCE) Apply(fn *ir.Function) {
    apply(self, fn)
}

func (DCE) Run(fn *ir.Function, tally *Tally) {
    for {
        var nb int
        if fn.Instrs, nb = sweepUnused(fn.Instrs, tally); nb == 0 {
            break
        }
    }
}

// LiveDCE removes definitions that are not live with one backward sweep.
//
// Branch targets are not modeled: at every `jmp` or `br` the live set is
// saturated with every variable the function reads, and at every `ret` it
// is reset to the values it returns.
type LiveDCE struct{}

func (self LiveDCE) Apply(fn *ir.Function) {
    apply(self, fn)
}

func (LiveDCE) Run(fn *ir.Function, tally *Tally) {
    nb := len(fn.Instrs)
    all := usages(fn.Instrs)
    live := make(VarSet)
    keep := make([]bool, nb)

    /* scan backwards */
    for i := nb - 1; i >= 0; i-- {
        p := &fn.Instrs[i]

        /* labels are always kept */
        if p.IsLabel() {
            keep[i] = true
            continue
        }

        /* control transfers */
        switch p.Op {
            case ir.OpJmp, ir.OpBr : live.union(all)
            case ir.OpRet          : live = make(VarSet)
        }

        /* dead definitions */
        if removable(p) && !live.Has(p.Dest) {
            continue
        }

        /* the definition consumes the variable, then the arguments become live */
        if keep[i] = true; p.HasDest() {
            delete(live, p.Dest)
        }

        /* mark the arguments */
        live.add(p.Args...)
    }

    /* rebuild the instruction list */
    ret := make([]ir.Instr, 0, nb)
    for i, ok := range keep {
        if ok {
            ret = append(ret, fn.Instrs[i])
        }
    }

    /* update the function */
    tally.Removed += nb - len(ret)
    fn.Instrs = ret
}
