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
    `github.com/oleiade/lane`
)

// _ConstEnv maps variables to their known literal values, absent variables
// are unknown.
type _ConstEnv map[string]*ir.Literal

func (self _ConstEnv) clone() _ConstEnv {
    ret := make(_ConstEnv, len(self))
    for k, v := range self {
        ret[k] = v
    }
    return ret
}

// meet keeps only the variables on which both environments agree.
func (self _ConstEnv) meet(other _ConstEnv) {
    for k, v := range self {
        if w, ok := other[k]; !ok || !v.Equal(w) {
            delete(self, k)
        }
    }
}

func (self _ConstEnv) equals(other _ConstEnv) bool {
    if len(self) != len(other) {
        return false
    }

    /* check every variable */
    for k, v := range self {
        if w, ok := other[k]; !ok || !v.Equal(w) {
            return false
        }
    }
    return true
}

type _BlockState struct {
    in   _ConstEnv
    out  _ConstEnv
    succ BlockSet
}

// ConstProp propagates constants through the CFG, folds constant expressions,
// simplifies conditional branches with known conditions and finally removes
// the code that became dead.
//
// Definitions inside loop bodies are never published as constants to other
// blocks, since a single traversal cannot prove loop-carried values constant.
type ConstProp struct{}

func (ConstProp) binary(op string, x int64, y int64) (int64, bool) {
    switch op {
        case ir.OpAdd : return x + y, true
        case ir.OpSub : return x - y, true
        case ir.OpMul : return x * y, true
        case ir.OpDiv : if y == 0 { return 0, false } else { return x / y, true }
        case ir.OpEq  : return b2i(x == y), true
        case ir.OpNe  : return b2i(x != y), true
        case ir.OpLt  : return b2i(x <  y), true
        case ir.OpGt  : return b2i(x >  y), true
        case ir.OpLe  : return b2i(x <= y), true
        case ir.OpGe  : return b2i(x >= y), true
        default       : return 0, false
    }
}

func isComparison(op string) bool {
    switch op {
        case ir.OpEq, ir.OpNe, ir.OpLt, ir.OpGt, ir.OpLe, ir.OpGe : return true
        default                                                   : return false
    }
}

func b2i(v bool) int64 {
    if v {
        return 1
    } else {
        return 0
    }
}

// eval computes the value of p under env if it is a constant.
func (self ConstProp) eval(p *ir.Instr, env _ConstEnv) (*ir.Literal, bool) {
    switch p.Op {
        default: {
            return nil, false
        }

        /* literal constants */
        case ir.OpConst: {
            return p.Value, p.Value != nil
        }

        /* copies of constants */
        case ir.OpId: {
            if len(p.Args) != 1 {
                return nil, false
            } else {
                v, ok := env[p.Args[0]]
                return v, ok
            }
        }

        /* arithmetic and comparisons */
        case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpEq, ir.OpNe, ir.OpLt, ir.OpGt, ir.OpLe, ir.OpGe: {
            if len(p.Args) != 2 {
                return nil, false
            }

            /* both operands must be known integers */
            x, ok := env[p.Args[0]]
            if !ok || x.Kind != ir.LitInt {
                return nil, false
            }
            y, ok := env[p.Args[1]]
            if !ok || y.Kind != ir.LitInt {
                return nil, false
            }

            /* division by zero is never folded */
            r, ok := self.binary(p.Op, x.Int, y.Int)
            if !ok {
                return nil, false
            }

            /* comparisons of boolean type produce boolean literals */
            if isComparison(p.Op) && p.Type.IsBool() {
                return ir.BoolLit(r != 0), true
            } else {
                return ir.IntLit(r), true
            }
        }
    }
}

// branch returns the taken target of a conditional branch with a known condition.
func (ConstProp) branch(p *ir.Instr, env _ConstEnv) (string, bool) {
    if p.Op != ir.OpBr || len(p.Args) != 1 || len(p.Labels) != 2 {
        return "", false
    } else if v, ok := env[p.Args[0]].AsInt(); !ok {
        return "", false
    } else if v != 0 {
        return p.Labels[0], true
    } else {
        return p.Labels[1], true
    }
}

// transfer evaluates bb under env, which is updated in place. If emit is set,
// the rewritten instructions are returned as well.
func (self ConstProp) transfer(cfg *CFG, bb *BasicBlock, env _ConstEnv, loop bool, emit bool) ([]ir.Instr, BlockSet, int, int) {
    var nf int
    var nb int
    var ins []ir.Instr

    /* the rewritten block */
    if emit {
        ins = make([]ir.Instr, 0, len(bb.Ins))
    }

    /* definitions in this block */
    succ := newBlockSet(bb.Succ...)
    defs := make(VarSet)

    /* evaluate every instruction */
    for i := range bb.Ins {
        p := &bb.Ins[i]
        q := p

        /* conditional branches with known conditions */
        if to, ok := self.branch(p, env); ok {
            nb++
            tr := ir.Jump(to)
            succ = newBlockSet(cfg.labels[to])

            /* replace with an unconditional jump */
            if emit {
                ins = append(ins, tr)
            }
            continue
        }

        /* update the environment */
        if p.HasDest() {
            defs.add(p.Dest)
            if v, ok := self.eval(p, env); !ok {
                delete(env, p.Dest)
            } else if env[p.Dest] = v; p.Op != ir.OpConst {
                nf++
                lit := *v
                fc := ir.Const(p.Dest, p.Type, &lit)
                q = &fc
            }
        }

        /* emit the instruction */
        if emit {
            ins = append(ins, *q)
        }
    }

    /* loop-defined values are not published */
    if loop {
        for v := range defs {
            delete(env, v)
        }
    }
    return ins, succ, nf, nb
}

func (self ConstProp) solve(cfg *CFG, loops BlockSet) []*_BlockState {
    nb := len(cfg.Blocks)
    st := make([]*_BlockState, nb)
    queued := make([]bool, nb)

    /* worklist of block IDs */
    q := lane.NewQueue()
    q.Enqueue(cfg.Entry)
    queued[cfg.Entry] = true

    /* propagate until the worklist is empty */
    for !q.Empty() {
        id := q.Dequeue().(int)
        bb := cfg.Blocks[id]
        queued[id] = false

        /* evaluate the block over a snapshot of the in-state */
        in := self.meet(cfg, id, st)
        out := in.clone()
        _, succ, _, _ := self.transfer(cfg, bb, out, loops.Has(id), false)

        /* check for changes */
        if st[id] != nil && st[id].out.equals(out) && st[id].succ.equals(succ) {
            st[id].in = in
            continue
        }

        /* update the block state */
        st[id] = &_BlockState {
            in   : in,
            out  : out,
            succ : succ,
        }

        /* every feasible successor needs to be re-evaluated */
        for _, s := range succ.Slice() {
            if !queued[s] {
                queued[s] = true
                q.Enqueue(s)
            }
        }
    }

    /* compute the final in-state of every visited block */
    for id, s := range st {
        if s != nil {
            s.in = self.meet(cfg, id, st)
        }
    }
    return st
}

// meet combines the out-states of every evaluated predecessor with a feasible
// edge into id. The entry always starts with nothing known.
func (ConstProp) meet(cfg *CFG, id int, st []*_BlockState) _ConstEnv {
    var ret _ConstEnv
    if id == cfg.Entry {
        return make(_ConstEnv)
    }

    /* a variable is constant iff all the predecessors agree */
    for _, p := range cfg.Blocks[id].Pred {
        if s := st[p]; s != nil && s.succ.Has(id) {
            if ret == nil {
                ret = s.out.clone()
            } else {
                ret.meet(s.out)
            }
        }
    }

    /* no predecessors evaluated */
    if ret == nil {
        ret = make(_ConstEnv)
    }
    return ret
}

func (self ConstProp) Apply(fn *ir.Function) {
    apply(self, fn)
}

// Run repeats the propagation until the function stops changing. Folding a
// branch may break a loop apart, which exposes values that the loop rule had
// kept unknown in the previous round.
func (self ConstProp) Run(fn *ir.Function, tally *Tally) {
    for fp := Fingerprint(fn); self.round(fn, tally); {
        if nf := Fingerprint(fn); nf == fp {
            break
        } else {
            fp = nf
        }
    }
}

// round performs one propagation over fn, it returns false if the function
// has no blocks at all.
func (self ConstProp) round(fn *ir.Function, tally *Tally) bool {
    var nf int
    var nb int
    var ne int

    /* build the analysis artifacts */
    cfg := BuildCFG(fn)
    if len(cfg.Blocks) == 0 {
        return false
    }

    /* mark blocks inside loop bodies */
    loops := make(BlockSet)
    for _, lp := range FindLoops(cfg, Dominators(cfg)) {
        loops.union(lp.Body)
    }

    /* solve the data-flow equations */
    st := self.solve(cfg, loops)
    reach := cfg.Reachable()

    /* rewrite every block with its converged in-state */
    for _, bb := range cfg.Blocks {
        var f, b int
        env := make(_ConstEnv)

        /* unevaluated blocks know nothing */
        if s := st[bb.Id]; s != nil {
            env = s.in.clone()
        }

        /* rewrite the block */
        bb.Ins, _, f, b = self.transfer(cfg, bb, env, loops.Has(bb.Id), true)
        nf += f
        nb += b
    }

    /* remove the arms that are no longer reachable */
    if fn.Instrs = cfg.Instrs(); nb != 0 {
        fn.Instrs, ne = self.elide(fn, reach)
    }

    /* update the statistics */
    tally.Folds += nf
    tally.Branches += nb
    tally.Elided += ne

    /* finally remove the dead definitions */
    DCE{}.Run(fn, tally)
    return true
}

// elide removes the non-label instructions of every block that was reachable
// before branch folding but no longer is. Labels and code that was already
// unreachable are kept.
func (ConstProp) elide(fn *ir.Function, before BlockSet) ([]ir.Instr, int) {
    ne := 0
    cfg := BuildCFG(fn)
    after := cfg.Reachable()

    /* strip every dead arm */
    for _, bb := range cfg.Blocks {
        if bb.Synthetic || after.Has(bb.Id) || !before.Has(bb.Id) {
            continue
        }

        /* keep the labels only */
        ins := bb.Ins[:0:0]
        for _, p := range bb.Ins {
            if p.IsLabel() {
                ins = append(ins, p)
            }
        }

        /* replace the block */
        ne += len(bb.Ins) - len(ins)
        bb.Ins = ins
    }
    return cfg.Instrs(), ne
}
