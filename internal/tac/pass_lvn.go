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

    `github.com/cloudwego/tacopt/ir`
)

type _ValueTable struct {
    next int
    vals map[string]int
    vars map[string]int
    home map[int]string
}

func newValueTable() *_ValueTable {
    return &_ValueTable {
        vals: make(map[string]int),
        vars: make(map[string]int),
        home: make(map[int]string),
    }
}

func (self *_ValueTable) fresh() int {
    self.next++
    return self.next
}

func (self *_ValueTable) assign(name string, vn int) {
    self.vars[name] = vn
}

// number returns the value number currently held by a variable, variables
// that are live-in to the block get a fresh number on their first use.
func (self *_ValueTable) number(name string) int {
    if vn, ok := self.vars[name]; ok {
        return vn
    }

    /* the variable holds its own value */
    vn := self.fresh()
    self.vars[name] = vn
    self.home[vn] = name
    return vn
}

// holder returns a variable which still holds the value vn.
func (self *_ValueTable) holder(vn int) (string, bool) {
    if name, ok := self.home[vn]; !ok {
        return "", false
    } else if self.vars[name] != vn {
        return "", false
    } else {
        return name, true
    }
}

func isCommutative(op string) bool {
    switch op {
        case "add", "mul", "and", "or", "eq", "fadd", "fmul", "feq" : return true
        default                                                     : return false
    }
}

func isOpaque(op string) bool {
    switch op {
        case ir.OpLoad, ir.OpStore, ir.OpCall, ir.OpAlloc : return true
        default                                          : return false
    }
}

// LVN performs Local Value Numbering on every basic block independently.
type LVN struct{}

func (self LVN) key(p *ir.Instr, vt *_ValueTable) string {
    if p.Op == ir.OpConst {
        return fmt.Sprintf("(const %s %s)", p.Type, p.Value)
    }

    /* resolve the value number of every operand */
    vns := make([]int, len(p.Args))
    for i, v := range p.Args {
        vns[i] = vt.number(v)
    }

    /* commutative operations, sort the operands */
    if isCommutative(p.Op) {
        sort.Ints(vns)
    }

    /* build the value key */
    buf := make([]string, 0, len(vns) + len(p.Labels) + len(p.Funcs) + 2)
    buf = append(buf, p.Op, p.Type.String())

    /* operands, targets and callees */
    for _, vn := range vns      { buf = append(buf, fmt.Sprintf("#%d", vn)) }
    for _, lb := range p.Labels { buf = append(buf, "." + lb) }
    for _, fn := range p.Funcs  { buf = append(buf, "@" + fn) }
    return "(" + strings.Join(buf, " ") + ")"
}

func (self LVN) block(ins []ir.Instr) ([]ir.Instr, int) {
    nc := 0
    vt := newValueTable()
    ret := make([]ir.Instr, 0, len(ins))

    /* scan every instruction */
    for i := range ins {
        p := &ins[i]

        /* instructions without destinations are kept as is */
        if !p.HasDest() || (p.Op == ir.OpConst && p.Value == nil) {
            if p.HasDest() {
                vt.assign(p.Dest, vt.fresh())
            }
            ret = append(ret, *p)
            continue
        }

        /* instructions with side-effects always produce a new value */
        if isOpaque(p.Op) {
            vt.assign(p.Dest, vt.fresh())
            ret = append(ret, *p)
            continue
        }

        /* copies share the value number of their source */
        if p.Op == ir.OpId && len(p.Args) == 1 {
            vn := vt.number(p.Args[0])
            if _, ok := vt.holder(vn); !ok {
                vt.home[vn] = p.Dest
            }
            vt.assign(p.Dest, vn)
            ret = append(ret, *p)
            continue
        }

        /* check for existing values */
        key := self.key(p, vt)
        vn, ok := vt.vals[key]

        /* this is a new value */
        if !ok {
            vn = vt.fresh()
            vt.vals[key] = vn
            vt.home[vn] = p.Dest
            vt.assign(p.Dest, vn)
            ret = append(ret, *p)
            continue
        }

        /* the value is still held by some variable, replace with a copy */
        if src, ok := vt.holder(vn); ok {
            if src != p.Dest {
                nc++
                ret = append(ret, ir.Copy(p.Dest, p.Type, src))
            } else {
                ret = append(ret, *p)
            }
            vt.assign(p.Dest, vn)
            continue
        }

        /* the original holder has been overwritten, this one takes over */
        vt.home[vn] = p.Dest
        vt.assign(p.Dest, vn)
        ret = append(ret, *p)
    }
    return ret, nc
}

func (self LVN) Apply(fn *ir.Function) {
    apply(self, fn)
}

func (self LVN) Run(fn *ir.Function, tally *Tally) {
    nc := 0
    cfg := BuildCFG(fn)

    /* value tables never cross block boundaries */
    for _, bb := range cfg.Blocks {
        var n int
        bb.Ins, n = self.block(bb.Ins)
        nc += n
    }

    /* rebuild the instruction list */
    tally.Copies += nc
    fn.Instrs = cfg.Instrs()
}
