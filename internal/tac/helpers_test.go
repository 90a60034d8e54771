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
    `encoding/json`
    `fmt`
    `strings`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/cloudwego/tacopt/ir`
)

// parseInstr parses the textual form produced by ir.Instr.String.
func parseInstr(src string) ir.Instr {
    var p ir.Instr
    src = strings.TrimSuffix(strings.TrimSpace(src), ";")

    /* label markers */
    if strings.HasPrefix(src, ".") && strings.HasSuffix(src, ":") {
        return ir.LabelOf(src[1:len(src) - 1])
    }

    /* destination and type */
    if i := strings.Index(src, " = "); i >= 0 {
        lhs := src[:i]
        src = src[i + 3:]
        if j := strings.Index(lhs, ": "); j < 0 {
            p.Dest = lhs
        } else {
            p.Dest, p.Type = lhs[:j], ir.TypeOf(lhs[j + 2:])
        }
    }

    /* opcode and the literal value */
    fs := strings.Fields(src)
    p.Op, fs = fs[0], fs[1:]
    if p.Op == ir.OpConst && len(fs) != 0 {
        p.Value = new(ir.Literal)
        if err := json.Unmarshal([]byte(fs[0]), p.Value); err != nil {
            panic(err)
        }
        fs = fs[1:]
    }

    /* callees, targets and arguments */
    for _, v := range fs {
        switch v[0] {
            case '@' : p.Funcs = append(p.Funcs, v[1:])
            case '.' : p.Labels = append(p.Labels, v[1:])
            default  : p.Args = append(p.Args, v)
        }
    }
    return p
}

func function(name string, src ...string) *ir.Function {
    fn := &ir.Function { Name: name }
    for _, v := range src {
        fn.Instrs = append(fn.Instrs, parseInstr(v))
    }
    return fn
}

func lines(fn *ir.Function) []string {
    ret := make([]string, 0, len(fn.Instrs))
    for i := range fn.Instrs {
        ret = append(ret, fn.Instrs[i].String())
    }
    return ret
}

func cloneFunction(fn *ir.Function) *ir.Function {
    ret := *fn
    ret.Instrs = make([]ir.Instr, len(fn.Instrs))
    for i := range fn.Instrs {
        ret.Instrs[i] = fn.Instrs[i].Clone()
    }
    return &ret
}

var (
    randomVars = []string { "a", "b", "c", "d", "e" }
    randomOps  = []string { "const", "add", "mul", "sub", "div", "eq", "lt", "id", "print", "call", "load" }
)

// randomFunction generates a function with arbitrary control flow, including
// jumps to labels that do not exist and unreachable code.
func randomFunction(f *gofakeit.Faker, name string) *ir.Function {
    nl := f.IntRange(1, 6)
    fn := &ir.Function { Name: name }
    labels := make([]string, 0, nl + 1)

    /* label names, one of them is never defined */
    for i := 0; i < nl; i++ {
        labels = append(labels, fmt.Sprintf("L%d", i))
    }
    labels = append(labels, "missing")

    /* generate every block */
    for i := 0; i < nl; i++ {
        if i != 0 || f.Bool() {
            fn.Instrs = append(fn.Instrs, ir.LabelOf(labels[i]))
        }

        /* block body */
        for n := f.IntRange(0, 5); n > 0; n-- {
            fn.Instrs = append(fn.Instrs, randomInstr(f))
        }

        /* block terminator */
        switch f.IntRange(0, 3) {
            case 0 : break
            case 1 : fn.Instrs = append(fn.Instrs, ir.Jump(f.RandomString(labels)))
            case 2 : fn.Instrs = append(fn.Instrs, parseInstr(fmt.Sprintf("br %s .%s .%s", f.RandomString(randomVars), f.RandomString(labels), f.RandomString(labels))))
            case 3 : fn.Instrs = append(fn.Instrs, parseInstr("ret"))
        }
    }
    return fn
}

func randomInstr(f *gofakeit.Faker) ir.Instr {
    x := f.RandomString(randomVars)
    y := f.RandomString(randomVars)
    d := f.RandomString(randomVars)

    /* pick an operation */
    switch op := f.RandomString(randomOps); op {
        case "const" : return parseInstr(fmt.Sprintf("%s: int = const %d", d, f.Number(-3, 3)))
        case "id"    : return parseInstr(fmt.Sprintf("%s: int = id %s", d, x))
        case "print" : return parseInstr(fmt.Sprintf("print %s", x))
        case "call"  : return parseInstr(fmt.Sprintf("%s: int = call @f %s", d, x))
        case "load"  : return parseInstr(fmt.Sprintf("%s: int = load %s", d, x))
        default      : return parseInstr(fmt.Sprintf("%s: int = %s %s %s", d, op, x, y))
    }
}
