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

package ir

import (
    `bytes`
    `errors`
    `strings`
    `testing`

    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

const sampleProgram = `{"functions":[{"name":"main","args":[{"name":"n","type":"int"}],"instrs":[` +
    `{"op":"const","dest":"a","type":"int","value":4},` +
    `{"label":"L"},` +
    `{"op":"br","args":["c"],"labels":["L","M"]},` +
    `{"op":"const","dest":"f","type":"float","value":1.5},` +
    `{"op":"alloc","dest":"p","type":{"ptr":"int"},"args":["a"]},` +
    `{"op":"call","dest":"r","type":"int","args":["a"],"funcs":["g"]},` +
    `{"op":"print","args":["a"],"pos":{"col":3,"row":1}}` +
    `],"extra":true}],"version":1}`

func TestCodec_Roundtrip(t *testing.T) {
    p, err := Unmarshal([]byte(sampleProgram))
    require.NoError(t, err)
    spew.Dump(p.Functions[0].Instrs[0])
    require.Len(t, p.Functions, 1)
    fn := p.Functions[0]
    assert.Equal(t, "main", fn.Name)
    require.Len(t, fn.Instrs, 7)
    assert.True(t, fn.Instrs[1].IsLabel())
    assert.Equal(t, []string { "L", "M" }, fn.Instrs[2].Labels)
    assert.Equal(t, LitRaw, fn.Instrs[3].Value.Kind)
    assert.Equal(t, `{"ptr":"int"}`, string(fn.Instrs[4].Type))
    assert.Equal(t, []string { "g" }, fn.Instrs[5].Funcs)
    assert.Contains(t, fn.Instrs[6].Extra, "pos")
    buf, err := Marshal(p)
    require.NoError(t, err)
    assert.Equal(t, sampleProgram, string(buf))
}

func TestCodec_Defaults(t *testing.T) {
    p, err := Unmarshal([]byte(`{"functions":[{"name":"f"},{"name":"g","instrs":[{"op":"ret","args":null,"dest":null}]}]}`))
    require.NoError(t, err)
    require.Len(t, p.Functions, 2)
    assert.Empty(t, p.Functions[0].Instrs)
    require.Len(t, p.Functions[1].Instrs, 1)
    assert.Nil(t, p.Functions[1].Instrs[0].Args)
    assert.Equal(t, "", p.Functions[1].Instrs[0].Dest)
    buf, err := Marshal(p)
    require.NoError(t, err)
    assert.Equal(t, `{"functions":[{"name":"f","instrs":[]},{"name":"g","instrs":[{"op":"ret"}]}]}`, string(buf))
}

func TestCodec_Literals(t *testing.T) {
    p, err := Unmarshal([]byte(`{"functions":[{"name":"f","instrs":[
        {"op":"const","dest":"a","type":"bool","value":true},
        {"op":"const","dest":"b","type":"int","value":-12},
        {"op":"const","dest":"c","type":"char","value":"x"},
        {"op":"const","dest":"d","type":"int","value":1e3}
    ]}]}`))
    require.NoError(t, err)
    ins := p.Functions[0].Instrs
    assert.Equal(t, BoolLit(true), ins[0].Value)
    assert.True(t, ins[0].Type.IsBool())
    assert.Equal(t, IntLit(-12), ins[1].Value)
    assert.Equal(t, LitRaw, ins[2].Value.Kind)
    assert.Equal(t, `"x"`, ins[2].Value.String())
    assert.Equal(t, LitRaw, ins[3].Value.Kind)
    v, ok := ins[0].Value.AsInt()
    assert.True(t, ok)
    assert.Equal(t, int64(1), v)
    _, ok = ins[2].Value.AsInt()
    assert.False(t, ok)
}

func TestCodec_FormatErrors(t *testing.T) {
    for _, tc := range []struct {
        src  string
        path string
    } {
        { src: `not json`                                                             , path: ""                          },
        { src: `null`                                                                 , path: ""                          },
        { src: `[]`                                                                   , path: ""                          },
        { src: `{}`                                                                   , path: ""                          },
        { src: `{"functions":1}`                                                      , path: "functions"                 },
        { src: `{"functions":null}`                                                   , path: "functions"                 },
        { src: `{"functions":[1]}`                                                    , path: "functions[0]"              },
        { src: `{"functions":[{}]}`                                                   , path: "functions[0]"              },
        { src: `{"functions":[{"name":1}]}`                                           , path: "functions[0].name"         },
        { src: `{"functions":[{"name":"f","instrs":{}}]}`                             , path: "functions[0].instrs"       },
        { src: `{"functions":[{"name":"f","instrs":[1]}]}`                            , path: "functions[0].instrs[0]"    },
    } {
        var fe *FormatError
        _, err := Decode(strings.NewReader(tc.src))
        require.Error(t, err, tc.src)
        require.True(t, errors.As(err, &fe), tc.src)
        assert.Equal(t, tc.path, fe.Path, tc.src)
        t.Log(err)
    }
}

func TestCodec_Indent(t *testing.T) {
    var buf bytes.Buffer
    p, err := Unmarshal([]byte(`{"functions":[{"name":"f","instrs":[{"op":"ret"}]}]}`))
    require.NoError(t, err)
    require.NoError(t, Encode(&buf, p, true))
    assert.Equal(t, "{\n  \"functions\": [\n    {\n      \"name\": \"f\",\n      \"instrs\": [\n        {\n          \"op\": \"ret\"\n        }\n      ]\n    }\n  ]\n}\n", buf.String())
}

func TestFunction_String(t *testing.T) {
    fn := &Function {
        Name   : "main",
        Instrs : []Instr {
            Const("a", TypeOf("int"), IntLit(1)),
            LabelOf("L"),
            Copy("b", TypeOf("int"), "a"),
            Jump("L"),
        },
    }
    assert.Equal(t, "@main {\n    a: int = const 1;\n.L:\n    b: int = id a;\n    jmp .L;\n}", fn.String())
    dup := fn.Clone()
    dup.Instrs[2].Args[0] = "z"
    assert.Equal(t, "a", fn.Instrs[2].Args[0])
}

func TestInstr_Classes(t *testing.T) {
    lb := LabelOf("L")
    assert.True(t, lb.IsLabel())
    assert.False(t, lb.HasDest())
    assert.False(t, lb.IsTerminator())
    for _, op := range []string { OpJmp, OpBr, OpRet } {
        p := Instr { Op: op }
        assert.True(t, p.IsTerminator(), op)
    }
    for _, op := range []string { OpCall, OpStore, OpPrint, OpAlloc, OpFree } {
        p := Instr { Op: op }
        assert.True(t, p.IsEffectful(), op)
    }
    p := Instr { Op: OpAdd, Dest: "x" }
    assert.True(t, p.HasDest())
    assert.False(t, p.IsEffectful())
}

func TestCodec_Opaque(t *testing.T) {
    src := `{"functions":[` +
        `{"name":"main","instrs":[{"op":"const","dest":"a","type":"int","value":1},{"op":"print","args":["a"]}]},` +
        `{"name":"g","instrs":[` +
        `{"op":"nop","args":[true],"pos":{"row":3}},` +
        `{"op":"add","dest":7,"type":"int","args":["a","b"]},` +
        `{"label":"L"}` +
        `]}]}`
    p, err := Unmarshal([]byte(src))
    require.NoError(t, err)
    require.Len(t, p.Functions, 2)
    assert.Len(t, p.Functions[0].Instrs, 2)

    /* malformed instructions carry nothing but their source */
    ins := p.Functions[1].Instrs
    require.Len(t, ins, 3)
    for _, i := range []int { 0, 1 } {
        assert.True(t, ins[i].IsOpaque())
        assert.False(t, ins[i].IsLabel())
        assert.False(t, ins[i].HasDest())
        assert.False(t, ins[i].IsTerminator())
        assert.True(t, ins[i].IsEffectful())
    }
    assert.Equal(t, `{"op":"nop","args":[true],"pos":{"row":3}}`, ins[0].String())
    assert.False(t, ins[2].IsOpaque())

    /* and are written back verbatim */
    buf, err := Marshal(p)
    require.NoError(t, err)
    assert.Equal(t, src, string(buf))
    dup := p.Functions[1].Clone()
    assert.Equal(t, ins[0].Raw, dup.Instrs[0].Raw)
}
