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
    `encoding/json`
    `strings`
)

const (
    OpConst = "const"
    OpId    = "id"
    OpAdd   = "add"
    OpMul   = "mul"
    OpSub   = "sub"
    OpDiv   = "div"
    OpEq    = "eq"
    OpLt    = "lt"
    OpGt    = "gt"
    OpLe    = "le"
    OpGe    = "ge"
    OpNe    = "ne"
    OpLoad  = "load"
    OpStore = "store"
    OpCall  = "call"
    OpPrint = "print"
    OpAlloc = "alloc"
    OpFree  = "free"
    OpJmp   = "jmp"
    OpBr    = "br"
    OpRet   = "ret"
    OpPhi   = "phi"
)

// Type is the opaque JSON encoding of an instruction or argument type,
// such as `"int"`, `"bool"` or `{"ptr":"int"}`. An empty Type means absent.
type Type json.RawMessage

// TypeOf returns the Type for a primitive type name.
func TypeOf(name string) Type {
    buf, _ := json.Marshal(name)
    return Type(buf)
}

func (self Type) IsBool() bool {
    return string(self) == `"bool"`
}

func (self Type) MarshalJSON() ([]byte, error) {
    if len(self) == 0 {
        return []byte("null"), nil
    } else {
        return self, nil
    }
}

func (self *Type) UnmarshalJSON(buf []byte) error {
    out := new(bytes.Buffer)
    if err := json.Compact(out, buf); err != nil {
        return err
    } else if out.String() == "null" {
        *self = nil
        return nil
    } else {
        *self = out.Bytes()
        return nil
    }
}

func (self Type) String() string {
    var s string
    if len(self) == 0 {
        return ""
    } else if json.Unmarshal(self, &s) == nil {
        return s
    } else {
        return string(self)
    }
}

// Instr is a single instruction: either a label marker or an operation.
//
// Instructions whose fields do not fit this model are kept verbatim in Raw,
// with every other field left empty. They are opaque to every pass.
type Instr struct {
    Label  string
    Op     string
    Dest   string
    Type   Type
    Args   []string
    Funcs  []string
    Labels []string
    Value  *Literal
    Extra  map[string]json.RawMessage
    Raw    json.RawMessage
}

// IsOpaque reports whether the instruction is kept verbatim.
func (self *Instr) IsOpaque() bool {
    return self.Raw != nil
}

// IsLabel reports whether the instruction is a label marker.
func (self *Instr) IsLabel() bool {
    return self.Op == "" && self.Label != ""
}

func (self *Instr) HasDest() bool {
    return !self.IsLabel() && self.Dest != ""
}

// IsTerminator reports whether the instruction transfers control.
func (self *Instr) IsTerminator() bool {
    switch self.Op {
        case OpJmp, OpBr, OpRet : return true
        default                 : return false
    }
}

// IsEffectful reports whether the instruction has side effects that
// prevent it from being removed even when its result is unused.
func (self *Instr) IsEffectful() bool {
    if self.IsOpaque() {
        return true
    }

    /* check by opcode */
    switch self.Op {
        case OpCall, OpStore, OpPrint, OpAlloc, OpFree : return true
        default                                       : return false
    }
}

// Clone returns a deep copy of the instruction.
func (self *Instr) Clone() Instr {
    ret := *self
    ret.Type = append(Type(nil), self.Type...)
    ret.Args = clonestrs(self.Args)
    ret.Funcs = clonestrs(self.Funcs)
    ret.Labels = clonestrs(self.Labels)
    ret.Raw = append(json.RawMessage(nil), self.Raw...)

    /* copy the literal if any */
    if self.Value != nil {
        lit := *self.Value
        ret.Value = &lit
    }

    /* copy the unrecognized fields */
    if self.Extra != nil {
        ret.Extra = make(map[string]json.RawMessage, len(self.Extra))
        for k, v := range self.Extra { ret.Extra[k] = v }
    }
    return ret
}

func (self *Instr) String() string {
    var sb strings.Builder

    /* label markers and opaque instructions */
    if self.IsLabel() {
        return "." + self.Label + ":"
    } else if self.IsOpaque() {
        return string(self.Raw)
    }

    /* destination and type */
    if self.Dest != "" {
        sb.WriteString(self.Dest)
        if len(self.Type) != 0 {
            sb.WriteString(": ")
            sb.WriteString(self.Type.String())
        }
        sb.WriteString(" = ")
    }

    /* operator and the literal value */
    sb.WriteString(self.Op)
    if self.Value != nil {
        sb.WriteByte(' ')
        sb.WriteString(self.Value.String())
    }

    /* callees, arguments and jump targets */
    for _, f := range self.Funcs  { sb.WriteString(" @" + f) }
    for _, a := range self.Args   { sb.WriteString(" " + a) }
    for _, l := range self.Labels { sb.WriteString(" ." + l) }
    return sb.String()
}

// Const creates a `dest: typ = const val` instruction.
func Const(dest string, typ Type, val *Literal) Instr {
    return Instr {
        Op    : OpConst,
        Dest  : dest,
        Type  : typ,
        Value : val,
    }
}

// Copy creates a `dest: typ = id src` instruction.
func Copy(dest string, typ Type, src string) Instr {
    return Instr {
        Op   : OpId,
        Dest : dest,
        Type : typ,
        Args : []string { src },
    }
}

// Jump creates an unconditional `jmp .target` instruction.
func Jump(target string) Instr {
    return Instr {
        Op     : OpJmp,
        Labels : []string { target },
    }
}

// LabelOf creates a label marker.
func LabelOf(name string) Instr {
    return Instr { Label: name }
}

func clonestrs(v []string) []string {
    if v == nil {
        return nil
    } else {
        return append(make([]string, 0, len(v)), v...)
    }
}
