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
    `fmt`
    `io`
    `sort`
)

type _Object map[string]json.RawMessage

// Decode reads a JSON encoded program from r.
func Decode(r io.Reader) (*Program, error) {
    if buf, err := io.ReadAll(r); err != nil {
        return nil, err
    } else {
        return Unmarshal(buf)
    }
}

// Unmarshal decodes a JSON encoded program. Structural problems are reported
// as *FormatError, unrecognized fields are preserved but otherwise ignored.
// An instruction object with fields of unexpected types is kept verbatim as
// an opaque instruction.
func Unmarshal(buf []byte) (*Program, error) {
    var err error
    var obj _Object
    var fns []json.RawMessage

    /* must be a valid JSON document */
    if !json.Valid(buf) {
        return nil, eformat("", "invalid JSON document")
    }

    /* the top level must be an object */
    if obj, err = decodeObject(buf, ""); err != nil {
        return nil, err
    }

    /* the function list is mandatory */
    if raw, ok := obj["functions"]; !ok {
        return nil, emissing("", "functions")
    } else if json.Unmarshal(raw, &fns) != nil || fns == nil {
        return nil, ebadtype("functions", "an array of functions")
    }

    /* decode every function */
    ret := &Program { Functions: make([]*Function, 0, len(fns)) }
    delete(obj, "functions")

    /* decode every function */
    for i, raw := range fns {
        if fn, err := decodeFunction(raw, fmt.Sprintf("functions[%d]", i)); err != nil {
            return nil, err
        } else {
            ret.Functions = append(ret.Functions, fn)
        }
    }

    /* keep the remaining fields */
    if len(obj) != 0 {
        ret.Extra = obj
    }
    return ret, nil
}

func decodeObject(raw json.RawMessage, path string) (_Object, error) {
    var obj _Object
    if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
        return nil, ebadtype(path, "an object")
    } else {
        return obj, nil
    }
}

func decodeField(obj _Object, key string, path string, want string, out interface{}) (bool, error) {
    raw, ok := obj[key]
    delete(obj, key)

    /* absent or null fields are treated as absent */
    if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
        return false, nil
    }

    /* decode the field */
    if err := json.Unmarshal(raw, out); err != nil {
        return false, ebadtype(path + "." + key, want)
    } else {
        return true, nil
    }
}

func decodeFunction(raw json.RawMessage, path string) (*Function, error) {
    var ok bool
    var err error
    var obj _Object
    var ins []json.RawMessage

    /* every function is an object */
    if obj, err = decodeObject(raw, path); err != nil {
        return nil, err
    }

    /* function name is mandatory */
    fn := new(Function)
    if ok, err = decodeField(obj, "name", path, "a string", &fn.Name); err != nil {
        return nil, err
    } else if !ok {
        return nil, emissing(path, "name")
    }

    /* formal arguments and return type */
    if _, err = decodeField(obj, "args", path, "an array of arguments", &fn.Args); err != nil {
        return nil, err
    } else if _, err = decodeField(obj, "type", path, "a type", &fn.Type); err != nil {
        return nil, err
    } else if _, err = decodeField(obj, "instrs", path, "an array of instructions", &ins); err != nil {
        return nil, err
    }

    /* decode every instruction */
    fn.Instrs = make([]Instr, 0, len(ins))
    for i, v := range ins {
        if p, err := decodeInstr(v, fmt.Sprintf("%s.instrs[%d]", path, i)); err != nil {
            return nil, err
        } else {
            fn.Instrs = append(fn.Instrs, p)
        }
    }

    /* keep the remaining fields */
    if len(obj) != 0 {
        fn.Extra = obj
    }
    return fn, nil
}

func decodeInstr(raw json.RawMessage, path string) (Instr, error) {
    var err error
    var ret Instr
    var obj _Object
    var buf bytes.Buffer

    /* every instruction is an object */
    if obj, err = decodeObject(raw, path); err != nil {
        return ret, err
    }

    /* well-formed instructions */
    if ret, err = decodeFields(obj, path); err == nil {
        return ret, nil
    }

    /* the rest are kept as-is, raw is known to be valid at this point */
    _ = json.Compact(&buf, raw)
    return Instr { Raw: buf.Bytes() }, nil
}

func decodeFields(obj _Object, path string) (Instr, error) {
    var err error
    var ret Instr
    var lit Literal

    /* string fields */
    if _, err = decodeField(obj, "label", path, "a string", &ret.Label); err != nil {
        return ret, err
    } else if _, err = decodeField(obj, "op", path, "a string", &ret.Op); err != nil {
        return ret, err
    } else if _, err = decodeField(obj, "dest", path, "a string", &ret.Dest); err != nil {
        return ret, err
    }

    /* list fields */
    if _, err = decodeField(obj, "args", path, "an array of strings", &ret.Args); err != nil {
        return ret, err
    } else if _, err = decodeField(obj, "funcs", path, "an array of strings", &ret.Funcs); err != nil {
        return ret, err
    } else if _, err = decodeField(obj, "labels", path, "an array of strings", &ret.Labels); err != nil {
        return ret, err
    }

    /* type and literal value */
    if _, err = decodeField(obj, "type", path, "a type", &ret.Type); err != nil {
        return ret, err
    } else if ok, err := decodeField(obj, "value", path, "a literal", &lit); err != nil {
        return ret, err
    } else if ok {
        ret.Value = &lit
    }

    /* keep the remaining fields */
    if len(obj) != 0 {
        ret.Extra = obj
    }
    return ret, nil
}

// Encode writes the JSON encoding of p to w.
func Encode(w io.Writer, p *Program, indent bool) error {
    var err error
    var buf []byte
    var out bytes.Buffer

    /* marshal the program */
    if buf, err = Marshal(p); err != nil {
        return err
    }

    /* indent if needed */
    if !indent {
        out.Write(buf)
    } else if err = json.Indent(&out, buf, "", "  "); err != nil {
        return err
    }

    /* add the trailing new line */
    out.WriteByte('\n')
    _, err = w.Write(out.Bytes())
    return err
}

// Marshal returns the compact JSON encoding of p.
func Marshal(p *Program) ([]byte, error) {
    var err error
    var enc _Encoder

    /* encode every function */
    enc.open()
    enc.key("functions")
    enc.buf.WriteByte('[')

    /* encode every function */
    for i, fn := range p.Functions {
        if i != 0 {
            enc.buf.WriteByte(',')
        }
        if err = enc.function(fn); err != nil {
            return nil, err
        }
    }

    /* encode the remaining fields */
    enc.buf.WriteByte(']')
    enc.extra(p.Extra)
    enc.close()
    return enc.buf.Bytes(), enc.err
}

type _Encoder struct {
    buf   bytes.Buffer
    err   error
    first bool
}

func (self *_Encoder) open() {
    self.first = true
    self.buf.WriteByte('{')
}

func (self *_Encoder) close() {
    self.first = false
    self.buf.WriteByte('}')
}

func (self *_Encoder) key(name string) {
    if !self.first {
        self.buf.WriteByte(',')
    }

    /* write the key */
    self.first = false
    self.value(name)
    self.buf.WriteByte(':')
}

func (self *_Encoder) value(v interface{}) {
    if buf, err := json.Marshal(v); err != nil {
        self.err = err
    } else {
        self.buf.Write(buf)
    }
}

func (self *_Encoder) field(name string, v interface{}) {
    self.key(name)
    self.value(v)
}

func (self *_Encoder) extra(obj map[string]json.RawMessage) {
    keys := make([]string, 0, len(obj))
    for k := range obj {
        keys = append(keys, k)
    }

    /* sort the keys to make the output stable */
    sort.Strings(keys)
    for _, k := range keys {
        self.key(k)
        self.buf.Write(obj[k])
    }
}

func (self *_Encoder) function(fn *Function) error {
    self.open()
    self.field("name", fn.Name)

    /* formal arguments and return type */
    if len(fn.Args) != 0 {
        self.field("args", fn.Args)
    }
    if len(fn.Type) != 0 {
        self.field("type", fn.Type)
    }

    /* encode every instruction */
    self.key("instrs")
    self.buf.WriteByte('[')

    /* encode every instruction */
    for i := range fn.Instrs {
        if i != 0 {
            self.buf.WriteByte(',')
        }
        self.instr(&fn.Instrs[i])
    }

    /* encode the remaining fields */
    self.buf.WriteByte(']')
    self.extra(fn.Extra)
    self.close()
    return self.err
}

func (self *_Encoder) instr(p *Instr) {
    if p.IsOpaque() {
        self.first = false
        self.buf.Write(p.Raw)
        return
    }

    /* regular instructions */
    self.open()

    /* label markers */
    if p.Label != "" { self.field("label", p.Label) }
    if p.Op    != "" { self.field("op", p.Op) }
    if p.Dest  != "" { self.field("dest", p.Dest) }

    /* operation fields */
    if len(p.Type)   != 0 { self.field("type", p.Type) }
    if p.Args        != nil { self.field("args", p.Args) }
    if p.Funcs       != nil { self.field("funcs", p.Funcs) }
    if p.Labels      != nil { self.field("labels", p.Labels) }
    if p.Value       != nil { self.field("value", p.Value) }

    /* unrecognized fields */
    self.extra(p.Extra)
    self.close()
}
