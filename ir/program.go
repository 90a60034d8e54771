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

// Package ir defines the three-address instruction representation consumed
// and produced by every optimization pass, together with its JSON encoding.
package ir

import (
    `encoding/json`
    `strings`
)

// Program is an ordered list of functions.
type Program struct {
    Functions []*Function
    Extra     map[string]json.RawMessage
}

// Argument is a formal parameter of a function.
type Argument struct {
    Name string `json:"name"`
    Type Type   `json:"type,omitempty"`
}

// Function is a named, flat instruction list.
type Function struct {
    Name   string
    Args   []Argument
    Type   Type
    Instrs []Instr
    Extra  map[string]json.RawMessage
}

// Clone returns a deep copy of the function.
func (self *Function) Clone() *Function {
    ret := *self
    ret.Args = append([]Argument(nil), self.Args...)
    ret.Instrs = make([]Instr, len(self.Instrs))

    /* copy every instruction */
    for i := range self.Instrs {
        ret.Instrs[i] = self.Instrs[i].Clone()
    }
    return &ret
}

// Lookup finds a function by name.
func (self *Program) Lookup(name string) *Function {
    for _, fn := range self.Functions {
        if fn.Name == name {
            return fn
        }
    }
    return nil
}

func (self *Function) String() string {
    buf := make([]string, 0, len(self.Instrs) + 2)
    buf = append(buf, "@" + self.Name + " {")

    /* labels are not indented */
    for i := range self.Instrs {
        if p := &self.Instrs[i]; p.IsLabel() {
            buf = append(buf, p.String())
        } else {
            buf = append(buf, "    " + p.String() + ";")
        }
    }

    /* join them together */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}
