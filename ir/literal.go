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
    `strconv`
)

type LitKind uint8

const (
    LitInt LitKind = iota
    LitBool
    LitRaw
)

// Literal is the value carried by a `const` instruction. Integers and
// booleans are decoded, anything else (floats, chars, ...) is kept verbatim.
type Literal struct {
    Kind LitKind
    Int  int64
    Raw  json.RawMessage
}

func IntLit(v int64) *Literal {
    return &Literal { Kind: LitInt, Int: v }
}

func BoolLit(v bool) *Literal {
    if v {
        return &Literal { Kind: LitBool, Int: 1 }
    } else {
        return &Literal { Kind: LitBool, Int: 0 }
    }
}

// AsInt returns the literal as an integer, booleans map to 0 and 1.
func (self *Literal) AsInt() (int64, bool) {
    if self == nil || self.Kind == LitRaw {
        return 0, false
    } else {
        return self.Int, true
    }
}

func (self *Literal) Equal(other *Literal) bool {
    if self == nil || other == nil {
        return self == other
    } else if self.Kind != other.Kind {
        return false
    } else if self.Kind == LitRaw {
        return bytes.Equal(self.Raw, other.Raw)
    } else {
        return self.Int == other.Int
    }
}

func (self *Literal) String() string {
    switch self.Kind {
        case LitInt  : return strconv.FormatInt(self.Int, 10)
        case LitBool : return strconv.FormatBool(self.Int != 0)
        default      : return string(self.Raw)
    }
}

func (self *Literal) MarshalJSON() ([]byte, error) {
    if self.Kind == LitRaw {
        return self.Raw, nil
    } else {
        return []byte(self.String()), nil
    }
}

func (self *Literal) UnmarshalJSON(buf []byte) error {
    var err error
    var val int64
    var src []byte

    /* compact the source, and check for validity */
    out := new(bytes.Buffer)
    if err = json.Compact(out, buf); err != nil {
        return err
    }

    /* booleans and integers are decoded, the rest are kept as-is */
    switch src = out.Bytes(); string(src) {
        case "true"  : *self = *BoolLit(true)
        case "false" : *self = *BoolLit(false)
        default      : {
            if val, err = strconv.ParseInt(string(src), 10, 64); err == nil {
                *self = *IntLit(val)
            } else {
                *self = Literal { Kind: LitRaw, Raw: append(json.RawMessage(nil), src...) }
            }
        }
    }
    return nil
}
