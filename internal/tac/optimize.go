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
    `github.com/bytedance/gopkg/util/xxhash3`
    `github.com/cloudwego/tacopt/ir`
)

// Pass is a function-local transformation. Every pass rebuilds whatever
// analysis it needs from the instruction list, and records what it changed
// in tally.
type Pass interface {
    Run(fn *ir.Function, tally *Tally)
}

// apply runs p on fn and publishes the changes right away.
func apply(p Pass, fn *ir.Function) {
    var tally Tally
    p.Run(fn, &tally)
    tally.Commit()
}

type PassDescriptor struct {
    Name string
    Desc string
    Pass Pass
}

var Passes = [...]PassDescriptor {
    { Name: "lvn"      , Desc: "Local Value Numbering"                   , Pass: new(LVN)       },
    { Name: "dce"      , Desc: "Dead Code Elimination"                   , Pass: new(DCE)       },
    { Name: "dce-once" , Desc: "Single Sweep Dead Code Elimination"      , Pass: new(DCEOnce)   },
    { Name: "dce-live" , Desc: "Liveness Based Dead Code Elimination"    , Pass: new(LiveDCE)   },
    { Name: "ccp"      , Desc: "Constant Propagation & Branch Folding"   , Pass: new(ConstProp) },
    { Name: "licm"     , Desc: "Loop Invariant Code Motion"              , Pass: new(LICM)      },
}

// DefaultPipeline is the pass order used when no passes are configured.
var DefaultPipeline = []string {
    "lvn",
    "ccp",
    "licm",
    "dce",
}

// Lookup finds a registered pass by name.
func Lookup(name string) (*PassDescriptor, bool) {
    for i := range Passes {
        if Passes[i].Name == name {
            return &Passes[i], true
        }
    }
    return nil, false
}

// Fingerprint hashes the textual form of fn, two functions with the same
// fingerprint are considered identical when deciding whether a round changed
// anything.
func Fingerprint(fn *ir.Function) uint64 {
    return xxhash3.HashString(fn.String())
}
