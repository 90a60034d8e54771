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
    `testing`

    `github.com/stretchr/testify/require`
)

func loopWith(body ...string) []string {
    ret := []string {
        "y: int = const 7",
        "n: int = const 10",
        "i: int = const 0",
        "one: int = const 1",
        "jmp .header",
        ".header:",
        "c: bool = lt i n",
        "br c .body .exit",
        ".body:",
    }
    ret = append(ret, body...)
    return append(ret,
        "i: int = add i one",
        "jmp .header",
        ".exit:",
        "ret",
    )
}

func TestLICM_Hoist(t *testing.T) {
    fn := function("main", loopWith(
        "t: int = const 1",
        "x: int = mul t y",
        "print x",
    )...)
    LICM{}.Apply(fn)
    require.Equal(t, []string {
        "y: int = const 7",
        "n: int = const 10",
        "i: int = const 0",
        "one: int = const 1",
        "t: int = const 1",
        "x: int = mul t y",
        "jmp .header",
        ".header:",
        "c: bool = lt i n",
        "br c .body .exit",
        ".body:",
        "print x",
        "i: int = add i one",
        "jmp .header",
        ".exit:",
        "ret",
    }, lines(fn))
}

func TestLICM_FallthroughPreheader(t *testing.T) {
    fn := function("main",
        "y: int = const 7",
        ".header:",
        "x: int = add y y",
        "print x",
        "br c .header .exit",
        ".exit:",
        "ret",
    )
    LICM{}.Apply(fn)
    require.Equal(t, []string {
        "y: int = const 7",
        "x: int = add y y",
        ".header:",
        "print x",
        "br c .header .exit",
        ".exit:",
        "ret",
    }, lines(fn))
}

func TestLICM_NeverMoved(t *testing.T) {
    src := loopWith(
        "v: int = load y",
        "w: int = call @f y",
        "p: int = phi y n",
        "store y n",
        "print y",
        "q: ptr<int> = alloc n",
        "free q",
    )
    fn := function("main", src...)
    LICM{}.Apply(fn)
    require.Equal(t, src, lines(fn))
}

func TestLICM_Variant(t *testing.T) {
    src := loopWith(
        "a: int = add i y",
        "b: int = mul a n",
        "t: int = const 1",
        "t: int = const 2",
        "print b t",
    )
    fn := function("main", src...)
    LICM{}.Apply(fn)
    require.Equal(t, src, lines(fn))
}

func TestLICM_UseBeforeDef(t *testing.T) {
    src := loopWith(
        "print t",
        "t: int = const 1",
    )
    fn := function("main", src...)
    LICM{}.Apply(fn)
    require.Equal(t, src, lines(fn))
}

func TestLICM_ObservedAfterExit(t *testing.T) {
    src := []string {
        "x: int = const 0",
        "jmp .header",
        ".header:",
        "br c .body .exit",
        ".body:",
        "x: int = const 1",
        "jmp .header",
        ".exit:",
        "print x",
        "ret",
    }
    fn := function("main", src...)
    LICM{}.Apply(fn)
    require.Equal(t, src, lines(fn))
}

func TestLICM_NoPreheader(t *testing.T) {
    src := []string {
        "br c .a .b",
        ".a:",
        "jmp .h",
        ".b:",
        ".h:",
        "t: int = const 1",
        "print t",
        "br c .h .out",
        ".out:",
        "ret",
    }
    fn := function("main", src...)
    LICM{}.Apply(fn)
    require.Equal(t, src, lines(fn))
}

func TestLICM_Idempotent(t *testing.T) {
    fn := function("main", loopWith(
        "t: int = const 1",
        "x: int = mul t y",
        "z: int = add x i",
        "print x z",
    )...)
    LICM{}.Apply(fn)
    once := lines(fn)
    LICM{}.Apply(fn)
    require.Equal(t, once, lines(fn))
}
