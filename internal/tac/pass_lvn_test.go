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

func TestLVN_Commutative(t *testing.T) {
    fn := function("main",
        "x: int = add a b",
        "y: int = add b a",
        "z: int = sub b a",
        "w: int = sub a b",
        "print y",
    )
    LVN{}.Apply(fn)
    require.Equal(t, []string {
        "x: int = add a b",
        "y: int = id x",
        "z: int = sub b a",
        "w: int = sub a b",
        "print y",
    }, lines(fn))
}

func TestLVN_Constants(t *testing.T) {
    fn := function("main",
        "a: int = const 1",
        "b: int = const 1",
        "c: bool = const true",
        "d: int = const 2",
        "e: bool = const true",
    )
    LVN{}.Apply(fn)
    require.Equal(t, []string {
        "a: int = const 1",
        "b: int = id a",
        "c: bool = const true",
        "d: int = const 2",
        "e: bool = id c",
    }, lines(fn))
}

func TestLVN_HolderReassigned(t *testing.T) {
    fn := function("main",
        "x: int = add a b",
        "x: int = const 5",
        "y: int = add a b",
        "z: int = add a b",
    )
    LVN{}.Apply(fn)
    require.Equal(t, []string {
        "x: int = add a b",
        "x: int = const 5",
        "y: int = add a b",
        "z: int = id y",
    }, lines(fn))
}

func TestLVN_OperandReassigned(t *testing.T) {
    fn := function("main",
        "x: int = add a b",
        "a: int = const 1",
        "y: int = add a b",
    )
    LVN{}.Apply(fn)
    require.Equal(t, []string {
        "x: int = add a b",
        "a: int = const 1",
        "y: int = add a b",
    }, lines(fn))
}

func TestLVN_SelfRecompute(t *testing.T) {
    fn := function("main",
        "x: int = add a b",
        "x: int = add a b",
    )
    LVN{}.Apply(fn)
    require.Equal(t, []string {
        "x: int = add a b",
        "x: int = add a b",
    }, lines(fn))
}

func TestLVN_CopiesShareNumbers(t *testing.T) {
    fn := function("main",
        "b: int = id a",
        "c: int = add a z",
        "d: int = add b z",
    )
    LVN{}.Apply(fn)
    require.Equal(t, []string {
        "b: int = id a",
        "c: int = add a z",
        "d: int = id c",
    }, lines(fn))
}

func TestLVN_Opaque(t *testing.T) {
    src := []string {
        "p: int = load q",
        "r: int = load q",
        "s: int = call @f q",
        "t: int = call @f q",
        "u: ptr<int> = alloc n",
        "v: ptr<int> = alloc n",
        "store q s",
        "store q s",
    }
    fn := function("main", src...)
    LVN{}.Apply(fn)
    require.Equal(t, src, lines(fn))
}

func TestLVN_BlockLocal(t *testing.T) {
    src := []string {
        "x: int = add a b",
        ".next:",
        "y: int = add a b",
        "jmp .next",
    }
    fn := function("main", src...)
    LVN{}.Apply(fn)
    require.Equal(t, src, lines(fn))
}

func TestLVN_DistinctOpsAndTypes(t *testing.T) {
    src := []string {
        "x: int = add a b",
        "y: int = mul a b",
        "c: bool = eq a b",
        "d: int = eq a b",
    }
    fn := function("main", src...)
    LVN{}.Apply(fn)
    require.Equal(t, src, lines(fn))
}

func TestLVN_Idempotent(t *testing.T) {
    fn := function("main",
        "b: int = id a",
        "c: int = add a z",
        "d: int = add b z",
        "c: int = const 1",
        "e: int = add z b",
        "f: int = add a z",
        "print d e f",
    )
    LVN{}.Apply(fn)
    once := lines(fn)
    LVN{}.Apply(fn)
    require.Equal(t, once, lines(fn))
}
