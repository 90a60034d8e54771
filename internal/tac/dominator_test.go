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

    `github.com/brianvoe/gofakeit/v6`
    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
    `gonum.org/v1/gonum/graph/flow`
)

func TestDominator_Diamond(t *testing.T) {
    fn := function("main",
        "br c .a .b",
        ".a:",
        "jmp .j",
        ".b:",
        "jmp .j",
        ".j:",
        "ret",
        ".dead:",
        "ret",
    )
    cfg := BuildCFG(fn)
    dom := Dominators(cfg)
    require.Len(t, dom, 5)
    assert.Equal(t, []int { 0 }, dom[0].Slice())
    assert.Equal(t, []int { 0, 1 }, dom[1].Slice())
    assert.Equal(t, []int { 0, 2 }, dom[2].Slice())
    assert.Equal(t, []int { 0, 3 }, dom[3].Slice())
    assert.Equal(t, []int { 0, 1, 2, 3, 4 }, dom[4].Slice())
    assert.True(t, dom.Dominates(0, 3))
    assert.False(t, dom.Dominates(1, 3))
}

func TestDominator_Properties(t *testing.T) {
    f := gofakeit.New(1234)
    for i := 0; i < 200; i++ {
        fn := randomFunction(f, "main")
        cfg := BuildCFG(fn)
        if len(cfg.Blocks) == 0 {
            continue
        }

        /* reflexivity */
        dom := Dominators(cfg)
        require.Equal(t, []int { cfg.Entry }, dom[cfg.Entry].Slice())
        for id := range cfg.Blocks {
            require.True(t, dom.Dominates(id, id))
        }

        /* the iterative solution must match Lengauer-Tarjan on reachable blocks */
        g := cfg.Graph()
        lt := flow.Dominators(g.Node(int64(cfg.Entry)), g)
        for _, id := range cfg.Reachable().Slice() {
            want := newBlockSet(id)
            for p := lt.DominatorOf(int64(id)); p != nil; p = lt.DominatorOf(p.ID()) {
                want.add(int(p.ID()))
            }
            if !assert.Equal(t, want.Slice(), dom[id].Slice(), "bb_%d", id) {
                spew.Dump(lines(fn))
                return
            }
        }
    }
}
