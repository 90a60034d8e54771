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
    `github.com/cloudwego/tacopt/ir`
    `github.com/oleiade/lane`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/traverse`
)

// BasicBlock is a maximal instruction run starting at a label (or at the
// function start) and ending at a control transfer or before the next label.
//
// Synthetic blocks stand in for jump targets that name a label without any
// block, they have no instructions and no successors.
type BasicBlock struct {
    Id        int
    Label     string
    Ins       []ir.Instr
    Pred      []int
    Succ      []int
    Synthetic bool
}

func (self *BasicBlock) terminator() *ir.Instr {
    if n := len(self.Ins); n == 0 {
        return nil
    } else if p := &self.Ins[n - 1]; !p.IsTerminator() {
        return nil
    } else {
        return p
    }
}

// CFG is an arena of basic blocks addressed by dense integer IDs.
type CFG struct {
    Name   string
    Entry  int
    Blocks []*BasicBlock
    labels map[string]int
}

// BuildCFG partitions the instruction list of fn into basic blocks and links
// them with predecessor and successor edges. The instructions are shared with
// fn, passes must replace instructions rather than modifying them in place.
func BuildCFG(fn *ir.Function) *CFG {
    var cur *BasicBlock
    cfg := &CFG { Name: fn.Name, labels: make(map[string]int) }

    /* block flusher */
    flush := func() {
        if cur != nil {
            cfg.Blocks = append(cfg.Blocks, cur)
            cur = nil
        }
    }

    /* block allocator */
    alloc := func(label string) *BasicBlock {
        id := len(cfg.Blocks)
        bb := &BasicBlock { Id: id, Label: label }

        /* the first definition of a label wins */
        if _, ok := cfg.labels[label]; label != "" && !ok {
            cfg.labels[label] = id
        }
        return bb
    }

    /* split the instruction list */
    for _, ins := range fn.Instrs {
        if ins.IsLabel() {
            flush()
            cur = alloc(ins.Label)
            cur.Ins = append(cur.Ins, ins)
        } else {
            if cur == nil {
                cur = alloc("")
            }
            if cur.Ins = append(cur.Ins, ins); ins.IsTerminator() {
                flush()
            }
        }
    }

    /* link every block, this might create synthetic blocks */
    flush()
    cfg.link()

    /* the entry block is the one labeled with the function name */
    if id, ok := cfg.labels[fn.Name]; ok && !cfg.Blocks[id].Synthetic {
        cfg.Entry = id
    }
    return cfg
}

func (self *CFG) link() {
    nb := len(self.Blocks)
    for i := 0; i < nb; i++ {
        bb := self.Blocks[i]
        tr := bb.terminator()

        /* fall-through to the next block */
        if tr == nil {
            if i + 1 < nb {
                self.addEdge(i, i + 1)
            }
            continue
        }

        /* jump to every target */
        if tr.Op != ir.OpRet {
            for _, lb := range tr.Labels {
                self.addEdge(i, self.target(lb))
            }
        }
    }
}

func (self *CFG) target(label string) int {
    if id, ok := self.labels[label]; ok {
        return id
    }

    /* materialize an empty block for the missing label */
    id := len(self.Blocks)
    self.labels[label] = id
    self.Blocks = append(self.Blocks, &BasicBlock { Id: id, Label: label, Synthetic: true })
    return id
}

func (self *CFG) addEdge(from int, to int) {
    for _, v := range self.Blocks[from].Succ {
        if v == to {
            return
        }
    }

    /* add both directions */
    self.Blocks[from].Succ = append(self.Blocks[from].Succ, to)
    self.Blocks[to].Pred = append(self.Blocks[to].Pred, from)
}

// Lookup finds the block that starts with label.
func (self *CFG) Lookup(label string) (*BasicBlock, bool) {
    if id, ok := self.labels[label]; !ok {
        return nil, false
    } else {
        return self.Blocks[id], true
    }
}

// Instrs concatenates the instructions of every block in ID order.
func (self *CFG) Instrs() []ir.Instr {
    var nb int
    for _, bb := range self.Blocks {
        nb += len(bb.Ins)
    }

    /* concatenate every block */
    ret := make([]ir.Instr, 0, nb)
    for _, bb := range self.Blocks {
        ret = append(ret, bb.Ins...)
    }
    return ret
}

// PostOrder returns the IDs of blocks reachable from the entry in post order.
func (self *CFG) PostOrder() []int {
    if len(self.Blocks) == 0 {
        return nil
    }

    /* depth-first search with an explicit stack */
    st := lane.NewStack()
    ret := make([]int, 0, len(self.Blocks))
    vis := make([]bool, len(self.Blocks))

    /* start from the entry */
    st.Push(self.Entry)
    vis[self.Entry] = true

    /* scan until the stack is empty */
    for !st.Empty() {
        tail := true
        this := self.Blocks[st.Head().(int)]

        /* descend into the first unvisited successor */
        for _, s := range this.Succ {
            if !vis[s] {
                tail = false
                vis[s] = true
                st.Push(s)
                break
            }
        }

        /* all the successors are visited, pop the current node */
        if tail {
            ret = append(ret, st.Pop().(int))
        }
    }
    return ret
}

// ReversePostOrder returns the IDs of blocks reachable from the entry in
// reverse post order.
func (self *CFG) ReversePostOrder() []int {
    ret := self.PostOrder()
    for i, j := 0, len(ret) - 1; i < j; i, j = i + 1, j - 1 {
        ret[i], ret[j] = ret[j], ret[i]
    }
    return ret
}

// Graph exports the CFG as a gonum directed graph. Node IDs are block IDs,
// self edges are omitted since they never affect reachability or dominance.
func (self *CFG) Graph() *simple.DirectedGraph {
    g := simple.NewDirectedGraph()
    for _, bb := range self.Blocks {
        g.AddNode(simple.Node(bb.Id))
    }

    /* add every edge */
    for _, bb := range self.Blocks {
        for _, s := range bb.Succ {
            if s != bb.Id {
                g.SetEdge(g.NewEdge(simple.Node(bb.Id), simple.Node(s)))
            }
        }
    }
    return g
}

// Reachable returns the set of blocks reachable from the entry.
func (self *CFG) Reachable() BlockSet {
    rs := make(BlockSet, len(self.Blocks))
    if len(self.Blocks) == 0 {
        return rs
    }

    /* breadth-first walk from the entry */
    g := self.Graph()
    bf := traverse.BreadthFirst {
        Visit: func(n graph.Node) { rs.add(int(n.ID())) },
    }

    /* walk the entire graph */
    bf.Walk(g, g.Node(int64(self.Entry)), nil)
    return rs
}
