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
    `fmt`
    `html`
    `strconv`
    `strings`

    `github.com/cloudwego/tacopt/ir`
    `github.com/oleiade/lane`
)

func dumpbb(bb *BasicBlock, dom DomSets) string {
    var w int
    var ins []string
    var pred []string

    /* block instructions */
    for _, v := range bb.Ins {
        ss := v.String()
        vv := strings.ReplaceAll(html.EscapeString(ss), " ", "&nbsp;")
        ins = append(ins, fmt.Sprintf("<tr><td align=\"left\">%s</td></tr>\n", vv))
        if len(ss) > w {
            w = len(ss)
        }
    }

    /* predecessors */
    for _, d := range bb.Pred {
        pred = append(pred, fmt.Sprintf("bb_%d", d))
    }

    /* block metadata */
    meta := []string {
        fmt.Sprintf("# pred = {%s}", strings.Join(pred, ", ")),
        fmt.Sprintf("# dom = %s", dom[bb.Id]),
    }

    /* synthetic blocks only exist as jump targets */
    if bb.Synthetic {
        meta = append(meta, "# synthetic")
    }

    /* escape the metadata */
    for i, ss := range meta {
        meta[i] = fmt.Sprintf("<tr><td align=\"left\">%s</td></tr>\n", html.EscapeString(ss))
        if len(ss) > w {
            w = len(ss)
        }
    }

    /* build the table */
    buf := []string {
        "<table border=\"1\" cellborder=\"0\" cellspacing=\"0\">\n",
        fmt.Sprintf("<tr><td width=\"%d\">bb_%d</td></tr>\n", w * 10 + 5, bb.Id),
        "<hr/>\n",
    }

    /* add the instructions if any */
    buf = append(buf, meta...)
    if len(ins) != 0 {
        buf = append(buf, "<hr/>\n")
        buf = append(buf, ins...)
    }

    /* close the table */
    buf = append(buf, "</table>")
    return strings.Join(buf, "")
}

// Dot renders the blocks reachable from the entry in Graphviz format.
func (self *CFG) Dot() string {
    q := lane.NewQueue()
    n := make(map[int]bool)
    buf := []string {
        fmt.Sprintf("digraph %s {", strconv.Quote(self.Name)),
        `    graph [ fontname = "Fira Code" ]`,
        `    node [ fontname = "Fira Code" fontsize="16" shape = "plaintext" ]`,
        `    edge [ fontname = "Fira Code" ]`,
        `    START [ shape = "circle" ]`,
    }

    /* empty functions only have the start node */
    if len(self.Blocks) == 0 {
        return strings.Join(append(buf, "}"), "\n")
    }

    /* breadth-first walk from the entry */
    dom := Dominators(self)
    buf = append(buf, fmt.Sprintf(`    START -> bb_%d`, self.Entry))

    /* emit every node and its outgoing edges */
    for q.Enqueue(self.Entry); !q.Empty(); {
        p := self.Blocks[q.Dequeue().(int)]
        if n[p.Id] {
            continue
        }

        /* mark as visited */
        n[p.Id] = true
        buf = append(buf, fmt.Sprintf(`    bb_%d [ label = < %s > ]`, p.Id, dumpbb(p, dom)))

        /* name the edges after the terminator */
        for i, s := range p.Succ {
            if !n[s] {
                q.Enqueue(s)
            }
            buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = "%s" ]`, p.Id, s, edgeLabel(p, i)))
        }
    }

    /* close the graph */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}

func edgeLabel(bb *BasicBlock, i int) string {
    if tr := bb.terminator(); tr == nil {
        return "fallthrough"
    } else if tr.Op != ir.OpBr || len(bb.Succ) == 1 {
        return "goto"
    } else if i == 0 {
        return "true"
    } else {
        return "false"
    }
}
