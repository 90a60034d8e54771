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

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/cloudwego/tacopt"
	"github.com/cloudwego/tacopt/debug"
	"github.com/cloudwego/tacopt/internal/tac"
	"github.com/cloudwego/tacopt/ir"
)

var (
	PassList   string
	OutputFile string
	DotFile    string
	MaxRounds  int
	Workers    int
	Indent     bool
	Watch      bool
	Verbose    bool
)

func init() {
	flag.StringVar(&PassList, "p", "", "comma separated passes to run (default \""+strings.Join(tacopt.DefaultPipeline(), ",")+"\")")
	flag.StringVar(&OutputFile, "o", "", "output file (default stdout)")
	flag.StringVar(&DotFile, "dot", "", "write the optimized CFGs in Graphviz format to this file")
	flag.IntVar(&MaxRounds, "rounds", 0, "maximum number of pipeline rounds per function")
	flag.IntVar(&Workers, "workers", 0, "number of functions optimized concurrently")
	flag.BoolVar(&Indent, "indent", false, "indent the output")
	flag.BoolVar(&Watch, "watch", false, "re-optimize whenever the input file changes (requires an input file and -o)")
	flag.BoolVar(&Verbose, "v", false, "verbose logging")
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [input.json]\n\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprintf(flag.CommandLine.Output(), "\npasses:\n")
	for _, pd := range tac.Passes {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-10s %s\n", pd.Name, pd.Desc)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func options(logger *slog.Logger) ([]tacopt.Option, error) {
	ret := []tacopt.Option{tacopt.WithLogger(logger)}

	/* pass list */
	if PassList != "" {
		var names []string
		for _, v := range strings.Split(PassList, ",") {
			if v = strings.TrimSpace(v); v == "" {
				continue
			} else if _, ok := tac.Lookup(v); !ok {
				return nil, fmt.Errorf("unknown pass: %q", v)
			} else {
				names = append(names, v)
			}
		}
		if len(names) != 0 {
			ret = append(ret, tacopt.WithPasses(names...))
		}
	}

	/* round limit */
	if MaxRounds < 0 {
		return nil, fmt.Errorf("invalid round count: %d", MaxRounds)
	} else if MaxRounds > 0 {
		ret = append(ret, tacopt.WithMaxRounds(MaxRounds))
	}

	/* worker count */
	if Workers < 0 {
		return nil, fmt.Errorf("invalid worker count: %d", Workers)
	} else if Workers > 0 {
		ret = append(ret, tacopt.WithWorkers(Workers))
	}
	return ret, nil
}

// checkWatch rejects watch setups that can not work: the input must be a
// file, and writing the output must not trigger another run.
func checkWatch(input string, output string) error {
	if input == "" || input == "-" || output == "" {
		return errors.New("-watch requires an input file and -o")
	}

	/* resolve both paths */
	ip, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	op, err := filepath.Abs(output)
	if err != nil {
		return err
	}

	/* the output would re-trigger the watcher forever */
	if ip == op {
		return fmt.Errorf("-watch can not write the output to its own input: %s", input)
	}
	return nil
}

func readInput(input string) (*ir.Program, error) {
	if input == "" || input == "-" {
		return ir.Decode(os.Stdin)
	}

	/* read from file */
	fp, err := os.Open(input)
	if err != nil {
		return nil, err
	}

	/* decode the program */
	defer fp.Close()
	return ir.Decode(fp)
}

func writeOutput(prog *ir.Program) error {
	var buf bytes.Buffer
	if err := ir.Encode(&buf, prog, Indent); err != nil {
		return err
	}

	/* write to stdout if no output file is specified */
	if OutputFile == "" {
		_, err := io.Copy(os.Stdout, &buf)
		return err
	} else {
		return os.WriteFile(OutputFile, buf.Bytes(), 0644)
	}
}

func writeDot(prog *ir.Program) error {
	var buf []string
	for _, fn := range prog.Functions {
		buf = append(buf, tac.BuildCFG(fn).Dot())
	}
	return os.WriteFile(DotFile, []byte(strings.Join(buf, "\n\n")+"\n"), 0644)
}

func run(ctx context.Context, logger *slog.Logger, input string, opts []tacopt.Option) error {
	prog, err := readInput(input)
	if err != nil {
		return err
	}

	/* optimize every function */
	if err = tacopt.Optimize(ctx, prog, opts...); err != nil {
		return err
	}

	/* dump the CFGs if needed */
	if DotFile != "" {
		if err = writeDot(prog); err != nil {
			return err
		}
	}

	/* write the result */
	if err = writeOutput(prog); err != nil {
		return err
	}

	/* report the statistics */
	st := debug.GetStats()
	logger.Debug("optimized",
		"functions", len(prog.Functions),
		"folded", st.Folding.Constants,
		"branches", st.Folding.Branches,
		"removed", st.Removal.DeadCode,
		"elided", st.Removal.DeadArms,
		"copies", st.Copies,
		"hoisted", st.Hoisted,
	)
	return nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	/* at most one input file */
	input := flag.Arg(0)
	logger := newLogger()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	/* watch mode needs real files */
	if Watch {
		if err := checkWatch(input, OutputFile); err != nil {
			logger.Error("invalid options", "err", err)
			os.Exit(2)
		}
	}

	/* parse the options */
	opts, err := options(logger)
	if err != nil {
		logger.Error("invalid options", "err", err)
		os.Exit(2)
	}

	/* stop on interrupt */
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	/* optimize once */
	if err = run(ctx, logger, input, opts); err != nil {
		logger.Error("optimization failed", "input", input, "err", err)
		if !Watch {
			os.Exit(1)
		}
	}

	/* keep watching the input */
	if Watch {
		if err = watch(ctx, logger, input, opts); err != nil {
			logger.Error("watch failed", "input", input, "err", err)
			os.Exit(1)
		}
	}
}
