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

// Package tacopt optimizes programs in the three-address IR defined by
// package ir, one function at a time.
package tacopt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bytedance/gopkg/util/gopool"
	"github.com/cloudwego/tacopt/internal/opts"
	"github.com/cloudwego/tacopt/internal/tac"
	"github.com/cloudwego/tacopt/ir"
)

// Passes returns the names of every registered pass.
func Passes() []string {
	ret := make([]string, 0, len(tac.Passes))
	for _, pd := range tac.Passes {
		ret = append(ret, pd.Name)
	}
	return ret
}

// DefaultPipeline returns the pass names used when none are configured.
func DefaultPipeline() []string {
	return append([]string(nil), tac.DefaultPipeline...)
}

// Optimize runs the configured pipeline on every function of prog in place.
//
// Functions are optimized concurrently. When a pass fails on a function, that
// function is left untouched and one of the failures is returned after every
// started function finished. Functions not yet started when ctx is done are
// skipped, and ctx.Err() is returned.
func Optimize(ctx context.Context, prog *ir.Program, options ...Option) error {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}

	/* build the pipeline */
	p, err := newPipeline(o)
	if err != nil {
		return err
	}

	/* optimize all the functions */
	return p.program(ctx, prog)
}

// OptimizeFunction runs the configured pipeline on fn synchronously.
func OptimizeFunction(fn *ir.Function, options ...Option) error {
	o := opts.GetDefaultOptions()
	for _, opt := range options {
		opt(&o)
	}

	/* build the pipeline */
	p, err := newPipeline(o)
	if err != nil {
		return err
	}

	/* optimize the function */
	return p.function(fn)
}

type _Pipeline struct {
	opts   opts.Options
	passes []*tac.PassDescriptor
}

func newPipeline(o opts.Options) (*_Pipeline, error) {
	names := o.Passes
	ret := &_Pipeline{opts: o}

	/* use the default pipeline if not specified */
	if len(names) == 0 {
		names = tac.DefaultPipeline
	}

	/* resolve every pass */
	for _, name := range names {
		if pd, ok := tac.Lookup(name); !ok {
			return nil, ConfigError{Option: "passes", Reason: fmt.Sprintf("unknown pass %q", name)}
		} else {
			ret.passes = append(ret.passes, pd)
		}
	}

	/* at least one round */
	if o.MaxRounds < 1 {
		return nil, ConfigError{Option: "rounds", Reason: fmt.Sprintf("invalid round count %d", o.MaxRounds)}
	}
	return ret, nil
}

func (self *_Pipeline) program(ctx context.Context, prog *ir.Program) error {
	var err error
	var mux sync.Mutex
	var skip int32
	var wg sync.WaitGroup

	/* a bounded pool of workers */
	pool := gopool.NewPool("tacopt", int32(self.opts.ConcurrentWorkers()), gopool.NewConfig())
	pool.SetPanicHandler(func(_ context.Context, v interface{}) {
		self.opts.Logger.Error("worker panicked", "reason", v)
	})

	/* schedule every function */
	for _, fn := range prog.Functions {
		if ctx.Err() != nil {
			atomic.StoreInt32(&skip, 1)
			break
		}

		/* optimize in the background */
		wg.Add(1)
		fp := fn
		pool.CtxGo(ctx, func() {
			defer wg.Done()

			/* the context might be cancelled before the function gets started */
			if ctx.Err() != nil {
				atomic.StoreInt32(&skip, 1)
				return
			}

			/* the first error wins */
			if e := self.function(fp); e != nil {
				mux.Lock()
				if err == nil {
					err = e
				}
				mux.Unlock()
			}
		})
	}

	/* wait for all the started functions */
	wg.Wait()

	/* pass failures take precedence */
	if err != nil {
		return err
	} else if atomic.LoadInt32(&skip) != 0 {
		return ctx.Err()
	} else {
		return nil
	}
}

// function optimizes a copy of fn, and only replaces the instructions of fn
// when every pass succeeded. Statistics of a failed function are dropped.
func (self *_Pipeline) function(fn *ir.Function) (err error) {
	var pd *tac.PassDescriptor
	var rn int
	var tally tac.Tally

	/* work on a private copy */
	wf := fn.Clone()
	fp := tac.Fingerprint(wf)

	/* convert panics into errors */
	defer func() {
		if v := recover(); v != nil {
			err = PassError{Func: fn.Name, Pass: passName(pd), Round: rn, Reason: fmt.Sprint(v)}
			self.opts.Logger.Debug("pass failed", "func", fn.Name, "pass", passName(pd), "round", rn, "reason", v)
		}
	}()

	/* repeat the pipeline until nothing changes */
	for rn = 0; self.opts.CanRepeat(rn); rn++ {
		for _, pd = range self.passes {
			n := len(wf.Instrs)
			pd.Pass.Run(wf, &tally)
			self.opts.Logger.Debug("pass applied", "func", fn.Name, "pass", pd.Name, "round", rn, "before", n, "after", len(wf.Instrs))
		}

		/* check for convergence */
		if nf := tac.Fingerprint(wf); nf == fp {
			break
		} else {
			fp = nf
		}
	}

	/* commit the result along with its statistics */
	fn.Instrs = wf.Instrs
	tally.Commit()
	atomic.AddInt64(&tac.FuncCount, 1)
	return nil
}

func passName(pd *tac.PassDescriptor) string {
	if pd == nil {
		return "<none>"
	} else {
		return pd.Name
	}
}
