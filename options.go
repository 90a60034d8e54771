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

package tacopt

import (
	"fmt"
	"log/slog"

	"github.com/cloudwego/tacopt/internal/opts"
	"github.com/cloudwego/tacopt/internal/tac"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithPasses sets the passes to run, in order, on every function.
//
// Every name must be one of the registered passes, see Passes. The same pass
// may appear more than once.
//
// The default pipeline is "lvn,ccp,licm,dce", it can also be configured with
// the `TACOPT_PASSES` environment variable.
func WithPasses(names ...string) Option {
	if len(names) == 0 {
		panic("tacopt: empty pass list")
	}

	/* check for unknown passes */
	for _, name := range names {
		if _, ok := tac.Lookup(name); !ok {
			panic(fmt.Sprintf("tacopt: unknown pass: %q", name))
		}
	}

	/* copy the list, callers may reuse it */
	pl := append([]string(nil), names...)
	return func(o *opts.Options) { o.Passes = pl }
}

// WithMaxRounds sets the maximum number of times the pipeline is repeated on
// a function. Repetition stops early once a round leaves the function unchanged.
//
// The default value of this option is "1".
func WithMaxRounds(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("tacopt: invalid round count: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxRounds = n }
	}
}

// WithWorkers sets how many functions are optimized concurrently. Passes on
// a single function never run concurrently.
//
// The default value is the number of physical CPU cores.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("tacopt: invalid worker count: %d", n))
	} else {
		return func(o *opts.Options) { o.Workers = n }
	}
}

// WithLogger sets the logger used to report per-pass progress at debug level.
func WithLogger(logger *slog.Logger) Option {
	if logger == nil {
		panic("tacopt: nil logger")
	} else {
		return func(o *opts.Options) { o.Logger = logger }
	}
}

// SetMaxRounds sets the default maximum round count for all optimizations
// from now on.
//
// This value can also be configured with the `TACOPT_MAX_ROUNDS` environment
// variable.
//
// Returns the old opts.MaxRounds value.
func SetMaxRounds(n int) int {
	n, opts.MaxRounds = opts.MaxRounds, n
	return n
}
