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

package opts

import (
	"log/slog"
)

type Options struct {
	Passes    []string
	MaxRounds int
	Workers   int
	Logger    *slog.Logger
}

// CanRepeat reports whether another round is allowed after n rounds.
func (self *Options) CanRepeat(n int) bool {
	return self.MaxRounds > n
}

// ConcurrentWorkers clamps the configured worker count to [1, _MaxWorkers].
func (self *Options) ConcurrentWorkers() int {
	if self.Workers <= 0 {
		return 1
	} else if self.Workers > _MaxWorkers {
		return _MaxWorkers
	} else {
		return self.Workers
	}
}

func GetDefaultOptions() Options {
	return Options{
		Passes:    append([]string(nil), Passes...),
		MaxRounds: MaxRounds,
		Workers:   Workers,
		Logger:    slog.Default(),
	}
}
