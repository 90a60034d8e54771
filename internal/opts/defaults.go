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
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

const (
	_DefaultMaxRounds = 1    // run the pipeline once
	_MaxWorkers       = 4096 // hard limit of concurrently optimized functions
)

var (
	Passes    = parseListOrDefault("TACOPT_PASSES", nil)
	MaxRounds = parseOrDefault("TACOPT_MAX_ROUNDS", _DefaultMaxRounds, 0)
	Workers   = parseOrDefault("TACOPT_WORKERS", defaultWorkers(), 0)
)

func defaultWorkers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	} else if n = cpuid.CPU.LogicalCores; n > 0 {
		return n
	} else {
		return 1
	}
}

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("tacopt: invalid value for " + key)
	} else if ret := int(val); ret <= min {
		panic("tacopt: value too small for " + key)
	} else {
		return ret
	}
}

func parseListOrDefault(key string, def []string) []string {
	var ret []string
	env := os.Getenv(key)

	/* not set, use the default value */
	if env == "" {
		return def
	}

	/* split by comma, empty items are not allowed */
	for _, v := range strings.Split(env, ",") {
		if v = strings.TrimSpace(v); v == "" {
			panic("tacopt: invalid value for " + key)
		} else {
			ret = append(ret, v)
		}
	}
	return ret
}
