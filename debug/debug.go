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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/tacopt/internal/tac"
)

// A Stats records statistics about the optimizer since the process started.
type Stats struct {
	Functions int
	Folding   FoldStats
	Removal   RemovalStats
	Copies    int
	Hoisted   int
}

// A FoldStats records statistics about constant propagation.
type FoldStats struct {
	Constants int
	Branches  int
}

// A RemovalStats records statistics about removed instructions.
type RemovalStats struct {
	DeadCode int
	DeadArms int
}

// GetStats returns statistics of the optimizer.
func GetStats() Stats {
	return Stats{
		Functions: int(atomic.LoadInt64(&tac.FuncCount)),
		Folding: FoldStats{
			Constants: int(atomic.LoadInt64(&tac.FoldCount)),
			Branches:  int(atomic.LoadInt64(&tac.BranchCount)),
		},
		Removal: RemovalStats{
			DeadCode: int(atomic.LoadInt64(&tac.RemoveCount)),
			DeadArms: int(atomic.LoadInt64(&tac.ElideCount)),
		},
		Copies:  int(atomic.LoadInt64(&tac.CopyCount)),
		Hoisted: int(atomic.LoadInt64(&tac.HoistCount)),
	}
}
