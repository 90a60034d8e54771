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
    `fmt`
)

// PassError occures when an optimization pass fails on a function. The
// function is left as it was before the pipeline started.
type PassError struct {
    Func   string
    Pass   string
    Round  int
    Reason string
}

func (self PassError) Error() string {
    return fmt.Sprintf("PassError(@%s, %s, round %d): %s", self.Func, self.Pass, self.Round, self.Reason)
}

// ConfigError occures when the configured pipeline can not be built.
type ConfigError struct {
    Option string
    Reason string
}

func (self ConfigError) Error() string {
    return fmt.Sprintf("ConfigError(%s): %s", self.Option, self.Reason)
}
