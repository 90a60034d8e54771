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

package ir

import (
    `fmt`
)

// FormatError occures when the input document cannot be mapped onto a Program.
type FormatError struct {
    Path   string
    Reason string
}

func (self *FormatError) Error() string {
    if self.Path == "" {
        return fmt.Sprintf("FormatError: %s", self.Reason)
    } else {
        return fmt.Sprintf("FormatError(%s): %s", self.Path, self.Reason)
    }
}

func eformat(path string, reason string) *FormatError {
    return &FormatError {
        Path   : path,
        Reason : reason,
    }
}

func emissing(path string, key string) *FormatError {
    return eformat(path, fmt.Sprintf("missing required field %q", key))
}

func ebadtype(path string, want string) *FormatError {
    return eformat(path, "expected " + want)
}
