/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package errors

import "fmt"

// SourceReadErr represents any source read related error
type SourceReadErr struct {
	Source string
	// Line is the 1-based line of a recording, zero when not applicable.
	Line      int
	Err       error
	Retryable bool
}

func (e *SourceReadErr) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceReadErr) Unwrap() error {
	return e.Err
}

// IsRetryable is true if the error is retryable
func (e *SourceReadErr) IsRetryable() bool {
	return e.Retryable
}
