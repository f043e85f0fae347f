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

// Package window groups a stream of CD events into time windowed batches.
//
// A single Accumulator owns one open batch at a time. Chunks delivered by the source are
// appended to it in arrival order; the first chunk of a new window fixes the window start,
// the last event of every chunk moves the window end. Once the wall clock span between the
// two reaches the configured delta, the whole open batch is handed off as a CompletedBatch
// and a new window starts with the next chunk.
//
// Windows are "at least delta" wide: a chunk is never split across two batches, so a chunk
// whose own span exceeds the delta completes its window in one call. Windows never overlap
// and events are never reordered or deduplicated.
//
// The Accumulator is not safe for concurrent use. The host must deliver chunks from a single
// goroutine, the same guarantee a callback based sensor driver gives.
package window
