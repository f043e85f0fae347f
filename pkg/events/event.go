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

// Package events defines the change detection (CD) event model produced by an event-based
// vision sensor, together with the validation applied to every delivered chunk.
package events

import (
	"errors"
	"fmt"
)

const (
	// PolarityOff marks a decrease in pixel brightness.
	PolarityOff uint8 = 0
	// PolarityOn marks an increase in pixel brightness.
	PolarityOn uint8 = 1
)

// ErrEmptyChunk is returned when a source delivers a chunk without events.
var ErrEmptyChunk = errors.New("empty event chunk")

// Event is a single pixel polarity change. T is in microseconds since the stream started.
type Event struct {
	X        uint16 `json:"x"`
	Y        uint16 `json:"y"`
	Polarity uint8  `json:"p"`
	T        int64  `json:"t"`
}

// Chunk is a contiguous, time ordered group of events delivered together by a source.
type Chunk []Event

// First returns the earliest event of the chunk. The chunk must not be empty.
func (c Chunk) First() Event {
	return c[0]
}

// Last returns the latest event of the chunk. The chunk must not be empty.
func (c Chunk) Last() Event {
	return c[len(c)-1]
}

// Span returns the relative time covered by the chunk, in microseconds.
func (c Chunk) Span() int64 {
	if len(c) == 0 {
		return 0
	}
	return c.Last().T - c.First().T
}

// NonMonotonicInputError reports a chunk that would move relative time backwards.
type NonMonotonicInputError struct {
	// Index of the offending event within the chunk.
	Index int
	// T is the offending relative timestamp.
	T int64
	// Previous is the relative timestamp it was compared against.
	Previous int64
}

func (e *NonMonotonicInputError) Error() string {
	if e.Index == 0 {
		return fmt.Sprintf("non-monotonic input: chunk starts at t=%dus, before last seen t=%dus", e.T, e.Previous)
	}
	return fmt.Sprintf("non-monotonic input: event %d at t=%dus precedes t=%dus", e.Index, e.T, e.Previous)
}

// InvalidPolarityError reports an event whose polarity is neither on nor off.
type InvalidPolarityError struct {
	Index    int
	Polarity uint8
}

func (e *InvalidPolarityError) Error() string {
	return fmt.Sprintf("invalid polarity %d on event %d", e.Polarity, e.Index)
}

// ValidateChunk checks that the chunk is non-empty, that its polarities are valid and that
// relative time never decreases, neither within the chunk nor from lastSeen to its first
// event. A negative lastSeen disables the cross-chunk check. Equal timestamps are legal.
func ValidateChunk(chunk Chunk, lastSeen int64) error {
	if len(chunk) == 0 {
		return ErrEmptyChunk
	}
	if lastSeen >= 0 && chunk[0].T < lastSeen {
		return &NonMonotonicInputError{Index: 0, T: chunk[0].T, Previous: lastSeen}
	}
	for i := range chunk {
		if p := chunk[i].Polarity; p != PolarityOff && p != PolarityOn {
			return &InvalidPolarityError{Index: i, Polarity: p}
		}
		if i > 0 && chunk[i].T < chunk[i-1].T {
			return &NonMonotonicInputError{Index: i, T: chunk[i].T, Previous: chunk[i-1].T}
		}
	}
	return nil
}
