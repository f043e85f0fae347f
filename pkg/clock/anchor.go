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

// Package clock maps the sensor's relative event time onto wall clock time.
//
// An Anchor captures the wall clock time at which the event stream started. Every event
// carries a relative timestamp in microseconds since that instant, so the absolute time of
// an event is the anchor plus its relative time. The anchor is written exactly once and read
// by any number of goroutines afterwards.
package clock

import (
	"errors"
	"time"

	"go.uber.org/atomic"
)

var (
	// ErrNotAnchored is returned when a conversion is requested before the stream started.
	ErrNotAnchored = errors.New("clock anchor not established")
	// ErrAlreadyAnchored is returned when the anchor is established a second time.
	ErrAlreadyAnchored = errors.New("clock anchor already established")
)

// Anchor is the fixed wall clock time corresponding to relative time zero.
// The zero value is an unanchored clock ready for use.
type Anchor struct {
	start atomic.Pointer[time.Time]
}

// NewAnchor returns an unanchored clock.
func NewAnchor() *Anchor {
	return &Anchor{}
}

// Establish anchors relative time zero at wallNow. It must be called when the stream
// begins flowing. Any later call fails with ErrAlreadyAnchored and leaves the original
// anchor untouched.
func (a *Anchor) Establish(wallNow time.Time) error {
	// drop the monotonic reading, absolute times are wall clock only
	t := wallNow.Round(0)
	if !a.start.CompareAndSwap(nil, &t) {
		return ErrAlreadyAnchored
	}
	return nil
}

// IsAnchored reports whether Establish has succeeded.
func (a *Anchor) IsAnchored() bool {
	return a.start.Load() != nil
}

// Start returns the anchored wall clock time.
func (a *Anchor) Start() (time.Time, error) {
	s := a.start.Load()
	if s == nil {
		return time.Time{}, ErrNotAnchored
	}
	return *s, nil
}

// ToAbsolute converts a relative timestamp in microseconds into wall clock time.
// time.Time has nanosecond resolution, so the conversion is exact.
func (a *Anchor) ToAbsolute(relativeT int64) (time.Time, error) {
	s := a.start.Load()
	if s == nil {
		return time.Time{}, ErrNotAnchored
	}
	return s.Add(time.Duration(relativeT) * time.Microsecond), nil
}
