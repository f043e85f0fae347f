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

// Package testutils builds outputs for sink tests.
package testutils

import (
	"time"

	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

var (
	// StreamStart is the clock anchor of every test output.
	StreamStart = time.Unix(1636470000, 0).UTC()
	SensorInfo  = events.SensorInfo{
		CameraName:   "cam0",
		SerialNumber: "00050423",
		FrameID:      "cam0_optical_frame",
		Geometry:     events.Geometry{Width: 8, Height: 4},
	}
)

// BuildTestBatch returns a completed batch of count events spaced by step microseconds,
// the first one at relative time first.
func BuildTestBatch(count int, first, step int64) *window.CompletedBatch {
	evs := make([]events.Event, count)
	for i := range evs {
		evs[i] = events.Event{
			X:        uint16(i % SensorInfo.Geometry.Width),
			Y:        uint16(i % SensorInfo.Geometry.Height),
			Polarity: uint8(i % 2),
			T:        first + int64(i)*step,
		}
	}
	b := &window.CompletedBatch{StreamStart: StreamStart, Events: evs}
	if count > 0 {
		b.WindowStart = b.EventTime(0)
		b.WindowEnd = b.EventTime(count - 1)
	}
	return b
}

// BuildTestFrame returns a blank frame of the test geometry.
func BuildTestFrame(t int64) *frames.Frame {
	g := SensorInfo.Geometry
	return &frames.Frame{
		T:        t,
		Stamp:    StreamStart.Add(time.Duration(t) * time.Microsecond),
		Width:    g.Width,
		Height:   g.Height,
		Encoding: frames.EncodingBGR8,
		Data:     make([]byte, g.Width*g.Height*3),
	}
}

// BuildTestStatus returns a status message stamped at stamp.
func BuildTestStatus(stamp time.Time) *status.Status {
	return &status.Status{Stamp: stamp, Sensor: SensorInfo}
}
