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

package periodic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
)

func pixel(f *frames.Frame, x, y int) [3]byte {
	off := (y*f.Width + x) * 3
	return [3]byte{f.Data[off], f.Data[off+1], f.Data[off+2]}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(events.Geometry{Width: 0, Height: 10})
	assert.Error(t, err)
	_, err = New(events.Geometry{Width: 10, Height: 10}, WithFPS(0))
	assert.Error(t, err)
	_, err = New(events.Geometry{Width: 10, Height: 10}, WithAccumulationTime(0))
	assert.Error(t, err)

	r, err := New(events.Geometry{Width: 10, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, 33333*time.Microsecond, r.Period())
	assert.Equal(t, int64(20000), r.accUs)
}

func TestRenderer_Process(t *testing.T) {
	r, err := New(events.Geometry{Width: 4, Height: 2}, WithFPS(1000), WithAccumulationTime(500*time.Microsecond))
	require.NoError(t, err)
	var out []*frames.Frame
	r.SetOutputCallback(func(f *frames.Frame) { out = append(out, f) })

	r.Process(events.Chunk{
		{X: 0, Y: 0, Polarity: events.PolarityOn, T: 100},
		{X: 1, Y: 0, Polarity: events.PolarityOff, T: 600},
		{X: 2, Y: 1, Polarity: events.PolarityOn, T: 900},
		{X: 9, Y: 9, Polarity: events.PolarityOn, T: 950},
	})
	assert.Empty(t, out)

	r.Process(events.Chunk{{X: 3, Y: 1, Polarity: events.PolarityOn, T: 1000}})
	require.Len(t, out, 1)
	f := out[0]
	assert.Equal(t, int64(1000), f.T)
	assert.Equal(t, frames.EncodingBGR8, f.Encoding)
	assert.Len(t, f.Data, 4*2*3)
	assert.Equal(t, ColorBackground, pixel(f, 0, 0))
	assert.Equal(t, ColorOff, pixel(f, 1, 0))
	assert.Equal(t, ColorOn, pixel(f, 2, 1))
	assert.Equal(t, ColorBackground, pixel(f, 3, 1))

	// a gap in the stream still produces one frame per period
	r.Process(events.Chunk{{X: 0, Y: 1, Polarity: events.PolarityOff, T: 3100}})
	require.Len(t, out, 3)
	assert.Equal(t, int64(2000), out[1].T)
	assert.Equal(t, int64(3000), out[2].T)
	assert.Equal(t, ColorBackground, pixel(out[1], 3, 1))
	assert.Len(t, r.pending, 1)
}

func TestRenderer_LastEventWins(t *testing.T) {
	r, err := New(events.Geometry{Width: 1, Height: 1}, WithFPS(1000), WithAccumulationTime(time.Millisecond))
	require.NoError(t, err)
	var out []*frames.Frame
	r.SetOutputCallback(func(f *frames.Frame) { out = append(out, f) })
	r.Process(events.Chunk{
		{Polarity: events.PolarityOff, T: 10},
		{Polarity: events.PolarityOn, T: 20},
		{Polarity: events.PolarityOn, T: 1000},
	})
	require.Len(t, out, 1)
	assert.Equal(t, ColorOn, pixel(out[0], 0, 0))
}
