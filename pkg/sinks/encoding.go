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

package sinks

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

// Header is common to every encoded message.
type Header struct {
	ID      string    `json:"id"`
	Stamp   time.Time `json:"stamp"`
	FrameID string    `json:"frameId"`
}

// WireEvent is an event with its absolute timestamp.
type WireEvent struct {
	X        uint16    `json:"x"`
	Y        uint16    `json:"y"`
	Polarity uint8     `json:"p"`
	Ts       time.Time `json:"ts"`
}

// EventArrayMessage is the encoded form of a completed batch. The header stamp is the end
// of the window.
type EventArrayMessage struct {
	Header      Header      `json:"header"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	WindowStart time.Time   `json:"windowStart"`
	Partial     bool        `json:"partial,omitempty"`
	Events      []WireEvent `json:"events"`
}

// ImageMessage is the encoded form of a rendered frame.
type ImageMessage struct {
	Header   Header `json:"header"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Encoding string `json:"encoding"`
	Step     int    `json:"step"`
	// T is the renderer's event time stamp in microseconds.
	T    int64  `json:"t"`
	Data []byte `json:"data"`
}

// CameraInfoMessage is the encoded form of a status message.
type CameraInfoMessage struct {
	Header Header        `json:"header"`
	Status status.Status `json:"status"`
}

// Encoder turns outputs into wire messages for one sensor.
type Encoder struct {
	info events.SensorInfo
}

func NewEncoder(info events.SensorInfo) *Encoder {
	return &Encoder{info: info}
}

func (e *Encoder) header(stamp time.Time) Header {
	return Header{ID: uuid.New().String(), Stamp: stamp, FrameID: e.info.FrameID}
}

// EventArray converts a batch without encoding it.
func (e *Encoder) EventArray(b *window.CompletedBatch) *EventArrayMessage {
	msg := &EventArrayMessage{
		Header:      e.header(b.WindowEnd),
		Width:       e.info.Geometry.Width,
		Height:      e.info.Geometry.Height,
		WindowStart: b.WindowStart,
		Partial:     b.Partial,
		Events:      make([]WireEvent, len(b.Events)),
	}
	for i, ev := range b.Events {
		msg.Events[i] = WireEvent{X: ev.X, Y: ev.Y, Polarity: ev.Polarity, Ts: b.EventTime(i)}
	}
	return msg
}

// EncodeBatch encodes a completed batch.
func (e *Encoder) EncodeBatch(b *window.CompletedBatch) ([]byte, error) {
	return json.Marshal(e.EventArray(b))
}

// EncodeFrame encodes a rendered frame.
func (e *Encoder) EncodeFrame(f *frames.Frame) ([]byte, error) {
	return json.Marshal(&ImageMessage{
		Header:   e.header(f.Stamp),
		Width:    f.Width,
		Height:   f.Height,
		Encoding: f.Encoding,
		Step:     f.Width * 3,
		T:        f.T,
		Data:     f.Data,
	})
}

// EncodeStatus encodes a status message.
func (e *Encoder) EncodeStatus(s *status.Status) ([]byte, error) {
	return json.Marshal(&CameraInfoMessage{Header: e.header(s.Stamp), Status: *s})
}
