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

// Package sources delivers CD event chunks from a sensor, or from something standing in for
// one, to a single handler.
package sources

import (
	"context"

	"github.com/numaproj/cdstream/pkg/events"
)

// Handler receives every chunk, in order, on the source's delivery goroutine. The handler
// owns the chunk.
type Handler func(ctx context.Context, chunk events.Chunk)

// Sourcer produces the event stream of one sensor.
type Sourcer interface {
	// GetName returns the name of the source.
	GetName() string
	// Info describes the sensor. It is valid before Run.
	Info() events.SensorInfo
	// Run blocks, calling handler for every chunk, until the stream ends, ctx is done, or
	// reading fails. Event times start at zero when Run is called.
	Run(ctx context.Context, handler Handler) error
}
