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

package window

import (
	"fmt"
	"time"
)

const (
	// DefaultDeltaT is the minimum wall clock span of a completed batch.
	DefaultDeltaT = 100 * time.Microsecond
	// DefaultInitialCapacity is the number of events the open batch preallocates.
	DefaultInitialCapacity = 4096
)

type Options struct {
	// deltaT is the minimum span a batch must cover before it is complete
	deltaT time.Duration
	// initialCapacity is the preallocated size of a new open batch
	initialCapacity int
}

func DefaultOptions() *Options {
	return &Options{
		deltaT:          DefaultDeltaT,
		initialCapacity: DefaultInitialCapacity,
	}
}

type Option func(options *Options) error

// WithDeltaT sets the batching window threshold
func WithDeltaT(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return fmt.Errorf("delta t must be positive, got %v", d)
		}
		o.deltaT = d
		return nil
	}
}

// WithInitialCapacity sets how many events a fresh open batch preallocates
func WithInitialCapacity(n int) Option {
	return func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("initial capacity must not be negative, got %d", n)
		}
		o.initialCapacity = n
		return nil
	}
}
