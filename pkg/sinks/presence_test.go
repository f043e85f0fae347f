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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/shared/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testContext() context.Context {
	return logging.WithLogger(context.Background(), zap.NewNop().Sugar())
}

func TestPresence(t *testing.T) {
	subscribers := atomic.NewInt64(0)
	failing := atomic.NewBool(false)
	p := NewPresence("test", func(ctx context.Context) (bool, error) {
		if failing.Load() {
			return true, errors.New("connection refused")
		}
		return subscribers.Load() > 0, nil
	}, 2*time.Millisecond)
	assert.False(t, p.Present())

	subscribers.Store(1)
	p.Start(testContext())
	defer p.Stop()
	assert.True(t, p.Present())

	subscribers.Store(0)
	assert.Eventually(t, func() bool { return !p.Present() }, 5*time.Second, time.Millisecond)

	subscribers.Store(3)
	assert.Eventually(t, p.Present, 5*time.Second, time.Millisecond)

	failing.Store(true)
	assert.Eventually(t, func() bool { return !p.Present() }, 5*time.Second, time.Millisecond)
}

func TestPresence_StopWithoutStart(t *testing.T) {
	p := NewPresence("idle", func(ctx context.Context) (bool, error) { return true, nil }, 0)
	assert.Equal(t, time.Second, p.interval)
	p.Stop()
}
