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

package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/events"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func collect(t *testing.T, g *EventGen, ctx context.Context) []events.Chunk {
	t.Helper()
	var chunks []events.Chunk
	err := g.Run(ctx, func(_ context.Context, c events.Chunk) {
		chunks = append(chunks, c)
	})
	require.NoError(t, err)
	return chunks
}

func TestEventGen_Run(t *testing.T) {
	g, err := NewEventGen("cam0", config.GeneratorConfig{
		Width:       64,
		Height:      48,
		EventRate:   1000000,
		ChunkPeriod: time.Millisecond,
		Seed:        7,
		Duration:    10 * time.Millisecond,
	}, WithoutPacing(), WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	assert.Equal(t, "generator", g.GetName())
	assert.Equal(t, events.Geometry{Width: 64, Height: 48}, g.Info().Geometry)
	assert.Equal(t, "generator-7", g.Info().SerialNumber)

	chunks := collect(t, g, context.Background())
	require.Len(t, chunks, 10)
	last := int64(-1)
	for i, c := range chunks {
		assert.Len(t, c, 1000)
		require.NoError(t, events.ValidateChunk(c, last))
		assert.GreaterOrEqual(t, c.First().T, int64(i)*1000)
		assert.Less(t, c.Last().T, int64(i+1)*1000)
		for _, ev := range c {
			assert.True(t, g.Info().Geometry.Contains(ev.X, ev.Y))
		}
		last = c.Last().T
	}
}

func TestEventGen_Deterministic(t *testing.T) {
	cfg := config.GeneratorConfig{Width: 8, Height: 8, EventRate: 50000, ChunkPeriod: time.Millisecond, Seed: 3, Duration: 3 * time.Millisecond}
	a, err := NewEventGen("cam0", cfg, WithoutPacing(), WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	b, err := NewEventGen("cam0", cfg, WithoutPacing(), WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	assert.Equal(t, collect(t, a, context.Background()), collect(t, b, context.Background()))
}

func TestEventGen_FractionalRate(t *testing.T) {
	// one event every 2.5 chunks
	g, err := NewEventGen("cam0", config.GeneratorConfig{Width: 8, Height: 8, EventRate: 400, ChunkPeriod: time.Millisecond, Duration: 10 * time.Millisecond}, WithoutPacing(), WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	chunks := collect(t, g, context.Background())
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	assert.Equal(t, 4, total)
}

func TestEventGen_PacedStop(t *testing.T) {
	g, err := NewEventGen("cam0", config.GeneratorConfig{Width: 8, Height: 8, EventRate: 1000, ChunkPeriod: 2 * time.Millisecond}, WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	chunks := collect(t, g, ctx)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.NotEmpty(t, chunks)
	assert.LessOrEqual(t, len(chunks), 25)
}

func TestNewEventGen_Invalid(t *testing.T) {
	_, err := NewEventGen("cam0", config.GeneratorConfig{Width: 0, Height: 8, EventRate: 1, ChunkPeriod: time.Millisecond})
	assert.Error(t, err)
	_, err = NewEventGen("cam0", config.GeneratorConfig{Width: 8, Height: 8, EventRate: 0, ChunkPeriod: time.Millisecond})
	assert.Error(t, err)
	_, err = NewEventGen("cam0", config.GeneratorConfig{Width: 8, Height: 8, EventRate: 1, ChunkPeriod: time.Nanosecond})
	assert.Error(t, err)
}
