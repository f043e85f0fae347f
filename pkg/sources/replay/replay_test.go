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

package replay

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/events"
	sourceerrors "github.com/numaproj/cdstream/pkg/sources/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeRecording(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newReplay(t *testing.T, path string, chunkSize int, realtime bool) *Replay {
	t.Helper()
	r, err := NewReplay("cam0", config.ReplayConfig{Path: path, Width: 16, Height: 8, ChunkSize: chunkSize, Realtime: realtime}, WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	return r
}

func run(r *Replay, ctx context.Context) ([]events.Chunk, error) {
	var chunks []events.Chunk
	err := r.Run(ctx, func(_ context.Context, c events.Chunk) {
		chunks = append(chunks, c)
	})
	return chunks, err
}

const recording = `t,x,y,p
# recorded with a test pattern
0,1,2,1
40,3,4,0
40,5,6,1
120,15,7,0
250,0,0,1
`

func TestReplay_Chunks(t *testing.T) {
	r := newReplay(t, writeRecording(t, recording), 2, false)
	assert.Equal(t, "replay", r.GetName())
	assert.Equal(t, "replay:recording.csv", r.Info().SerialNumber)

	chunks, err := run(r, context.Background())
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, events.Chunk{{X: 1, Y: 2, Polarity: 1, T: 0}, {X: 3, Y: 4, Polarity: 0, T: 40}}, chunks[0])
	assert.Equal(t, events.Chunk{{X: 5, Y: 6, Polarity: 1, T: 40}, {X: 15, Y: 7, Polarity: 0, T: 120}}, chunks[1])
	assert.Equal(t, events.Chunk{{X: 0, Y: 0, Polarity: 1, T: 250}}, chunks[2])
}

func TestReplay_Realtime(t *testing.T) {
	r := newReplay(t, writeRecording(t, "0,1,1,1\n5000,1,1,0\n10000,2,2,1\n"), 1, true)
	start := time.Now()
	chunks, err := run(r, context.Background())
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestReplay_Cancelled(t *testing.T) {
	r := newReplay(t, writeRecording(t, "0,1,1,1\n10000000,1,1,0\n"), 1, true)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	chunks, err := run(r, ctx)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestReplay_BadRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"timestamp", "0,1,1,1\nabc,1,1,1\n", 2},
		{"negative", "-5,1,1,1\n", 1},
		{"geometry", "0,1,1,1\n10,16,1,1\n", 2},
		{"polarity", "0,1,1,300\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReplay(t, writeRecording(t, tt.content), 10, false)
			_, err := run(r, context.Background())
			var readErr *sourceerrors.SourceReadErr
			require.True(t, errors.As(err, &readErr))
			assert.Equal(t, tt.line, readErr.Line)
		})
	}

	r := newReplay(t, writeRecording(t, "0,1,1\n"), 10, false)
	_, err := run(r, context.Background())
	assert.Error(t, err)
}

func TestNewReplay_Invalid(t *testing.T) {
	_, err := NewReplay("cam0", config.ReplayConfig{Path: filepath.Join(t.TempDir(), "missing.csv"), Width: 4, Height: 4, ChunkSize: 1})
	assert.Error(t, err)
	path := writeRecording(t, recording)
	_, err = NewReplay("cam0", config.ReplayConfig{Path: path, Width: 0, Height: 4, ChunkSize: 1})
	assert.Error(t, err)
	_, err = NewReplay("cam0", config.ReplayConfig{Path: path, Width: 4, Height: 4, ChunkSize: 0})
	assert.Error(t, err)
}
