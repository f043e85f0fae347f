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

package blackhole

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/numaproj/cdstream/pkg/sinks/testutils"
)

func TestBlackhole_Write(t *testing.T) {
	ctx := context.Background()
	b := NewBlackhole(testutils.SensorInfo)
	assert.Equal(t, "blackhole", b.GetName())
	assert.True(t, b.HasBatchConsumer(ctx))
	assert.True(t, b.HasStatusConsumer(ctx))

	assert.NoError(t, b.WriteBatch(ctx, testutils.BuildTestBatch(20, 0, 10)))
	assert.NoError(t, b.WriteBatch(ctx, testutils.BuildTestBatch(5, 200, 10)))
	assert.NoError(t, b.WriteFrame(ctx, testutils.BuildTestFrame(1000)))
	assert.NoError(t, b.WriteStatus(ctx, testutils.BuildTestStatus(testutils.StreamStart)))

	batches, evs, frames, status := b.Counts()
	assert.Equal(t, int64(2), batches)
	assert.Equal(t, int64(25), evs)
	assert.Equal(t, int64(1), frames)
	assert.Equal(t, int64(1), status)
	assert.NoError(t, b.Close())
}
