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

package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChunk(t *testing.T) {
	t.Run("empty chunk", func(t *testing.T) {
		assert.ErrorIs(t, ValidateChunk(Chunk{}, -1), ErrEmptyChunk)
	})

	t.Run("equal timestamps are legal", func(t *testing.T) {
		chunk := Chunk{{T: 10}, {T: 10, Polarity: PolarityOn}, {T: 12}}
		assert.NoError(t, ValidateChunk(chunk, 10))
	})

	t.Run("decreasing within chunk", func(t *testing.T) {
		err := ValidateChunk(Chunk{{T: 10}, {T: 20}, {T: 15}}, -1)
		var nm *NonMonotonicInputError
		assert.True(t, errors.As(err, &nm))
		assert.Equal(t, 2, nm.Index)
		assert.Equal(t, int64(15), nm.T)
		assert.Equal(t, int64(20), nm.Previous)
	})

	t.Run("chunk starts before last seen", func(t *testing.T) {
		err := ValidateChunk(Chunk{{T: 5}}, 6)
		var nm *NonMonotonicInputError
		assert.True(t, errors.As(err, &nm))
		assert.Equal(t, 0, nm.Index)
		assert.Contains(t, err.Error(), "before last seen")
	})

	t.Run("invalid polarity", func(t *testing.T) {
		err := ValidateChunk(Chunk{{T: 1, Polarity: 2}}, -1)
		var ip *InvalidPolarityError
		assert.True(t, errors.As(err, &ip))
		assert.Equal(t, uint8(2), ip.Polarity)
	})
}

func TestChunkSpan(t *testing.T) {
	assert.Equal(t, int64(0), Chunk{}.Span())
	assert.Equal(t, int64(120), Chunk{{T: 0}, {T: 50}, {T: 120}}.Span())
}

func TestGeometryContains(t *testing.T) {
	g := Geometry{Width: 640, Height: 480}
	assert.True(t, g.Contains(639, 479))
	assert.False(t, g.Contains(640, 0))
	assert.False(t, g.Contains(0, 480))
}
