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

package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStartTime = time.Unix(1636470000, 0).UTC()

func TestAnchor_NotAnchored(t *testing.T) {
	a := NewAnchor()
	assert.False(t, a.IsAnchored())
	_, err := a.ToAbsolute(0)
	assert.ErrorIs(t, err, ErrNotAnchored)
	_, err = a.Start()
	assert.ErrorIs(t, err, ErrNotAnchored)
}

func TestAnchor_Establish(t *testing.T) {
	a := NewAnchor()
	require.NoError(t, a.Establish(testStartTime))
	assert.True(t, a.IsAnchored())

	abs, err := a.ToAbsolute(120)
	require.NoError(t, err)
	assert.Equal(t, testStartTime.Add(120*time.Microsecond), abs)

	// second anchor is rejected and the mapping is unchanged
	assert.ErrorIs(t, a.Establish(testStartTime.Add(time.Hour)), ErrAlreadyAnchored)
	again, err := a.ToAbsolute(120)
	require.NoError(t, err)
	assert.Equal(t, abs, again)
	start, err := a.Start()
	require.NoError(t, err)
	assert.Equal(t, testStartTime, start)
}

func TestAnchor_ToAbsoluteIsMonotonic(t *testing.T) {
	a := NewAnchor()
	require.NoError(t, a.Establish(testStartTime))
	prev, _ := a.ToAbsolute(0)
	for _, rel := range []int64{0, 1, 1, 999, 1000, 1_000_000, 3_600_000_000} {
		cur, err := a.ToAbsolute(rel)
		require.NoError(t, err)
		assert.False(t, cur.Before(prev))
		assert.Equal(t, rel*1000, cur.Sub(testStartTime).Nanoseconds())
		prev = cur
	}
}

func TestAnchor_ConcurrentEstablish(t *testing.T) {
	a := NewAnchor()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := a.Establish(testStartTime.Add(time.Duration(i) * time.Second)); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, success)
}
