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

package queue

import "sync"

// OverflowQueue is a thread safe, fixed capacity ring. Once full, appending overwrites the
// oldest element.
type OverflowQueue[T any] struct {
	elements []T
	// head is the index of the oldest element
	head int
	size int
	lock *sync.RWMutex
}

func New[T any](capacity int) *OverflowQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &OverflowQueue[T]{
		elements: make([]T, capacity),
		lock:     new(sync.RWMutex),
	}
}

// Append adds an element to the queue
func (q *OverflowQueue[T]) Append(value T) {
	q.lock.Lock()
	defer q.lock.Unlock()
	idx := (q.head + q.size) % len(q.elements)
	q.elements[idx] = value
	if q.size < len(q.elements) {
		q.size++
	} else {
		q.head = (q.head + 1) % len(q.elements)
	}
}

// Items returns a copy of the elements in the queue, oldest first
func (q *OverflowQueue[T]) Items() []T {
	q.lock.RLock()
	defer q.lock.RUnlock()
	r := make([]T, q.size)
	for i := 0; i < q.size; i++ {
		r[i] = q.elements[(q.head+i)%len(q.elements)]
	}
	return r
}

// Latest returns the newest element, ok is false when the queue is empty
func (q *OverflowQueue[T]) Latest() (value T, ok bool) {
	q.lock.RLock()
	defer q.lock.RUnlock()
	if q.size == 0 {
		return value, false
	}
	return q.elements[(q.head+q.size-1)%len(q.elements)], true
}

// Length returns the current length of the queue
func (q *OverflowQueue[T]) Length() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return q.size
}
