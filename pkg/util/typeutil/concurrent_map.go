// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package typeutil

import (
	"sync"

	"go.uber.org/atomic"
)

// ConcurrentMap 是 sync.Map 的泛型封装，额外维护元素个数。
type ConcurrentMap[K comparable, V any] struct {
	inner sync.Map
	len   atomic.Uint64
}

func NewConcurrentMap[K comparable, V any]() *ConcurrentMap[K, V] {
	return &ConcurrentMap[K, V]{}
}

// Len 返回元素个数。
func (m *ConcurrentMap[K, V]) Len() int {
	return int(m.len.Load())
}

func (m *ConcurrentMap[K, V]) Get(key K) (V, bool) {
	var zeroValue V
	value, ok := m.inner.Load(key)
	if !ok {
		return zeroValue, false
	}
	return value.(V), true
}

// GetOrInsert 键不存在时写入 value 并返回 (value, false)；
// 否则返回已存在的值和 true。
func (m *ConcurrentMap[K, V]) GetOrInsert(key K, value V) (V, bool) {
	actual, loaded := m.inner.LoadOrStore(key, value)
	if !loaded {
		m.len.Inc()
	}
	return actual.(V), loaded
}
