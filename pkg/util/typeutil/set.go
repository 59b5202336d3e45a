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
)

type Set[T comparable] map[T]struct{}

func NewSet[T comparable](elements ...T) Set[T] {
	set := make(Set[T])
	set.Insert(elements...)
	return set
}

// Insert 将元素插入集合。
// 如果元素已存在，则忽略该元素。
func (set Set[T]) Insert(elements ...T) {
	for i := range elements {
		set[elements[i]] = struct{}{}
	}
}

// Contain 判断一个或多个元素是否都存在于集合中。
func (set Set[T]) Contain(elements ...T) bool {
	for i := range elements {
		_, ok := set[elements[i]]
		if !ok {
			return false
		}
	}
	return true
}

type ConcurrentSet[T comparable] struct {
	inner sync.Map
}

func NewConcurrentSet[T comparable]() *ConcurrentSet[T] {
	return &ConcurrentSet[T]{}
}

// Insert 插入元素，元素此前不存在时返回 true。
func (set *ConcurrentSet[T]) Insert(element T) bool {
	_, exist := set.inner.LoadOrStore(element, struct{}{})
	return !exist
}

// Contain 判断一个或多个元素是否都存在于并发集合中。
func (set *ConcurrentSet[T]) Contain(elements ...T) bool {
	for i := range elements {
		_, ok := set.inner.Load(elements[i])
		if !ok {
			return false
		}
	}
	return true
}
