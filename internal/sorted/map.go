// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package sorted provides an ordered map with string keys whose key
// equality is defined by a collation rule rather than by ==.
package sorted

import (
	"iter"
	"sort"

	"github.com/bpowers/vkqlist/internal/collate"
)

// Map keeps values ordered by key under a collate.Rule.  Keys that
// compare equal under the rule are duplicates: the first one added wins.
type Map[V any] struct {
	rule   collate.Rule
	keys   []string
	values []V
}

// New returns an empty Map ordered by rule.
func New[V any](rule collate.Rule) *Map[V] {
	return &Map[V]{rule: rule}
}

// search returns the position key occupies or would be inserted at,
// and whether an equal key is already present.
func (m *Map[V]) search(key string) (int, bool) {
	i := sort.Search(len(m.keys), func(i int) bool {
		return m.rule(m.keys[i], key) >= 0
	})
	return i, i < len(m.keys) && m.rule(m.keys[i], key) == 0
}

// Add inserts key and value unless an equal key exists.  It reports
// whether the value was inserted.
func (m *Map[V]) Add(key string, value V) bool {
	i, found := m.search(key)
	if found {
		return false
	}
	var zero V
	m.keys = append(m.keys, "")
	m.values = append(m.values, zero)
	copy(m.keys[i+1:], m.keys[i:])
	copy(m.values[i+1:], m.values[i:])
	m.keys[i] = key
	m.values[i] = value
	return true
}

// Index returns the rank of key in sorted order, or -1 if absent.
func (m *Map[V]) Index(key string) int {
	if i, found := m.search(key); found {
		return i
	}
	return -1
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	i, found := m.search(key)
	if !found {
		var zero V
		return zero, false
	}
	return m.values[i], true
}

func (m *Map[V]) Len() int {
	return len(m.keys)
}

// All iterates over key/value pairs in sorted order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Keys returns the stored keys in sorted order.  The slice is shared
// with the map and must not be modified.
func (m *Map[V]) Keys() []string {
	return m.keys
}
