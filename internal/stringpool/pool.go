// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package stringpool builds the deduplicated, sorted string table of a
// list file.
//
// Other tables refer to strings by their 1-based index in the pool.
// Index 0 is the null string: it is written at export time as a single
// NUL byte and is what "" and "none" (in any case) resolve to.
//
// The exported table looks like:
//
//	┌─────────────────────────┐
//	│ offset[0] (null string) │
//	│ offset[1]               │
//	│ ...                     │  (N+1) x uint32, absolute file offsets
//	│ offset[N]               │
//	├─────────────────────────┤
//	│ 0x00                    │
//	│ string 1 bytes, 0x00    │
//	│ ...                     │  UTF-8, NUL terminated
//	│ string N bytes, 0x00    │
//	└─────────────────────────┘
package stringpool

import (
	"fmt"
	"strings"

	"github.com/bpowers/vkqlist/internal/collate"
	"github.com/bpowers/vkqlist/internal/ondisk"
	"github.com/bpowers/vkqlist/internal/sorted"
)

// NotFound is returned by Index for strings that aren't in the pool.
const NotFound = -1

// Pool is a set of strings ordered by a collation rule.
type Pool struct {
	strings *sorted.Map[struct{}]
}

// New returns an empty pool ordered by rule.
func New(rule collate.Rule) *Pool {
	return &Pool{
		strings: sorted.New[struct{}](rule),
	}
}

func isNull(s string) bool {
	return s == "" || strings.EqualFold(s, "none")
}

// Add adds s to the pool.  Null strings and strings equal to one
// already present are ignored.
func (p *Pool) Add(s string) {
	if isNull(s) {
		return
	}
	p.strings.Add(s, struct{}{})
}

// Index returns the table index of s: 0 for null strings, the 1-based
// rank of s for pooled strings, and NotFound otherwise.
func (p *Pool) Index(s string) int {
	if isNull(s) {
		return 0
	}
	i := p.strings.Index(s)
	if i < 0 {
		return NotFound
	}
	// +1 for the null string written at index 0
	return i + 1
}

// Len is the number of pooled strings, not counting the null string.
func (p *Pool) Len() int {
	return p.strings.Len()
}

// Count is the number of entries in the exported offset table,
// including the null string.
func (p *Pool) Count() uint32 {
	return uint32(p.strings.Len() + 1)
}

// Strings returns the pooled strings in table order.
func (p *Pool) Strings() []string {
	return p.strings.Keys()
}

// Size returns the number of bytes Export writes.
func (p *Pool) Size() int {
	size := int(p.Count()) * ondisk.WordSize
	// the null string is a lone terminator
	size += 1
	for _, s := range p.strings.Keys() {
		size += len(s) + 1
	}
	return size
}

// Export writes the offset table followed by the string bytes to buf.
// base is the absolute file offset buf will be written at; every
// offset in the table is relative to the start of the file.
func (p *Pool) Export(buf []byte, base uint32) error {
	if size := p.Size(); len(buf) < size {
		return fmt.Errorf("string table buffer too small: %d < %d", len(buf), size)
	}

	entryCount := int(p.Count())
	offsets := ondisk.NewWords(buf[:entryCount*ondisk.WordSize])
	data := buf[entryCount*ondisk.WordSize:]
	off := base + uint32(entryCount*ondisk.WordSize)

	// null string at index 0
	if err := offsets.Set(0, off); err != nil {
		return err
	}
	data[0] = 0
	pos := 1
	off++

	for i, s := range p.strings.Keys() {
		if err := offsets.Set(i+1, off); err != nil {
			return err
		}
		n := copy(data[pos:], s)
		data[pos+n] = 0
		pos += n + 1
		off += uint32(n + 1)
	}

	return nil
}
