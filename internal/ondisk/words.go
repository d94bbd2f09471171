// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package ondisk provides views over the byte buffers that make up a
// list file.
package ondisk

import (
	"encoding/binary"
	"fmt"
)

// WordSize is the width in bytes of every field in a list file.
const WordSize = 4

// Words is a byte buffer viewed as an array of little-endian uint32s.
type Words struct {
	buf []byte
	len int // length in number of words
}

// NewWords returns a view of buf.  Trailing bytes that don't fill a
// whole word are not addressable.
func NewWords(buf []byte) *Words {
	return &Words{
		buf: buf,
		len: len(buf) / WordSize,
	}
}

func (w *Words) Len() int {
	return w.len
}

func (w *Words) Set(i int, value uint32) error {
	if i < 0 || i >= w.len {
		return fmt.Errorf("offset (%d) out of range (len %d)", i, w.len)
	}
	binary.LittleEndian.PutUint32(w.buf[WordSize*i:], value)
	return nil
}

func (w *Words) Get(i int) (uint32, error) {
	if i < 0 || i >= w.len {
		return 0, fmt.Errorf("offset (%d) out of range (len %d)", i, w.len)
	}
	return binary.LittleEndian.Uint32(w.buf[WordSize*i:]), nil
}

// SetRecord writes values to consecutive words starting at word i.
func (w *Words) SetRecord(i int, values ...uint32) error {
	if i < 0 || i+len(values) > w.len {
		return fmt.Errorf("record [%d, %d) out of range (len %d)", i, i+len(values), w.len)
	}
	for j, v := range values {
		binary.LittleEndian.PutUint32(w.buf[WordSize*(i+j):], v)
	}
	return nil
}

// Zero clears every byte of the underlying buffer.
func (w *Words) Zero() {
	clear(w.buf)
}
