// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package stringpool

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/vkqlist/internal/collate"
)

func TestPool_SortOrder(t *testing.T) {
	p := New(collate.Compare)
	for _, s := range []string{
		"#blessed", "CatDog", "zabc123", "ABD1000", "8675309Abc", "abe3000",
		"C@gsmore", "Xabc123", "(not a llama)", "abaaaaa", "2345",
	} {
		p.Add(s)
	}

	assert.Equal(t, 0, p.Index(""))
	assert.Equal(t, 0, p.Index("none"))
	for i, s := range []string{
		"abaaaaa", "ABD1000", "abe3000", "C@gsmore", "CatDog", "Xabc123",
		"zabc123", "2345", "8675309Abc", "(not a llama)", "#blessed",
	} {
		assert.Equal(t, i+1, p.Index(s), "Index(%q)", s)
	}
}

func TestPool_NullStrings(t *testing.T) {
	p := New(collate.Compare)
	for _, s := range []string{"", "none", "NONE", "None", "nOnE"} {
		p.Add(s)
		assert.Equal(t, 0, p.Index(s), "Index(%q)", s)
	}
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, uint32(1), p.Count())
	// the null string alone: one offset plus one terminator
	assert.Equal(t, 5, p.Size())
	assert.Equal(t, NotFound, p.Index("nothing"))
}

func TestPool_AddIsStable(t *testing.T) {
	p := New(collate.Compare)
	p.Add("Pixel")
	p.Add("bluejay")
	p.Add("9dfx")

	before := map[string]int{}
	for _, s := range p.Strings() {
		before[s] = p.Index(s)
		require.Greater(t, before[s], 0)
	}
	size := p.Size()

	// re-adding equal strings changes nothing
	p.Add("PIXEL")
	p.Add("BlueJay")
	p.Add("9dfx")
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, size, p.Size())
	for s, idx := range before {
		assert.Equal(t, idx, p.Index(s))
	}
	// first insert wins for the stored bytes
	assert.Equal(t, []string{"bluejay", "Pixel", "9dfx"}, p.Strings())
	assert.Equal(t, p.Index("Pixel"), p.Index("pixel"))
}

func TestPool_OnlyCaseVariantsCollapse(t *testing.T) {
	for _, pair := range [][2]string{
		{"abc", "ab\u200bc"},
		{"abc", "ab\x01c"},
		{"Pixel 8", "Pixel\u00a08"},
		{"Adreno (TM) 740", "Adreno (TM) 740\x00"},
	} {
		p := New(collate.Compare)
		p.Add(pair[0])
		p.Add(pair[1])
		require.Equal(t, 2, p.Len(), "%q, %q", pair[0], pair[1])
		assert.NotEqual(t, p.Index(pair[0]), p.Index(pair[1]))
		assert.Greater(t, p.Index(pair[1]), 0)
	}
}

func TestPool_Size(t *testing.T) {
	p := New(collate.Compare)
	p.Add("0123456789")
	p.Add("ABCDE")
	p.Add("ZYX")

	// offset table, plus UTF8 null terminated strings
	expected := (4 * 4) + 1 + 10 + 1 + 5 + 1 + 3 + 1
	assert.Equal(t, 38, expected)
	assert.Equal(t, expected, p.Size())

	buf := make([]byte, p.Size())
	require.NoError(t, p.Export(buf, 0))
	assert.Equal(t, []byte{0x00, 'A', 'B', 'C', 'D', 'E', 0x00, 'Z', 'Y', 'X', 0x00}, buf[16:27])
	assert.Equal(t, []byte("0123456789\x00"), buf[27:])
}

func TestPool_SizeCountsUTF8Bytes(t *testing.T) {
	p := New(collate.Compare)
	p.Add("Größe")
	// 2 offsets, null terminator, 7 bytes of UTF-8 plus terminator
	assert.Equal(t, 8+1+7+1, p.Size())
}

func TestPool_Export(t *testing.T) {
	p := New(collate.Compare)
	p.Add("ABCD")
	p.Add("12345")
	p.Add(".f!")

	const fakeHeaderSize = 10
	exportBuf := make([]byte, fakeHeaderSize+p.Size())
	err := p.Export(exportBuf[fakeHeaderSize:], fakeHeaderSize)
	require.NoError(t, err)

	table := exportBuf[fakeHeaderSize:]
	var offsets []uint32
	for i := 0; i < 4; i++ {
		offsets = append(offsets, binary.LittleEndian.Uint32(table[i*4:]))
	}
	assert.Equal(t, []uint32{26, 27, 32, 38}, offsets)

	// actual start of string data is only 16 bytes in
	expected := []byte{
		0x00,
		0x41, 0x42, 0x43, 0x44, 0x00,
		0x31, 0x32, 0x33, 0x34, 0x35, 0x00,
		0x2e, 0x66, 0x21, 0x00,
	}
	assert.Equal(t, expected, table[16:])

	// every offset points at the string with that index
	for _, s := range p.Strings() {
		off := offsets[p.Index(s)]
		end := off + uint32(len(s))
		assert.Equal(t, s, string(exportBuf[off:end]))
		assert.Equal(t, byte(0), exportBuf[end])
	}
	assert.Equal(t, byte(0), exportBuf[offsets[0]])
}

func TestPool_ExportShortBuffer(t *testing.T) {
	p := New(collate.Compare)
	p.Add("abc")
	err := p.Export(make([]byte, p.Size()-1), 0)
	assert.Error(t, err)
}
