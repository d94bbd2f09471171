// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package table

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/vkqlist/internal/collate"
	"github.com/bpowers/vkqlist/internal/stringpool"
)

func newPool(strs ...string) *stringpool.Pool {
	p := stringpool.New(collate.Compare)
	for _, s := range strs {
		p.Add(s)
	}
	return p
}

func words(t *testing.T, buf []byte) []uint32 {
	t.Helper()
	require.Zero(t, len(buf)%4)
	out := make([]uint32, len(buf)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return out
}

// indexerFunc adapts a function to a StringIndexer.
type indexerFunc func(s string) int

func (f indexerFunc) Index(s string) int {
	return f(s)
}
