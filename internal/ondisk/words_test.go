// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ondisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	const wordLen = 12
	buf := make([]byte, wordLen*WordSize+3)
	w := NewWords(buf)
	require.Equal(t, wordLen, w.Len())

	err := w.Set(wordLen, 0)
	require.Error(t, err)
	_, err = w.Get(wordLen + 1)
	require.Error(t, err)
	require.Error(t, w.Set(-1, 0))

	for i := 0; i < wordLen; i++ {
		require.NoError(t, w.Set(i, uint32(i*2)))
	}
	for i := 0; i < wordLen; i++ {
		v, err := w.Get(i)
		require.NoError(t, err)
		require.Equal(t, uint32(i*2), v)
	}
}

func TestWords_LittleEndian(t *testing.T) {
	buf := make([]byte, 8)
	w := NewWords(buf)
	require.NoError(t, w.Set(1, 0x11223344))
	assert.Equal(t, []byte{0, 0, 0, 0, 0x44, 0x33, 0x22, 0x11}, buf)
}

func TestWords_SetRecord(t *testing.T) {
	buf := make([]byte, 5*WordSize)
	w := NewWords(buf)
	require.NoError(t, w.SetRecord(1, 7, 8, 9))
	require.Error(t, w.SetRecord(3, 1, 2, 3))
	require.Error(t, w.SetRecord(-1, 1))

	for i, want := range []uint32{0, 7, 8, 9, 0} {
		v, err := w.Get(i)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	w.Zero()
	assert.Equal(t, make([]byte, 5*WordSize), buf)
}
