// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/vkqlist/internal/collate"
	"github.com/bpowers/vkqlist/record"
)

func TestDeviceTable_Export(t *testing.T) {
	const (
		brandA  = "APhoneBrand"
		deviceA = "APhoneDevice"
		brandB  = "BPhoneBrand"
		deviceB = "BPhoneDevice"
	)
	pool := newPool(brandB, deviceB, brandA, deviceA)

	recordA := record.Device{Brand: brandA, Device: deviceA, MinApi: 30, DriverVersion: 0x1000}
	recordB := record.Device{Brand: brandB, Device: deviceB, MinApi: 31, DriverVersion: 0x2000}

	devices := NewDeviceTable(collate.Compare)
	require.True(t, devices.Add(recordB))
	require.True(t, devices.Add(recordA))

	tableSize := devices.Size()
	require.Equal(t, 32, tableSize)
	assert.Equal(t, 0, devices.Index(recordA))
	assert.Equal(t, 1, devices.Index(recordB))

	buf := make([]byte, tableSize)
	written, err := devices.Export(buf, pool)
	require.NoError(t, err)
	require.Equal(t, 2, written)

	assert.Equal(t, []uint32{
		1, 2, 30, 0x1000,
		3, 4, 31, 0x2000,
	}, words(t, buf))
}

func TestDeviceTable_DuplicateKeys(t *testing.T) {
	devices := NewDeviceTable(collate.Compare)
	require.True(t, devices.Add(record.Device{Brand: "google", Device: "raven", MinApi: 34}))
	require.False(t, devices.Add(record.Device{Brand: "Google", Device: "RAVEN", MinApi: 30}))
	require.True(t, devices.Add(record.Device{Brand: "google", Device: "bluejay", MinApi: 34}))
	assert.Equal(t, uint32(2), devices.Count())
	assert.Equal(t, 2*DeviceEntrySize, devices.Size())

	pool := newPool("google", "raven", "bluejay")
	buf := make([]byte, devices.Size())
	written, err := devices.Export(buf, pool)
	require.NoError(t, err)
	require.Equal(t, 2, written)
	// the first raven wins, and bluejay sorts first
	assert.Equal(t, []uint32{
		2, 1, 34, 0,
		2, 3, 34, 0,
	}, words(t, buf))
}

func TestDeviceTable_NullDeviceString(t *testing.T) {
	devices := NewDeviceTable(collate.Compare)
	devices.Add(record.Device{Brand: "fakefone", Device: "none", MinApi: 33, DriverVersion: 256})
	pool := newPool("fakefone")

	buf := make([]byte, devices.Size())
	written, err := devices.Export(buf, pool)
	require.NoError(t, err)
	require.Equal(t, 1, written)
	assert.Equal(t, []uint32{1, 0, 33, 256}, words(t, buf))
}

func TestDeviceTable_DropsUnresolvedRecords(t *testing.T) {
	devices := NewDeviceTable(collate.Compare)
	devices.Add(record.Device{Brand: "alpha", Device: "one", MinApi: 1})
	devices.Add(record.Device{Brand: "beta", Device: "two", MinApi: 2})
	devices.Add(record.Device{Brand: "gamma", Device: "three", MinApi: 3})

	// "two" is missing from the pool
	pool := newPool("alpha", "one", "beta", "gamma", "three")

	// the size is computed from the logical count
	require.Equal(t, 3*DeviceEntrySize, devices.Size())
	buf := make([]byte, devices.Size())
	written, err := devices.Export(buf, pool)
	require.NoError(t, err)
	require.Equal(t, 2, written)
	assert.Equal(t, uint32(3), devices.Count())

	alpha, gamma, one, three := pool.Index("alpha"), pool.Index("gamma"), pool.Index("one"), pool.Index("three")
	assert.Equal(t, []uint32{
		uint32(alpha), uint32(one), 1, 0,
		uint32(gamma), uint32(three), 3, 0,
		// the dropped record's slot is never written
		0, 0, 0, 0,
	}, words(t, buf))
}

func TestDeviceTable_ExportShortBuffer(t *testing.T) {
	devices := NewDeviceTable(collate.Compare)
	devices.Add(record.Device{Brand: "a", Device: "b"})
	devices.Add(record.Device{Brand: "c", Device: "d"})

	buf := make([]byte, DeviceEntrySize)
	written, err := devices.Export(buf, newPool("a", "b", "c", "d"))
	assert.Error(t, err)
	assert.Equal(t, 1, written)
}

func TestDeviceTable_AllLookupsMiss(t *testing.T) {
	devices := NewDeviceTable(collate.Compare)
	devices.Add(record.Device{Brand: "a", Device: "b"})

	missing := indexerFunc(func(string) int { return -1 })
	buf := make([]byte, devices.Size())
	written, err := devices.Export(buf, missing)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
	assert.Equal(t, make([]byte, DeviceEntrySize), buf)
}
