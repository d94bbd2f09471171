// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package table

import (
	"fmt"

	"github.com/bpowers/vkqlist/internal/collate"
	"github.com/bpowers/vkqlist/internal/ondisk"
	"github.com/bpowers/vkqlist/internal/sorted"
	"github.com/bpowers/vkqlist/record"
)

const (
	// brand index, device index, min API, min driver version
	deviceEntryWords = 4
	DeviceEntrySize  = deviceEntryWords * ondisk.WordSize
)

// DeviceTable is the device allow list, sorted by "Brand,Device".
type DeviceTable struct {
	devices *sorted.Map[record.Device]
}

func NewDeviceTable(rule collate.Rule) *DeviceTable {
	return &DeviceTable{
		devices: sorted.New[record.Device](rule),
	}
}

// Add adds d unless a device with an equal key was added before.
func (t *DeviceTable) Add(d record.Device) bool {
	return t.devices.Add(d.Key(), d)
}

// Index returns the position of d in the table, or -1.
func (t *DeviceTable) Index(d record.Device) int {
	return t.devices.Index(d.Key())
}

func (t *DeviceTable) Count() uint32 {
	return uint32(t.devices.Len())
}

// Size is the size in bytes of the table assuming no records are
// dropped at export time.
func (t *DeviceTable) Size() int {
	return t.devices.Len() * DeviceEntrySize
}

// Export writes the table to buf and returns the number of records
// written.  Devices whose brand or device string doesn't resolve are
// skipped without taking up a slot.
func (t *DeviceTable) Export(buf []byte, strings StringIndexer) (int, error) {
	words := ondisk.NewWords(buf)
	written := 0
	for _, d := range t.devices.All() {
		brandIndex := strings.Index(d.Brand)
		deviceIndex := strings.Index(d.Device)
		if brandIndex < 0 || deviceIndex < 0 {
			continue
		}
		err := words.SetRecord(written*deviceEntryWords,
			uint32(brandIndex),
			uint32(deviceIndex),
			uint32(d.MinApi),
			d.DriverVersion,
		)
		if err != nil {
			return written, fmt.Errorf("device %q: %w", d.Key(), err)
		}
		written++
	}
	return written, nil
}
