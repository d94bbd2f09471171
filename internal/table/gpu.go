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
	// name index, min API, device id, vendor id, driver version
	gpuEntryWords = 5
	GpuEntrySize  = gpuEntryWords * ondisk.WordSize
)

// GpuTable is a GPU predict allow or deny list, sorted by device name.
type GpuTable struct {
	gpus *sorted.Map[record.Gpu]
}

func NewGpuTable(rule collate.Rule) *GpuTable {
	return &GpuTable{
		gpus: sorted.New[record.Gpu](rule),
	}
}

// Add adds g unless a GPU with an equal device name was added before.
// GPUs without a device name can't be ordered and are rejected.
func (t *GpuTable) Add(g record.Gpu) bool {
	if g.DeviceName == "" {
		return false
	}
	return t.gpus.Add(g.Key(), g)
}

// Index returns the position of g in the table, or -1.
func (t *GpuTable) Index(g record.Gpu) int {
	if g.DeviceName == "" {
		return -1
	}
	return t.gpus.Index(g.Key())
}

func (t *GpuTable) Count() uint32 {
	return uint32(t.gpus.Len())
}

func (t *GpuTable) Size() int {
	return t.gpus.Len() * GpuEntrySize
}

// Export writes the table to buf and returns the number of records
// written.  GPUs whose name doesn't resolve are skipped.
func (t *GpuTable) Export(buf []byte, strings StringIndexer) (int, error) {
	words := ondisk.NewWords(buf)
	written := 0
	for _, g := range t.gpus.All() {
		nameIndex := strings.Index(g.DeviceName)
		if nameIndex < 0 {
			continue
		}
		err := words.SetRecord(written*gpuEntryWords,
			uint32(nameIndex),
			uint32(g.MinApi),
			g.DeviceId,
			g.VendorId,
			g.DriverVersion,
		)
		if err != nil {
			return written, fmt.Errorf("gpu %q: %w", g.DeviceName, err)
		}
		written++
	}
	return written, nil
}
