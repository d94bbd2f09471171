// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package csvimport reads list records from CSV files.  The first row
// of each file names its columns; columns may appear in any order and
// unknown columns are ignored.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bpowers/vkqlist/record"
)

// Column names.
const (
	ColBrand         = "Brand"
	ColDevice        = "Device"
	ColMinApi        = "MinApi"
	ColMinDriver     = "MinDriver"
	ColGpuName       = "GpuName"
	ColDeviceId      = "DeviceID"
	ColVendorId      = "VendorID"
	ColSoc           = "SOC"
	ColGlFullVersion = "GlFullVersion"
)

var errMissingColumn = errors.New("missing column")

// rows wraps a csv.Reader with column lookup by header name.
type rows struct {
	r       *csv.Reader
	columns map[string]int
	row     []string
	line    int
}

func newRows(r io.Reader, required ...string) (*rows, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", errMissingColumn)
	} else if err != nil {
		return nil, err
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w %q", errMissingColumn, name)
		}
	}
	return &rows{r: cr, columns: columns}, nil
}

// next advances to the following row and reports whether there was one.
func (rs *rows) next() (bool, error) {
	row, err := rs.r.Read()
	if err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, err
	}
	rs.row = row
	rs.line, _ = rs.r.FieldPos(0)
	return true, nil
}

// field returns the named column of the current row as written, or ""
// if the row is too short or the file has no such column.
func (rs *rows) field(name string) string {
	i, ok := rs.columns[name]
	if !ok || i >= len(rs.row) {
		return ""
	}
	return rs.row[i]
}

// uint32Field parses the named column.  Blank means 0, and a 0x prefix
// means hex.
func (rs *rows) uint32Field(name string) (uint32, error) {
	s := strings.TrimSpace(rs.field(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %q: %w", rs.line, name, err)
	}
	return uint32(n), nil
}

func (rs *rows) intField(name string) (int, error) {
	s := strings.TrimSpace(rs.field(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %q: %w", rs.line, name, err)
	}
	return int(n), nil
}

// ImportDevices reads a device allow list with Brand, Device, MinApi and
// MinDriver columns.
func ImportDevices(r io.Reader) ([]record.Device, error) {
	rs, err := newRows(r, ColBrand, ColDevice)
	if err != nil {
		return nil, err
	}
	var devices []record.Device
	for {
		ok, err := rs.next()
		if err != nil {
			return nil, err
		} else if !ok {
			return devices, nil
		}
		d := record.Device{
			Brand:  rs.field(ColBrand),
			Device: rs.field(ColDevice),
		}
		if d.MinApi, err = rs.intField(ColMinApi); err != nil {
			return nil, err
		}
		if d.DriverVersion, err = rs.uint32Field(ColMinDriver); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
}

// ImportGpus reads a GPU allow or deny list with Brand, GpuName,
// DeviceID, VendorID, MinApi and MinDriver columns.
func ImportGpus(r io.Reader) ([]record.Gpu, error) {
	rs, err := newRows(r, ColGpuName)
	if err != nil {
		return nil, err
	}
	var gpus []record.Gpu
	for {
		ok, err := rs.next()
		if err != nil {
			return nil, err
		} else if !ok {
			return gpus, nil
		}
		g := record.Gpu{
			Brand:      rs.field(ColBrand),
			DeviceName: rs.field(ColGpuName),
		}
		if g.DeviceId, err = rs.uint32Field(ColDeviceId); err != nil {
			return nil, err
		}
		if g.VendorId, err = rs.uint32Field(ColVendorId); err != nil {
			return nil, err
		}
		if g.MinApi, err = rs.intField(ColMinApi); err != nil {
			return nil, err
		}
		if g.DriverVersion, err = rs.uint32Field(ColMinDriver); err != nil {
			return nil, err
		}
		gpus = append(gpus, g)
	}
}

// ImportDriverFingerprints reads a driver allow or deny list with SOC
// and GlFullVersion columns.
func ImportDriverFingerprints(r io.Reader) ([]record.DriverFingerprint, error) {
	rs, err := newRows(r, ColSoc, ColGlFullVersion)
	if err != nil {
		return nil, err
	}
	var fps []record.DriverFingerprint
	for {
		ok, err := rs.next()
		if err != nil {
			return nil, err
		} else if !ok {
			return fps, nil
		}
		fps = append(fps, record.DriverFingerprint{
			Soc:         rs.field(ColSoc),
			Fingerprint: rs.field(ColGlFullVersion),
		})
	}
}
