// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package vkqlist

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/vkqlist/internal/collate"
	"github.com/bpowers/vkqlist/internal/datafile"
	"github.com/bpowers/vkqlist/internal/format"
	"github.com/bpowers/vkqlist/internal/ondisk"
	"github.com/bpowers/vkqlist/internal/stringpool"
	"github.com/bpowers/vkqlist/internal/table"
	"github.com/bpowers/vkqlist/record"
)

var (
	// ErrNoProject is returned when Lists has no Project.
	ErrNoProject = errors.New("no project loaded")
	// ErrEmptyDeviceList is returned when Lists has no device allow
	// list entries.
	ErrEmptyDeviceList = errors.New("device allow list is empty")
)

// exporter holds the tables for one encode.  Nothing in it outlives the
// call that created it.
type exporter struct {
	logger  *slog.Logger
	version format.Version
	project record.Project

	strings     *stringpool.Pool
	devices     *table.DeviceTable
	gpuAllow    *table.GpuTable
	gpuDeny     *table.GpuTable
	driverAllow *table.DriverTable
	driverDeny  *table.DriverTable
}

func newExporter(lists record.Lists, opts options) (*exporter, error) {
	if lists.Project == nil {
		return nil, ErrNoProject
	}
	if len(lists.DeviceAllow) == 0 {
		return nil, ErrEmptyDeviceList
	}
	if _, err := format.NewHeader(opts.version); err != nil {
		return nil, err
	}

	e := &exporter{
		logger:      opts.logger,
		version:     opts.version,
		project:     *lists.Project,
		strings:     stringpool.New(collate.Compare),
		devices:     table.NewDeviceTable(collate.Compare),
		gpuAllow:    table.NewGpuTable(collate.Compare),
		gpuDeny:     table.NewGpuTable(collate.Compare),
		driverAllow: table.NewDriverTable(),
		driverDeny:  table.NewDriverTable(),
	}

	withDrivers := e.version.SupportsDrivers()
	if !withDrivers && (len(lists.DriverAllow) > 0 || len(lists.DriverDeny) > 0) {
		e.logger.Warn("format has no driver tables, ignoring driver lists",
			"format", e.version,
			"driverAllow", len(lists.DriverAllow),
			"driverDeny", len(lists.DriverDeny))
	}

	e.addStrings(lists, withDrivers)

	for _, d := range lists.DeviceAllow {
		e.devices.Add(d)
	}
	e.addGpus(e.gpuAllow, lists.GpuAllow, "gpuAllow")
	e.addGpus(e.gpuDeny, lists.GpuDeny, "gpuDeny")
	if withDrivers {
		for _, fp := range lists.DriverAllow {
			e.driverAllow.AddFingerprint(fp.Soc, fp.Fingerprint)
		}
		for _, fp := range lists.DriverDeny {
			e.driverDeny.AddFingerprint(fp.Soc, fp.Fingerprint)
		}
	}
	e.driverAllow.Finalize()
	e.driverDeny.Finalize()

	return e, nil
}

// addStrings fills the string table with every string a table entry can
// refer to.  When strings differ only by case, the first one added is
// the one stored.
func (e *exporter) addStrings(lists record.Lists, withDrivers bool) {
	for _, g := range lists.GpuDeny {
		e.strings.Add(g.DeviceName)
	}
	for _, g := range lists.GpuAllow {
		e.strings.Add(g.DeviceName)
	}
	if withDrivers {
		for _, fp := range lists.DriverAllow {
			e.strings.Add(fp.Soc)
			e.strings.Add(fp.Fingerprint)
		}
		for _, fp := range lists.DriverDeny {
			e.strings.Add(fp.Soc)
			e.strings.Add(fp.Fingerprint)
		}
	}
	for _, d := range lists.DeviceAllow {
		e.strings.Add(d.Brand)
		e.strings.Add(d.Device)
	}
}

func (e *exporter) addGpus(t *table.GpuTable, gpus []record.Gpu, list string) {
	for _, g := range gpus {
		if g.DeviceName == "" {
			e.logger.Warn("skipping GPU without a device name",
				"list", list, "brand", g.Brand, "deviceId", g.DeviceId, "vendorId", g.VendorId)
			continue
		}
		t.Add(g)
	}
}

// Encode builds a list file from lists and returns its bytes.
func Encode(lists record.Lists, opts ...Option) ([]byte, Result, error) {
	e, err := newExporter(lists, newOptions(opts))
	if err != nil {
		return nil, Result{}, err
	}
	return e.encode()
}

// EstimateSize returns the size in bytes of the file Encode would build
// from lists, without encoding it.
func EstimateSize(lists record.Lists, opts ...Option) (int, error) {
	e, err := newExporter(lists, newOptions(opts))
	if err != nil {
		return 0, err
	}
	return e.layout().size, nil
}

// Export builds a list file from lists and writes it to path, replacing
// any existing file.  If building or writing fails, path is left
// untouched.
func Export(lists record.Lists, path string, opts ...Option) (Result, error) {
	o := newOptions(opts)
	e, err := newExporter(lists, o)
	if err != nil {
		return Result{}, err
	}
	buf, result, err := e.encode()
	if err != nil {
		return Result{}, err
	}
	if err := datafile.WriteFile(path, buf); err != nil {
		return Result{}, fmt.Errorf("datafile.WriteFile(%s): %w", path, err)
	}
	o.logger.Info("wrote list file", "path", path, "size", result.Size, "checksum", fmt.Sprintf("%016x", result.Checksum))
	return result, nil
}

func (e *exporter) encode() ([]byte, Result, error) {
	l := e.layout()
	buf := make([]byte, l.size)

	result := Result{
		Format:   e.version,
		Size:     l.size,
		Sections: l.sections(),
	}
	written := make(map[string]int)

	if err := e.strings.Export(l.slice(buf, SectionStrings), uint32(l.offset(SectionStrings))); err != nil {
		return nil, Result{}, fmt.Errorf("strings.Export: %w", err)
	}
	written[SectionStrings] = int(e.strings.Count())

	n, err := e.devices.Export(l.slice(buf, SectionDevices), e.strings)
	if err != nil {
		return nil, Result{}, fmt.Errorf("devices.Export: %w", err)
	}
	written[SectionDevices] = n

	// reserved for a per-letter index into the device list
	ondisk.NewWords(l.slice(buf, SectionShortcuts)).Zero()

	if l.present(SectionGpuAllow) {
		n, err := e.gpuAllow.Export(l.slice(buf, SectionGpuAllow), e.strings)
		if err != nil {
			return nil, Result{}, fmt.Errorf("gpuAllow.Export: %w", err)
		}
		written[SectionGpuAllow] = n
	}
	if l.present(SectionGpuDeny) {
		n, err := e.gpuDeny.Export(l.slice(buf, SectionGpuDeny), e.strings)
		if err != nil {
			return nil, Result{}, fmt.Errorf("gpuDeny.Export: %w", err)
		}
		written[SectionGpuDeny] = n
	}
	if l.present(SectionSocAllow) {
		socs, fps, err := exportDrivers(e.driverAllow, l.slice(buf, SectionSocAllow), l.slice(buf, SectionDriverAllow), e.strings)
		if err != nil {
			return nil, Result{}, fmt.Errorf("driverAllow: %w", err)
		}
		written[SectionSocAllow], written[SectionDriverAllow] = socs, fps
	}
	if l.present(SectionSocDeny) {
		socs, fps, err := exportDrivers(e.driverDeny, l.slice(buf, SectionSocDeny), l.slice(buf, SectionDriverDeny), e.strings)
		if err != nil {
			return nil, Result{}, fmt.Errorf("driverDeny: %w", err)
		}
		written[SectionSocDeny], written[SectionDriverDeny] = socs, fps
	}

	h, err := e.header(l)
	if err != nil {
		return nil, Result{}, err
	}
	if err := h.MarshalTo(l.slice(buf, SectionHeader)); err != nil {
		return nil, Result{}, fmt.Errorf("header.MarshalTo: %w", err)
	}
	written[SectionHeader] = 1
	written[SectionShortcuts] = format.ShortcutCount

	for i := range result.Sections {
		s := &result.Sections[i]
		s.Written = written[s.Name]
		e.logger.Debug("section", "name", s.Name, "offset", s.Offset, "size", s.Size, "count", s.Count, "written", s.Written)
		if s.Written < s.Count {
			e.logger.Warn("records dropped from section: strings missing from string table",
				"name", s.Name, "count", s.Count, "written", s.Written)
		}
	}
	result.Checksum = farm.Fingerprint64(buf)

	return buf, result, nil
}

func exportDrivers(t *table.DriverTable, socBuf, fpBuf []byte, strings table.StringIndexer) (socs, fps int, err error) {
	socs, err = t.ExportSocTable(socBuf, strings)
	if err != nil {
		return 0, 0, fmt.Errorf("ExportSocTable: %w", err)
	}
	_, fps, err = t.ExportFingerprintTable(fpBuf, strings)
	if err != nil {
		return 0, 0, fmt.Errorf("ExportFingerprintTable: %w", err)
	}
	return socs, fps, nil
}

// header fills in the header from the layout.  Counts are the logical
// table counts, which don't account for records dropped at export.
func (e *exporter) header(l *layout) (*format.Header, error) {
	h, err := format.NewHeader(e.version)
	if err != nil {
		return nil, err
	}
	h.ListVersion = e.project.ListVersion
	h.MinFutureApi = e.project.MinFutureApi

	h.StringCount = e.strings.Count()
	h.DeviceCount = e.devices.Count()
	h.GpuAllowCount = e.gpuAllow.Count()
	h.GpuDenyCount = e.gpuDeny.Count()
	if l.present(SectionSocAllow) {
		h.SocAllowCount = e.driverAllow.SocCount()
		h.DriverAllowCount = e.driverAllow.FingerprintCount()
	}
	if l.present(SectionSocDeny) {
		h.SocDenyCount = e.driverDeny.SocCount()
		h.DriverDenyCount = e.driverDeny.FingerprintCount()
	}

	h.StringOffset = uint32(l.offset(SectionStrings))
	h.DeviceOffset = uint32(l.offset(SectionDevices))
	h.ShortcutOffset = uint32(l.offset(SectionShortcuts))
	h.GpuAllowOffset = uint32(l.offset(SectionGpuAllow))
	h.GpuDenyOffset = uint32(l.offset(SectionGpuDeny))
	h.SocAllowOffset = uint32(l.offset(SectionSocAllow))
	h.DriverAllowOffset = uint32(l.offset(SectionDriverAllow))
	h.SocDenyOffset = uint32(l.offset(SectionSocDeny))
	h.DriverDenyOffset = uint32(l.offset(SectionDriverDeny))

	return h, nil
}

// Strings returns the strings Encode would store in the string table,
// in table order.  The null string at index 0 is not included.
func Strings(lists record.Lists, opts ...Option) ([]string, error) {
	e, err := newExporter(lists, newOptions(opts))
	if err != nil {
		return nil, err
	}
	return e.strings.Strings(), nil
}
