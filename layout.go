// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package vkqlist

import (
	"github.com/bpowers/vkqlist/internal/format"
	"github.com/bpowers/vkqlist/internal/table"
)

// Section names, in file order.
const (
	SectionHeader      = "header"
	SectionStrings     = "strings"
	SectionDevices     = "deviceAllow"
	SectionShortcuts   = "shortcuts"
	SectionGpuAllow    = "gpuAllow"
	SectionGpuDeny     = "gpuDeny"
	SectionSocAllow    = "socAllow"
	SectionDriverAllow = "driverAllow"
	SectionSocDeny     = "socDeny"
	SectionDriverDeny  = "driverDeny"
)

type span struct {
	name   string
	offset int
	size   int
	count  int
}

// layout places each present section directly after the previous one.
// Sections aren't padded; every section size is a whole number of words
// except the string table.
type layout struct {
	spans []span
	size  int
}

func (l *layout) add(name string, size, count int) {
	l.spans = append(l.spans, span{name: name, offset: l.size, size: size, count: count})
	l.size += size
}

func (l *layout) find(name string) (span, bool) {
	for _, s := range l.spans {
		if s.name == name {
			return s, true
		}
	}
	return span{}, false
}

func (l *layout) present(name string) bool {
	_, ok := l.find(name)
	return ok
}

// offset returns the absolute offset of the named section, or 0 if it
// isn't in the file.
func (l *layout) offset(name string) int {
	s, _ := l.find(name)
	return s.offset
}

func (l *layout) slice(buf []byte, name string) []byte {
	s, ok := l.find(name)
	if !ok {
		return nil
	}
	return buf[s.offset : s.offset+s.size]
}

func (l *layout) sections() []Section {
	out := make([]Section, 0, len(l.spans))
	for _, s := range l.spans {
		out = append(out, Section{Name: s.name, Offset: s.offset, Size: s.size, Count: s.count})
	}
	return out
}

func (e *exporter) layout() *layout {
	l := &layout{}
	l.add(SectionHeader, e.version.HeaderSize(), 1)
	l.add(SectionStrings, e.strings.Size(), int(e.strings.Count()))
	l.add(SectionDevices, e.devices.Size(), int(e.devices.Count()))
	l.add(SectionShortcuts, format.ShortcutSize, format.ShortcutCount)
	if n := e.gpuAllow.Count(); n > 0 {
		l.add(SectionGpuAllow, e.gpuAllow.Size(), int(n))
	}
	if n := e.gpuDeny.Count(); n > 0 {
		l.add(SectionGpuDeny, e.gpuDeny.Size(), int(n))
	}
	if e.version.SupportsDrivers() {
		addDrivers(l, e.driverAllow, SectionSocAllow, SectionDriverAllow)
		addDrivers(l, e.driverDeny, SectionSocDeny, SectionDriverDeny)
	}
	return l
}

// addDrivers adds a SoC table and the fingerprint table it points into.
// Both are left out unless there is at least one of each.
func addDrivers(l *layout, t *table.DriverTable, socName, fpName string) {
	if t.SocCount() == 0 || t.FingerprintCount() == 0 {
		return
	}
	l.add(socName, t.SocSize(), int(t.SocCount()))
	l.add(fpName, t.FingerprintSize(), int(t.FingerprintCount()))
}
