// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package format describes the fixed layout of a list file header.
//
// A list file generally looks like:
//
//	┌───────────────────┐
//	│ file header       │  V1: 14 words, V2: 22 words
//	├───────────────────┤
//	│ string table      │
//	├───────────────────┤
//	│ device allow list │
//	├───────────────────┤
//	│ device shortcuts  │  27 words, reserved and zero-filled
//	├───────────────────┤
//	│ gpu allow list    │  optional
//	├───────────────────┤
//	│ gpu deny list     │  optional
//	├───────────────────┤
//	│ soc allow list    │  optional, V2 only
//	│ driver allow list │
//	├───────────────────┤
//	│ soc deny list     │  optional, V2 only
//	│ driver deny list  │
//	└───────────────────┘
//
// All fields are little-endian uint32s.  Section offsets in the header
// are absolute byte offsets from the start of the file, and are 0 for
// sections that are absent.
package format

import (
	"errors"
	"fmt"

	"github.com/bpowers/vkqlist/internal/ondisk"
)

const (
	// FileIdentifier reads as "AQKV" in a little-endian dump.
	FileIdentifier = 0x564b5141

	// ShortcutCount is the number of device list shortcut entries: one
	// per letter A-Z plus one for everything else.
	ShortcutCount = 27
	ShortcutSize  = ShortcutCount * ondisk.WordSize
)

var (
	errUnknownVersion = errors.New("unknown file format version")
	errNoDriverTables = errors.New("V1 files can't hold driver fingerprint tables")
)

// Version is a revision of the file layout.
type Version int

const (
	// V1 holds the device and GPU lists only.
	V1 Version = 1
	// V2 adds the SoC and driver fingerprint lists.
	V2 Version = 2

	Current = V2
)

var versionWords = map[Version]int{
	V1: 14,
	V2: 22,
}

// ParseVersion parses "v1" or "v2".
func ParseVersion(s string) (Version, error) {
	switch s {
	case "v1", "V1", "1":
		return V1, nil
	case "v2", "V2", "2":
		return V2, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownVersion, s)
	}
}

func (v Version) String() string {
	return fmt.Sprintf("v%d", int(v))
}

// HeaderSize is the size in bytes of the header for v.
func (v Version) HeaderSize() int {
	return versionWords[v] * ondisk.WordSize
}

// SupportsDrivers reports whether v has SoC and driver tables.
func (v Version) SupportsDrivers() bool {
	return v >= V2
}

// semantic versions written to the header (0x010200 for 1.2.0)
type semver struct {
	format         uint32
	libraryMinimum uint32
}

var versionNumbers = map[Version]semver{
	V1: {format: 0x010000, libraryMinimum: 0x010000},
	V2: {format: 0x010200, libraryMinimum: 0x010200},
}

// Header is the fixed-size header at the start of a list file.
type Header struct {
	version Version

	Identifier            uint32
	FormatVersion         uint32
	LibraryMinimumVersion uint32
	ListVersion           uint32
	MinFutureApi          int32

	DeviceCount      uint32
	DriverAllowCount uint32
	DriverDenyCount  uint32
	GpuAllowCount    uint32
	GpuDenyCount     uint32
	SocAllowCount    uint32
	SocDenyCount     uint32
	StringCount      uint32

	DeviceOffset      uint32
	ShortcutOffset    uint32
	DriverAllowOffset uint32
	DriverDenyOffset  uint32
	GpuAllowOffset    uint32
	GpuDenyOffset     uint32
	SocAllowOffset    uint32
	SocDenyOffset     uint32
	StringOffset      uint32
}

// NewHeader returns a header for version v with the identifier and
// version fields filled in.
func NewHeader(v Version) (*Header, error) {
	numbers, ok := versionNumbers[v]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errUnknownVersion, int(v))
	}
	return &Header{
		version:               v,
		Identifier:            FileIdentifier,
		FormatVersion:         numbers.format,
		LibraryMinimumVersion: numbers.libraryMinimum,
	}, nil
}

func (h *Header) Version() Version {
	return h.version
}

func (h *Header) Size() int {
	return h.version.HeaderSize()
}

// fields returns the header words in on-disk order.
func (h *Header) fields() ([]uint32, error) {
	switch h.version {
	case V1:
		if h.DriverAllowCount != 0 || h.DriverDenyCount != 0 || h.SocAllowCount != 0 || h.SocDenyCount != 0 {
			return nil, errNoDriverTables
		}
		return []uint32{
			h.Identifier,
			h.FormatVersion,
			h.LibraryMinimumVersion,
			h.ListVersion,
			uint32(h.MinFutureApi),
			h.DeviceCount,
			h.GpuAllowCount,
			h.GpuDenyCount,
			h.StringCount,
			h.StringOffset,
			h.DeviceOffset,
			h.ShortcutOffset,
			h.GpuAllowOffset,
			h.GpuDenyOffset,
		}, nil
	case V2:
		return []uint32{
			h.Identifier,
			h.FormatVersion,
			h.LibraryMinimumVersion,
			h.ListVersion,
			uint32(h.MinFutureApi),
			h.DeviceCount,
			h.DriverAllowCount,
			h.DriverDenyCount,
			h.GpuAllowCount,
			h.GpuDenyCount,
			h.SocAllowCount,
			h.SocDenyCount,
			h.StringCount,
			h.DeviceOffset,
			h.ShortcutOffset,
			h.DriverAllowOffset,
			h.DriverDenyOffset,
			h.GpuAllowOffset,
			h.GpuDenyOffset,
			h.SocAllowOffset,
			h.SocDenyOffset,
			h.StringOffset,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnknownVersion, int(h.version))
	}
}

// MarshalTo writes the header to the start of b.
func (h *Header) MarshalTo(b []byte) error {
	fields, err := h.fields()
	if err != nil {
		return err
	}
	if len(b) < len(fields)*ondisk.WordSize {
		return fmt.Errorf("header buffer too short: %d < %d", len(b), len(fields)*ondisk.WordSize)
	}
	words := ondisk.NewWords(b[:len(fields)*ondisk.WordSize])
	return words.SetRecord(0, fields...)
}
