// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package table

import (
	"fmt"
	"slices"

	"github.com/bpowers/vkqlist/internal/collate"
	"github.com/bpowers/vkqlist/internal/ondisk"
	"github.com/bpowers/vkqlist/internal/sorted"
)

const (
	// fingerprint count, fingerprint table index, SoC string index
	socEntryWords = 3
	SocEntrySize  = socEntryWords * ondisk.WordSize
	// fingerprint string index
	fingerprintEntryWords = 1
	FingerprintEntrySize  = fingerprintEntryWords * ondisk.WordSize
)

// DriverTable groups driver fingerprints by SoC.  It exports as two
// tables: a SoC table whose entries point at a run of entries in a flat
// fingerprint table.
//
// Fingerprints are added first and Finalize orders them.  Unlike the
// device and GPU tables, SoCs and the fingerprints of each SoC are
// sorted in plain byte order (collate.Lexical), and fingerprints are
// deduplicated by exact string equality.
type DriverTable struct {
	bySoc map[string]stringSet
	socs  *sorted.Map[[]string]

	fingerprintCount int
}

func NewDriverTable() *DriverTable {
	return &DriverTable{
		bySoc: make(map[string]stringSet),
		socs:  sorted.New[[]string](collate.Lexical),
	}
}

// AddFingerprint records fingerprint for soc.  Call Finalize once all
// fingerprints have been added.
func (t *DriverTable) AddFingerprint(soc, fingerprint string) {
	set, ok := t.bySoc[soc]
	if !ok {
		set = make(stringSet)
		t.bySoc[soc] = set
	}
	set.Add(fingerprint)
}

// Finalize sorts the SoCs and their fingerprints and computes the table
// sizes.  It may be called again after more fingerprints are added.
func (t *DriverTable) Finalize() {
	t.socs = sorted.New[[]string](collate.Lexical)
	t.fingerprintCount = 0
	for soc, set := range t.bySoc {
		fingerprints := make([]string, 0, len(set))
		for fp := range set {
			fingerprints = append(fingerprints, fp)
		}
		slices.SortFunc(fingerprints, collate.Lexical)
		t.socs.Add(soc, fingerprints)
		t.fingerprintCount += len(fingerprints)
	}
}

// SocCount is the number of SoCs in the finalized table.
func (t *DriverTable) SocCount() uint32 {
	return uint32(t.socs.Len())
}

func (t *DriverTable) SocSize() int {
	return t.socs.Len() * SocEntrySize
}

// FingerprintCount is the number of fingerprints across all SoCs in the
// finalized table.
func (t *DriverTable) FingerprintCount() uint32 {
	return uint32(t.fingerprintCount)
}

func (t *DriverTable) FingerprintSize() int {
	return t.fingerprintCount * FingerprintEntrySize
}

// Socs returns the finalized SoC order.
func (t *DriverTable) Socs() []string {
	return t.socs.Keys()
}

// Fingerprints returns the finalized fingerprints of soc.
func (t *DriverTable) Fingerprints(soc string) []string {
	fps, _ := t.socs.Get(soc)
	return fps
}

// ExportSocTable writes one entry per SoC whose string resolves to a
// non-null index and returns the number of entries written.
//
// An entry's fingerprint offset is an index into the fingerprint table,
// not a byte offset.  It only advances for SoCs that are written, while
// ExportFingerprintTable writes the fingerprints of every SoC; if a SoC
// is skipped here, the offsets of the SoCs after it no longer line up
// with the fingerprint table.  Readers of existing files expect exactly
// this layout.
func (t *DriverTable) ExportSocTable(buf []byte, strings StringIndexer) (int, error) {
	words := ondisk.NewWords(buf)
	written := 0
	fingerprintOffset := 0
	for soc, fingerprints := range t.socs.All() {
		socIndex := strings.Index(soc)
		if socIndex <= 0 {
			continue
		}
		err := words.SetRecord(written*socEntryWords,
			uint32(len(fingerprints)),
			uint32(fingerprintOffset),
			uint32(socIndex),
		)
		if err != nil {
			return written, fmt.Errorf("soc %q: %w", soc, err)
		}
		written++
		fingerprintOffset += len(fingerprints)
	}
	return written, nil
}

// ExportFingerprintTable writes the fingerprints of every SoC, in SoC
// order, to buf.  Fingerprints whose string doesn't resolve are not
// written but are still included in counted, so counted may exceed
// written.
func (t *DriverTable) ExportFingerprintTable(buf []byte, strings StringIndexer) (counted, written int, err error) {
	words := ondisk.NewWords(buf)
	for soc, fingerprints := range t.socs.All() {
		for _, fp := range fingerprints {
			fpIndex := strings.Index(fp)
			if fpIndex > 0 {
				if err := words.Set(written, uint32(fpIndex)); err != nil {
					return counted, written, fmt.Errorf("soc %q fingerprint %q: %w", soc, fp, err)
				}
				written++
			}
			counted++
		}
	}
	return counted, written, nil
}
