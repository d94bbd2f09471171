// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package vkqlist

// Section describes one region of an encoded list file.
type Section struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	// Count is the number of entries the section was sized for.
	Count int `json:"count"`
	// Written is the number of entries actually written.  It is less
	// than Count when records refer to strings missing from the string
	// table; the unwritten tail of the section stays zero.
	Written int `json:"written"`
}

// Result summarizes an encoded list file.
type Result struct {
	Format   FormatVersion `json:"-"`
	Size     int           `json:"size"`
	Checksum uint64        `json:"checksum"`
	Sections []Section     `json:"sections"`
}

// Section returns the named section, if the file has one.
func (r Result) Section(name string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Dropped returns the total number of entries that were sized for but
// not written, across all sections.
func (r Result) Dropped() int {
	n := 0
	for _, s := range r.Sections {
		if s.Written < s.Count {
			n += s.Count - s.Written
		}
	}
	return n
}
