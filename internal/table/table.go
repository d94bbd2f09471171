// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package table encodes the fixed-width record tables of a list file.
//
// Every table is a flat array of little-endian uint32 fields.  Strings
// are stored as indexes into the file's string table, resolved through
// a StringIndexer when the table is exported.  Records whose strings
// can't be resolved are left out of the exported table, so an export
// may write fewer records than the table's Count; callers compare the
// returned written count against Count to detect that.
package table

// StringIndexer resolves strings to string table indexes: 0 for the null
// string, a positive index for pooled strings and a negative value for
// strings that aren't in the pool.
type StringIndexer interface {
	Index(s string) int
}

type stringSet map[string]struct{}

func (set stringSet) Add(s string) {
	set[s] = struct{}{}
}
