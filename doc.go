// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package vkqlist packs device, GPU and driver fingerprint allow and
// deny lists into a single flat binary file.  The runtime library reads
// the file with fixed-offset loads only: every table is an array of
// little-endian uint32 records, strings are referenced by index into a
// shared string table, and the header holds the count and absolute byte
// offset of every table.
//
// Building a file is a pure function of its inputs: the same lists
// always encode to the same bytes.
package vkqlist
