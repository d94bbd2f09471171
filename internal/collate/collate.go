// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package collate defines the string orderings used by the sorted
// tables of a list file.
//
// Brand, device and GPU name strings are ordered by Compare: strings
// starting with a letter sort first, then strings starting with a digit,
// then everything else.  Within each group strings sort
// case-insensitively with the root collation, and strings that differ
// only by case are equal.
// The runtime library relies on this order to binary search the string
// and device tables.
package collate

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	textcollate "golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collators are not safe for concurrent use, so each comparison borrows
// one from the pool.
var collators = sync.Pool{
	New: func() any {
		return textcollate.New(language.Und, textcollate.IgnoreCase)
	},
}

// Rule is a total order over strings, returning a negative number when
// a sorts before b, zero when they are equal and a positive number
// otherwise.
type Rule func(a, b string) int

type bucket int

const (
	bucketLetter bucket = iota
	bucketDigit
	bucketOther
)

func classify(s string) bucket {
	r, _ := utf8.DecodeRuneInString(s)
	r = unicode.ToLower(r)
	switch {
	case r >= 'a' && r <= 'z':
		return bucketLetter
	case r >= '0' && r <= '9':
		return bucketDigit
	default:
		return bucketOther
	}
}

// Compare orders a and b by the bucket of their first character and
// then case-insensitively.  Both strings must be non-empty.
func Compare(a, b string) int {
	if a == "" || b == "" {
		panic("collate: Compare called with an empty string")
	}
	ba, bb := classify(a), classify(b)
	if ba != bb {
		if ba < bb {
			return -1
		}
		return 1
	}
	return Fold(a, b)
}

// Equal reports whether a and b compare equal under Compare.
func Equal(a, b string) bool {
	return Compare(a, b) == 0
}

// Fold compares a and b case-insensitively using the root (CLDR)
// collation, where punctuation and symbols sort before digits and
// digits before letters.  The collation also ignores control,
// zero-width and width differences; strings it considers equal are
// ordered by their lower-cased bytes, so only case variants are equal.
func Fold(a, b string) int {
	c := collators.Get().(*textcollate.Collator)
	defer collators.Put(c)
	if n := c.CompareString(a, b); n != 0 {
		return n
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Lexical is plain byte-wise string order.  The SoC and driver
// fingerprint tables are sorted with it rather than with Compare.
func Lexical(a, b string) int {
	return strings.Compare(a, b)
}

var (
	_ Rule = Compare
	_ Rule = Lexical
)
