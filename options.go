// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package vkqlist

import (
	"log/slog"

	"github.com/bpowers/vkqlist/internal/format"
	"github.com/bpowers/vkqlist/internal/logger"
)

// FormatVersion is a revision of the file layout.
type FormatVersion = format.Version

const (
	// FormatV1 files hold the device and GPU lists.
	FormatV1 = format.V1
	// FormatV2 files add the SoC and driver fingerprint lists.
	FormatV2 = format.V2
)

// ParseFormat parses a format name such as "v1" or "v2".
func ParseFormat(s string) (FormatVersion, error) {
	return format.ParseVersion(s)
}

// Option configures Encode, Export and EstimateSize.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	version format.Version
}

func newOptions(opts []Option) options {
	o := options{
		logger:  logger.Discard(),
		version: format.Current,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets an optional logger for progress updates and for
// reporting records that were left out of the file.  If not provided, no
// logging output will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithFormat selects the file layout revision; the default is
// FormatV2.  V1 files have no driver fingerprint tables, so the
// driver lists are ignored.
func WithFormat(v FormatVersion) Option {
	return func(opts *options) {
		opts.version = v
	}
}
