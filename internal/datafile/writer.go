// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package datafile writes finished list files to disk.
package datafile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const filePerm = 0644

// WriteFile writes data to path, replacing any existing file.  The data
// is written to a temporary file in the same directory and renamed into
// place, so a failed write never leaves a partial file at path.
func WriteFile(path string, data []byte) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "vkqlist.*.tmp")
	if err != nil {
		return fmt.Errorf("CreateTemp failed (may need permissions for dir %q): %w", dir, err)
	}
	tmpPath := f.Name()
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := writeAll(f, data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("f.Sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("f.Close: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("os.Chmod(%o): %w", filePerm, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}
	committed = true

	return nil
}

func writeAll(w io.Writer, data []byte) error {
	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("write: short write of %d (wanted %d)", n, len(data))
	}
	return nil
}
