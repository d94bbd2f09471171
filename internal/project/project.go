// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package project reads and writes project files.  A project file is a
// JSON document, extended with comments and trailing commas, naming the
// header values of a list file and the CSV file each list is imported
// from.  CSV paths are relative to the directory holding the project
// file.
package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"

	"github.com/bpowers/vkqlist/internal/csvimport"
	"github.com/bpowers/vkqlist/internal/datafile"
	"github.com/bpowers/vkqlist/record"
)

var errNoDeviceList = errors.New("project names no device allow list")

// File is the contents of a project file.
type File struct {
	ListVersion  uint32 `json:"listVersion"`
	MinFutureApi int32  `json:"minFutureApi"`

	DeviceAllowList string `json:"deviceAllowList"`
	GpuAllowList    string `json:"gpuAllowList,omitempty"`
	GpuDenyList     string `json:"gpuDenyList,omitempty"`
	DriverAllowList string `json:"driverAllowList,omitempty"`
	DriverDenyList  string `json:"driverDenyList,omitempty"`

	// dir is where relative list paths are resolved from.
	dir string
}

// Parse strips comments and trailing commas from data and decodes the
// result.  Relative list paths are resolved against dir.
func Parse(data []byte, dir string) (*File, error) {
	var f File
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	if f.DeviceAllowList == "" {
		return nil, errNoDeviceList
	}
	f.dir = dir
	return &f, nil
}

// ReadFile reads and parses the project file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFile writes f to path as indented JSON.
func WriteFile(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}
	return datafile.WriteFile(path, append(data, '\n'))
}

// Project returns the header values.
func (f *File) Project() *record.Project {
	return &record.Project{
		ListVersion:  f.ListVersion,
		MinFutureApi: f.MinFutureApi,
	}
}

func (f *File) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.dir, path)
}

// Lists imports every list the project names.  The GPU and driver
// lists are optional: a blank path or a file that doesn't exist is an
// empty list.  The device allow list file must exist.
func (f *File) Lists() (record.Lists, error) {
	lists := record.Lists{Project: f.Project()}

	var err error
	if lists.DeviceAllow, err = importFile(f.resolve(f.DeviceAllowList), false, csvimport.ImportDevices); err != nil {
		return record.Lists{}, err
	}
	if lists.GpuAllow, err = importFile(f.resolve(f.GpuAllowList), true, csvimport.ImportGpus); err != nil {
		return record.Lists{}, err
	}
	if lists.GpuDeny, err = importFile(f.resolve(f.GpuDenyList), true, csvimport.ImportGpus); err != nil {
		return record.Lists{}, err
	}
	if lists.DriverAllow, err = importFile(f.resolve(f.DriverAllowList), true, csvimport.ImportDriverFingerprints); err != nil {
		return record.Lists{}, err
	}
	if lists.DriverDeny, err = importFile(f.resolve(f.DriverDenyList), true, csvimport.ImportDriverFingerprints); err != nil {
		return record.Lists{}, err
	}
	return lists, nil
}

func importFile[T any](path string, optional bool, parse func(r io.Reader) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if optional && errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	records, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
