// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package record defines the allow and deny list entries that are
// packed into a list file.
package record

// Device is a device allow list entry, matched against Build.BRAND and
// Build.DEVICE on the device.
type Device struct {
	Brand  string
	Device string
	// MinApi is the minimum Android API level required to recommend
	// Vulkan, 0 for any.
	MinApi int
	// DriverVersion is the minimum packed Vulkan driver version, 0 for
	// any.
	DriverVersion uint32
}

// Key identifies a device; two devices with equal keys are duplicates.
func (d Device) Key() string {
	return d.Brand + "," + d.Device
}

// Gpu is a GPU predict allow or deny list entry.
type Gpu struct {
	// Brand is informational only and isn't part of the key.
	Brand         string
	DeviceName    string
	DeviceId      uint32
	VendorId      uint32
	MinApi        int
	DriverVersion uint32
}

// Key identifies a GPU.  GPUs from different brands with the same
// device name are duplicates.
func (g Gpu) Key() string {
	return g.DeviceName
}

// DriverFingerprint associates a GL driver fingerprint with a SoC.
type DriverFingerprint struct {
	Soc         string
	Fingerprint string
}

// Project holds the list-wide values written to the file header.
type Project struct {
	// ListVersion is the version of the list data, treated like an app
	// versionCode.
	ListVersion uint32
	// MinFutureApi is the minimum API level an unrecognized device must
	// run for Vulkan to be recommended.
	MinFutureApi int32
}

// Lists is everything that goes into one list file.
type Lists struct {
	Project     *Project
	DeviceAllow []Device
	GpuAllow    []Gpu
	GpuDeny     []Gpu
	DriverAllow []DriverFingerprint
	DriverDeny  []DriverFingerprint
}
