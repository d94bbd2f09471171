// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command gen-testdata writes a synthetic project, with random CSV
// lists, for benchmarking and manual testing of vkqlist.
package main

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/bpowers/vkqlist/internal/csvimport"
	"github.com/bpowers/vkqlist/internal/project"
)

var brands = []string{"google", "samsung", "xiaomi", "oneplus", "motorola", "fakefone", "9dfx", "Nothing", "oppo", "vivo"}

var socs = []string{"SM8550", "SM8650", "SM7325", "MT6983", "MT6895", "Tensor G2", "Tensor G3", "Exynos 2200"}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		_, _ = crand.Read(seedBytes[:])
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func deviceRows(rng *rand.Rand, n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			brands[rng.Intn(len(brands))],
			fmt.Sprintf("dev%x", rng.Uint32()),
			strconv.Itoa(29 + rng.Intn(7)),
			strconv.Itoa(rng.Intn(4) << 22),
		})
	}
	return rows
}

func gpuRows(rng *rand.Rand, n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			brands[rng.Intn(len(brands))],
			fmt.Sprintf("Adreno (TM) %d", 600+rng.Intn(150)),
			fmt.Sprintf("0x%x", rng.Uint32()),
			"0x5143",
			strconv.Itoa(29 + rng.Intn(7)),
			"0",
		})
	}
	return rows
}

func driverRows(rng *rand.Rand, n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			socs[rng.Intn(len(socs))],
			fmt.Sprintf("OpenGL ES 3.2 V@0%d.%d (GIT@%08x)", 500+rng.Intn(300), rng.Intn(60), rng.Uint32()),
		})
	}
	return rows
}

func generate(dir string, rng *rand.Rand, nDevices, nGpus, nDrivers int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	deviceHeader := []string{csvimport.ColBrand, csvimport.ColDevice, csvimport.ColMinApi, csvimport.ColMinDriver}
	gpuHeader := []string{csvimport.ColBrand, csvimport.ColGpuName, csvimport.ColDeviceId, csvimport.ColVendorId, csvimport.ColMinApi, csvimport.ColMinDriver}
	driverHeader := []string{csvimport.ColSoc, csvimport.ColGlFullVersion}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"device_allow.csv", deviceHeader, deviceRows(rng, nDevices)},
		{"gpu_allow.csv", gpuHeader, gpuRows(rng, nGpus)},
		{"gpu_deny.csv", gpuHeader, gpuRows(rng, nGpus/4)},
		{"driver_allow.csv", driverHeader, driverRows(rng, nDrivers)},
		{"driver_deny.csv", driverHeader, driverRows(rng, nDrivers/4)},
	}
	for _, f := range files {
		if err := writeCSV(filepath.Join(dir, f.name), f.header, f.rows); err != nil {
			return fmt.Errorf("writeCSV(%s): %w", f.name, err)
		}
	}

	return project.WriteFile(filepath.Join(dir, "project.json"), &project.File{
		ListVersion:     1,
		MinFutureApi:    35,
		DeviceAllowList: "device_allow.csv",
		GpuAllowList:    "gpu_allow.csv",
		GpuDenyList:     "gpu_deny.csv",
		DriverAllowList: "driver_allow.csv",
		DriverDenyList:  "driver_deny.csv",
	})
}

func main() {
	app := &cli.Command{
		Name:      "gen-testdata",
		Usage:     "Write a synthetic vkqlist project",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "devices", Value: 20000},
			&cli.IntFlag{Name: "gpus", Value: 400},
			&cli.IntFlag{Name: "drivers", Value: 2000},
			&cli.Int64Flag{Name: "seed", Usage: "random seed, 0 for a random one"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				return cli.Exit("error: DIR is required", 1)
			}
			rng := newRand(cmd.Int64("seed"))
			return generate(dir, rng, cmd.Int("devices"), cmd.Int("gpus"), cmd.Int("drivers"))
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
