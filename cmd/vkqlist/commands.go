// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/bpowers/vkqlist"
	"github.com/bpowers/vkqlist/internal/logger"
	"github.com/bpowers/vkqlist/internal/project"
	"github.com/bpowers/vkqlist/record"
)

var errNoProject = errors.New("--project is required unless set in the config file")

// job is a loaded project ready to encode.
type job struct {
	lists   record.Lists
	version vkqlist.FormatVersion
	opts    []vkqlist.Option
}

// load reads the project and its lists.
func load(cmd *cli.Command) (*job, error) {
	s := resolveSettings(cmd)
	if s.project == "" {
		return nil, errNoProject
	}
	version, err := vkqlist.ParseFormat(s.format)
	if err != nil {
		return nil, err
	}
	log := logger.New(cmd.Root().ErrWriter, s.logLevel)

	f, err := project.ReadFile(s.project)
	if err != nil {
		return nil, err
	}
	lists, err := f.Lists()
	if err != nil {
		return nil, err
	}
	log.Debug("loaded project",
		"path", s.project,
		"devices", len(lists.DeviceAllow),
		"gpuAllow", len(lists.GpuAllow),
		"gpuDeny", len(lists.GpuDeny),
		"driverAllow", len(lists.DriverAllow),
		"driverDeny", len(lists.DriverDeny))

	return &job{
		lists:   lists,
		version: version,
		opts:    []vkqlist.Option{vkqlist.WithLogger(log), vkqlist.WithFormat(version)},
	}, nil
}

// summary is the --json form of an export or size result.
type summary struct {
	Format   string            `json:"format"`
	Size     int               `json:"size"`
	Checksum string            `json:"checksum,omitempty"`
	Dropped  int               `json:"dropped"`
	Sections []vkqlist.Section `json:"sections,omitempty"`
}

func newSummary(r vkqlist.Result) summary {
	return summary{
		Format:   r.Format.String(),
		Size:     r.Size,
		Checksum: fmt.Sprintf("%016x", r.Checksum),
		Dropped:  r.Dropped(),
		Sections: r.Sections,
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "print the result as JSON",
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Build a list file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "path of the list file to write",
				Required: true,
			},
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			j, err := load(cmd)
			if err != nil {
				return err
			}
			out := cmd.String("out")
			result, err := vkqlist.Export(j.lists, out, j.opts...)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if cmd.Bool("json") {
				return writeJSON(w, newSummary(result))
			}
			_, err = fmt.Fprintf(w, "wrote %s (%s, %d bytes, checksum %016x)\n", out, result.Format, result.Size, result.Checksum)
			if err == nil && result.Dropped() > 0 {
				_, err = fmt.Fprintf(w, "%d records were dropped, see log for details\n", result.Dropped())
			}
			return err
		},
	}
}

func sizeCmd() *cli.Command {
	return &cli.Command{
		Name:  "size",
		Usage: "Print the size of the list file export would write",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			j, err := load(cmd)
			if err != nil {
				return err
			}
			size, err := vkqlist.EstimateSize(j.lists, j.opts...)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if cmd.Bool("json") {
				return writeJSON(w, summary{Format: j.version.String(), Size: size})
			}
			_, err = fmt.Fprintf(w, "%d\n", size)
			return err
		},
	}
}

func orderCmd() *cli.Command {
	return &cli.Command{
		Name:  "order",
		Usage: "Print the string table in sort order",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			j, err := load(cmd)
			if err != nil {
				return err
			}
			strs, err := vkqlist.Strings(j.lists, j.opts...)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if cmd.Bool("json") {
				return writeJSON(w, strs)
			}
			for i, s := range strs {
				// index 0 is the null string
				if _, err := fmt.Fprintf(w, "%d\t%s\n", i+1, s); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
