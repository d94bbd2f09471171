// Copyright 2024 The vkqlist Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command vkqlist builds VkQuality list files from a project file and
// the CSV lists it names.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "vkqlist",
		Usage:     "Build VkQuality allow and deny list files",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the config file (default: $XDG_CONFIG_HOME/vkqlist/config.yaml)",
			},
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Usage:   "path to the project file",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "list file format, v1 or v2",
				Value: "v2",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "info",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			exportCmd(),
			sizeCmd(),
			orderCmd(),
		},
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
