// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/codec"
	"github.com/xpctl/xpctl/internal/differ"
	"github.com/xpctl/xpctl/internal/meta"
)

// diffCommandAction compares the configs of A and B, or of the active
// experiment and A when only one name is given.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	left, right := "", args[0]
	if len(args) == 2 {
		left, right = args[0], args[1]
	} else if left, err = TargetExperiment(cmd, m); err != nil {
		return err
	}

	docs := make([][]byte, 0, 2)
	for _, name := range []string{left, right} {
		cfg, err := m.GetExperimentConfig(name)
		if err != nil {
			return err
		}
		data, err := m.Codec().Marshal(cfg, codec.FormatJSON)
		if err != nil {
			return err
		}
		docs = append(docs, data)
	}

	w := cmd.Root().Writer
	modified, err := differ.Diff(docs[0], docs[1], differ.Options{
		Ignore:         cmd.StringSlice("ignore"),
		Coloring:       cmd.Bool("color"),
		ShowArrayIndex: cmd.Bool("index"),
	}, w)
	if err != nil {
		return err
	}
	if !modified {
		fmt.Fprintln(w, "The configs are identical.")
	}
	return nil
}

// diffCommandBuilder constructs the cli.Command for "diff".
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "diff",
		Usage:     "compare two experiment configs",
		UsageText: "xpctl diff [A] B [--ignore KEY]...",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "ignore",
				Aliases: []string{"i"},
				Usage:   "top-level config key to leave out of the comparison",
			},
			&cli.BoolFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "color added and removed values",
				Value:   colorDefault(),
			},
			&cli.BoolFlag{
				Name:  "index",
				Usage: "show array indexes",
			},
		},
		Action: diffCommandAction,
		Meta:   meta,
	}).Build()
}
