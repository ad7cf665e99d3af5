// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/meta"
)

// cpCommandAction copies SRC to DST. With a single argument the active
// experiment is the source.
func cpCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	var src, dst string
	if len(args) == 1 {
		if src, err = TargetExperiment(cmd, m); err != nil {
			return err
		}
		dst = args[0]
	} else {
		src, dst = args[0], args[1]
	}

	if err := m.CopyExperiment(src, dst); err != nil {
		return err
	}

	if cmd.Bool("use") {
		if err := m.SetActiveExperiment(dst); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.Root().Writer, m.ExperimentDir(dst))
	return nil
}

// cpCommandBuilder constructs the cli.Command for "cp".
func cpCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "cp",
		Aliases:   []string{"copy"},
		Usage:     "copy an experiment, directory included",
		UsageText: "xpctl cp [SRC] DST [--use]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "use",
				Aliases: []string{"u"},
				Usage:   "make the copy active",
			},
		},
		Action: cpCommandAction,
		Meta:   meta,
	}).Build()
}
