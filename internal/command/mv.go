// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/meta"
)

// mvCommandAction renames OLD to NEW, or the active experiment to NEW when
// only one name is given.
func mvCommandAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return m.RenameActiveExperiment(args[0])
	}
	return m.RenameExperiment(args[0], args[1])
}

// mvCommandBuilder constructs the cli.Command for "mv".
func mvCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "mv",
		Aliases:   []string{"rename"},
		Usage:     "rename an experiment",
		UsageText: "xpctl mv [OLD] NEW",
		Action:    mvCommandAction,
		Meta:      meta,
	}).Build()
}
