// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/experiment"
	"github.com/xpctl/xpctl/internal/meta"
)

// useCommandAction makes NAME active. Without NAME it prints the active
// experiment.
func useCommandAction(ctx context.Context, cmd *cli.Command) error {
	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	name := cmd.Args().First()
	if name == "" {
		active, ok := m.ActiveExperiment()
		if !ok {
			return experiment.ErrNoActiveExperiment
		}
		fmt.Fprintln(cmd.Root().Writer, active)
		return nil
	}

	return m.SetActiveExperiment(name)
}

// useCommandBuilder constructs the cli.Command for "use".
func useCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "use",
		Usage:     "set or show the active experiment",
		UsageText: "xpctl use [NAME]",
		Action:    useCommandAction,
		Meta:      meta,
	}).Build()
}
