// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/meta"
)

// rmCommandAction deletes every named experiment. Failures do not stop the
// remaining deletions and are reported together.
func rmCommandAction(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	var errs []error
	for _, name := range names {
		if err := m.DeleteExperiment(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// rmCommandBuilder constructs the cli.Command for "rm".
func rmCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "delete experiments and their directories",
		UsageText: "xpctl rm NAME...",
		Action:    rmCommandAction,
		Meta:      meta,
	}).Build()
}
