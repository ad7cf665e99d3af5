// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/meta"
)

// CommandBuilder constructs a cli.Command for xpctl subcommands using a
// consistent pattern. The builder wires metadata, adds the store flags, adds
// the tldr and output flags for listing commands, and sets up validators.
type CommandBuilder struct {
	Name      string
	Aliases   []string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Commands  []*cli.Command
	Meta      meta.Meta
	// Listing adds the attrs/filter/sort/output flags.
	Listing bool
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	cfgPath := cb.Meta.Config.Source
	ns := cb.Meta.Command()

	flags := append([]cli.Flag{}, cb.Flags...)
	flags = append(flags, NewStoreFlags(ns, cfgPath)...)
	if cb.Listing {
		flags = append(flags, newTldrFlag())
		flags = append(flags, NewGlobalFlags(ns, cfgPath)...)
	}

	cmd := &cli.Command{
		Name:      cb.Name,
		Aliases:   cb.Aliases,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags:    flags,
		Commands: cb.Commands,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: cb.Action,
	}
	return cmd
}
