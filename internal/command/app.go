// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/config"
	"github.com/xpctl/xpctl/internal/log"
	"github.com/xpctl/xpctl/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the xpctl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing user config file is normal.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("user config not loaded: err=%v", err)
		config.Config = config.Type{}
	}
	cfg.Namespace = ns
	config.Config.Namespace = ns

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "xpctl",
		Usage: "Experiment Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "xpctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		createCommandBuilder(meta),
		lsCommandBuilder(meta),
		useCommandBuilder(meta),
		cpCommandBuilder(meta),
		rmCommandBuilder(meta),
		mvCommandBuilder(meta),
		configCommandBuilder(meta),
		diffCommandBuilder(meta),
		labelCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	sortFlags(app.Commands)

	return app, nil
}

func sortFlags(cmds []*cli.Command) {
	for _, cmd := range cmds {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
		sortFlags(cmd.Commands)
	}
}
