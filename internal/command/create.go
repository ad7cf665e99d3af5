// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/codec"
	"github.com/xpctl/xpctl/internal/meta"
	"github.com/xpctl/xpctl/internal/sample"
)

// createCommandAction creates an experiment, optionally seeded from a config
// file, labelled and made active. It prints the new experiment directory.
func createCommandAction(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	var cfg *sample.TrainingConfig
	if from := cmd.String("from"); from != "" {
		c, err := readConfig(cmd, m, from)
		if err != nil {
			return err
		}
		cfg = &c
	}

	if err := m.CreateExperiment(name, cfg); err != nil {
		return err
	}

	if labels := cmd.StringSlice("label"); len(labels) > 0 {
		if err := m.AddLabelsToExperiment(name, labels); err != nil {
			return err
		}
	}

	if cmd.Bool("use") {
		if err := m.SetActiveExperiment(name); err != nil {
			return err
		}
	}

	log.Debugf("created: name=%s", name)
	fmt.Fprintln(cmd.Root().Writer, m.ExperimentDir(name))
	return nil
}

// readConfig reads and validates a config from path, or from stdin in the
// --format format when path is "-".
func readConfig(cmd *cli.Command, m *Manager, path string) (sample.TrainingConfig, error) {
	if path != "-" {
		return m.Codec().Read(ResolvePath(cmd, path))
	}

	data, err := ReadInput(cmd, path)
	if err != nil {
		return sample.TrainingConfig{}, err
	}

	format := codec.FormatYAML
	if cmd.String("format") == "json" {
		format = codec.FormatJSON
	}
	raw, err := codec.Parse(data, format)
	if err != nil {
		return sample.TrainingConfig{}, err
	}
	return m.Codec().FromDocument(raw)
}

// formatFlag selects how a config read from stdin is parsed.
func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "format of a config read from stdin (yaml or json)",
		Value: "yaml",
		Validator: func(value string) error {
			return FlagValidators(value, FormatValidator)
		},
	}
}

// createCommandBuilder constructs the cli.Command for "create".
func createCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "create",
		Aliases:   []string{"new"},
		Usage:     "create an experiment",
		UsageText: "xpctl create NAME [--from FILE|-] [--label LABEL]... [--use]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "config file to start from instead of the defaults, - for stdin",
			},
			formatFlag(),
			&cli.StringSliceFlag{
				Name:    "label",
				Aliases: []string{"l"},
				Usage:   "label to attach, registering it if needed",
			},
			&cli.BoolFlag{
				Name:    "use",
				Aliases: []string{"u"},
				Usage:   "make the new experiment active",
			},
		},
		Action: createCommandAction,
		Meta:   meta,
	}).Build()
}
