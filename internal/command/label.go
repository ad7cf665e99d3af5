// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/experiment"
	"github.com/xpctl/xpctl/internal/meta"
)

var (
	labelUsageDefaultAttrs = []string{"label", "count", "experiments"}
	labelMapDefaultAttrs   = []string{"label", "set"}
)

type labelUsageRow struct {
	Label       string   `json:"label"`
	Count       int      `json:"count"`
	Experiments []string `json:"experiments"`
}

type labelMapRow struct {
	Label string `json:"label"`
	Set   bool   `json:"set"`
}

// labelAddAction attaches labels to the target experiment, registering new
// ones. With --global it only registers them.
func labelAddAction(ctx context.Context, cmd *cli.Command) error {
	labels := cmd.Args().Slice()
	if len(labels) == 0 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("global") {
		return m.AddGlobalLabels(labels)
	}

	name, err := TargetExperiment(cmd, m)
	if err != nil {
		return err
	}
	return m.AddLabelsToExperiment(name, labels)
}

// labelRmAction detaches labels from the target experiment. With --global it
// unregisters them everywhere.
func labelRmAction(ctx context.Context, cmd *cli.Command) error {
	labels := cmd.Args().Slice()
	if len(labels) == 0 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("global") {
		return m.RemoveGlobalLabels(labels)
	}

	name, err := TargetExperiment(cmd, m)
	if err != nil {
		return err
	}
	current, err := labelsOf(m, name)
	if err != nil {
		return err
	}
	keep := slices.DeleteFunc(current, func(l string) bool { return slices.Contains(labels, l) })
	return m.UpdateExperimentLabels(name, keep)
}

// labelSetAction replaces the target experiment's labels. Every label must
// already be registered.
func labelSetAction(ctx context.Context, cmd *cli.Command) error {
	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}
	name, err := TargetExperiment(cmd, m)
	if err != nil {
		return err
	}
	return m.UpdateExperimentLabels(name, cmd.Args().Slice())
}

func labelUsageRows(_ context.Context, _ *cli.Command, m *Manager) ([]labelUsageRow, error) {
	usage := m.GetLabelUsage()
	rows := make([]labelUsageRow, 0, len(usage))
	for _, label := range m.GlobalLabels() {
		rows = append(rows, labelUsageRow{
			Label:       label,
			Count:       len(usage[label]),
			Experiments: usage[label],
		})
	}
	return rows, nil
}

func labelMapRows(_ context.Context, cmd *cli.Command, m *Manager) ([]labelMapRow, error) {
	name, err := TargetExperiment(cmd, m)
	if err != nil {
		return nil, err
	}
	set, err := m.GetExperimentLabelMap(name)
	if err != nil {
		return nil, err
	}
	rows := make([]labelMapRow, 0, len(set))
	for _, label := range m.GlobalLabels() {
		rows = append(rows, labelMapRow{Label: label, Set: set[label]})
	}
	return rows, nil
}

func labelsOf(m *Manager, name string) ([]string, error) {
	rec, ok := m.Record(name)
	if !ok {
		return nil, fmt.Errorf("experiment %q: %w", name, experiment.ErrNotFound)
	}
	return rec.Labels, nil
}

// labelCommandBuilder constructs the cli.Command for "label" and its
// subcommands.
func labelCommandBuilder(meta meta.Meta) *cli.Command {
	globalFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:    "global",
			Aliases: []string{"g"},
			Usage:   "act on the registry of labels instead of one experiment",
		}
	}
	sub := func(cb CommandBuilder) *cli.Command {
		cb.Meta = meta
		cb.Flags = append(cb.Flags, newExperimentFlag())
		return cb.Build()
	}

	return &cli.Command{
		Name:  "label",
		Usage: "manage labels",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			sub(CommandBuilder{
				Name:      "add",
				Usage:     "attach labels, registering new ones",
				UsageText: "xpctl label add LABEL... [-e NAME] [--global]",
				Flags:     []cli.Flag{globalFlag()},
				Action:    labelAddAction,
			}),
			sub(CommandBuilder{
				Name:      "rm",
				Usage:     "detach labels",
				UsageText: "xpctl label rm LABEL... [-e NAME] [--global]",
				Flags:     []cli.Flag{globalFlag()},
				Action:    labelRmAction,
			}),
			sub(CommandBuilder{
				Name:      "set",
				Usage:     "replace an experiment's labels",
				UsageText: "xpctl label set [LABEL]... [-e NAME]",
				Action:    labelSetAction,
			}),
			sub(CommandBuilder{
				Name:      "usage",
				Usage:     "list labels and the experiments carrying them",
				UsageText: "xpctl label usage [options]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return NewListActionRunner("usage", nil, labelUsageDefaultAttrs, labelUsageRows).Run(ctx, cmd)
				},
				Listing: true,
			}),
			sub(CommandBuilder{
				Name:      "map",
				Usage:     "show which labels an experiment carries",
				UsageText: "xpctl label map [-e NAME] [options]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return NewListActionRunner("map", nil, labelMapDefaultAttrs, labelMapRows).Run(ctx, cmd)
				},
				Listing: true,
			}),
		},
	}
}
