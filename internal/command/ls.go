// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/meta"
	"github.com/xpctl/xpctl/internal/sample"
)

// lsDefaultAttrs specifies the default attributes displayed for experiments
// in the "ls" command output.
var lsDefaultAttrs = []string{"name", "active", "created_at:created:T", "labels"}

// experimentRow is one experiment as seen by ls. Config holds the parsed
// config file so that "config.<key>" attrs and filters work; Error holds the
// reason it could not be read.
type experimentRow struct {
	Name       string         `json:"name"`
	Active     bool           `json:"active"`
	CreatedAt  string         `json:"created_at"`
	Labels     []string       `json:"labels"`
	Dir        string         `json:"dir"`
	ConfigPath string         `json:"config_path"`
	Config     map[string]any `json:"config,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// lsRows builds one row per registered experiment, sorted by name.
func lsRows(_ context.Context, _ *cli.Command, m *Manager) ([]experimentRow, error) {
	active, _ := m.ActiveExperiment()

	rows := make([]experimentRow, 0)
	for _, name := range m.Experiments() {
		rec, _ := m.Record(name)
		row := experimentRow{
			Name:       name,
			Active:     name == active,
			CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
			Labels:     rec.Labels,
			Dir:        m.ExperimentDir(name),
			ConfigPath: m.ConfigFile(name),
		}

		doc, err := m.ConfigDocument(name)
		if err != nil {
			log.Debugf("config unreadable: name=%s err=%v", name, err)
			row.Error = err.Error()
		} else {
			row.Config = doc.Map()
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// lsCommandAction is the action handler for the "ls" subcommand.
func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	return NewListActionRunner(
		"ls",
		reflect.TypeOf(sample.TrainingConfig{}),
		lsDefaultAttrs,
		lsRows,
	).Run(ctx, cmd)
}

// lsCommandBuilder constructs the cli.Command for "ls".
func lsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "list experiments",
		UsageText: "xpctl ls [options]",
		Flags:     []cli.Flag{newSchemaFlag()},
		Action:    lsCommandAction,
		Meta:      meta,
		Listing:   true,
	}).Build()
}
