// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/apex/log"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/xpctl/xpctl/internal/codec"
	"github.com/xpctl/xpctl/internal/experiment"
	"github.com/xpctl/xpctl/internal/meta"
	"github.com/xpctl/xpctl/internal/output"
	"github.com/xpctl/xpctl/internal/sample"
)

// configOutputFlag picks how a config is printed.
func configOutputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format (text and yaml print documented YAML)",
		Value:   "text",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
}

// configShowAction prints the config of the target experiment.
func configShowAction(ctx context.Context, cmd *cli.Command) error {
	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}
	name, err := configTarget(cmd, m)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if cmd.String("output") == "raw" {
		data, err := afero.ReadFile(m.Context().Fs, m.ConfigFile(name))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	cfg, err := m.GetExperimentConfig(name)
	if err != nil {
		return err
	}

	format := codec.FormatYAML
	if cmd.String("output") == "json" {
		format = codec.FormatJSON
	}
	data, err := m.Codec().Marshal(cfg, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// configGetAction prints the value at a gjson PATH of the target config.
// Strings print bare; everything else prints as JSON.
func configGetAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}
	name, err := configTarget(cmd, m)
	if err != nil {
		return err
	}

	cfg, err := m.GetExperimentConfig(name)
	if err != nil {
		return err
	}
	data, err := m.Codec().Marshal(cfg, codec.FormatJSON)
	if err != nil {
		return err
	}

	val := gjson.GetBytes(data, path)
	if !val.Exists() {
		return fmt.Errorf("config key %q not found in experiment %q", path, name)
	}

	w := cmd.Root().Writer
	switch {
	case cmd.String("output") == "yaml":
		return output.Emit(val.Value(), "yaml", w)
	case val.Type == gjson.String:
		fmt.Fprintln(w, val.String())
	default:
		fmt.Fprintln(w, val.Raw)
	}
	return nil
}

// configSetAction applies PATH=VALUE assignments to the target config.
// VALUE is read as a YAML scalar or flow collection.
func configSetAction(ctx context.Context, cmd *cli.Command) error {
	assignments := cmd.Args().Slice()
	if len(assignments) == 0 {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}
	name, err := configTarget(cmd, m)
	if err != nil {
		return err
	}

	doc, err := m.ConfigDocument(name)
	if err != nil {
		return err
	}
	raw := doc.Map()

	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid assignment %q, want PATH=VALUE", a)
		}
		var v any
		if err := yaml.Unmarshal([]byte(value), &v); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if err := setPath(raw, strings.Split(key, "."), v); err != nil {
			return err
		}
	}

	cfg, err := m.Codec().FromDocument(raw)
	if err != nil {
		return err
	}
	return m.UpdateExperimentConfig(name, cfg)
}

// setPath stores v at the nested key path in raw, creating intermediate
// mappings as needed.
func setPath(raw map[string]any, path []string, v any) error {
	for i, key := range path[:len(path)-1] {
		next, ok := raw[key]
		if !ok || next == nil {
			child := map[string]any{}
			raw[key] = child
			raw = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %q is not a mapping", strings.Join(path[:i+1], "."))
		}
		raw = child
	}
	raw[path[len(path)-1]] = v
	return nil
}

// configApplyAction validates FILE and makes it the target's config.
func configApplyAction(ctx context.Context, cmd *cli.Command) error {
	file := cmd.Args().First()
	if file == "" {
		return fmt.Errorf("usage: %s", cmd.UsageText)
	}

	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}
	name, err := configTarget(cmd, m)
	if err != nil {
		return err
	}

	cfg, err := readConfig(cmd, m, file)
	if err != nil {
		return err
	}
	if err := m.UpdateExperimentConfig(name, cfg); err != nil {
		return err
	}
	log.Debugf("config applied: name=%s file=%s", name, file)
	return nil
}

// configPathAction prints the config file path, or the experiment
// directory with --dir.
func configPathAction(ctx context.Context, cmd *cli.Command) error {
	m, err := OpenManager(cmd)
	if err != nil {
		return err
	}
	name, err := configTarget(cmd, m)
	if err != nil {
		return err
	}

	path := m.ConfigFile(name)
	if cmd.Bool("dir") {
		path = filepath.Dir(path)
	}
	fmt.Fprintln(cmd.Root().Writer, path)
	return nil
}

// configSchemaAction prints the accepted config keys.
func configSchemaAction(ctx context.Context, cmd *cli.Command) error {
	output.DumpSchema("", reflect.TypeOf(sample.TrainingConfig{}), cmd.Root().Writer)
	return nil
}

// configTarget is the positional NAME when the subcommand takes one, else
// --experiment, else the active experiment. The name must be registered.
func configTarget(cmd *cli.Command, m *Manager) (string, error) {
	var name string
	if cmd.Metadata["nameArg"] == true {
		name = cmd.Args().Get(cmd.Metadata["nameIndex"].(int))
	}
	if name == "" {
		var err error
		if name, err = TargetExperiment(cmd, m); err != nil {
			return "", err
		}
	}
	if _, ok := m.Record(name); !ok {
		return "", fmt.Errorf("experiment %q: %w", name, experiment.ErrNotFound)
	}
	return name, nil
}

// configCommandBuilder constructs the cli.Command for "config" and its
// subcommands.
func configCommandBuilder(meta meta.Meta) *cli.Command {
	sub := func(cb CommandBuilder, nameIndex int) *cli.Command {
		cb.Meta = meta
		cb.Flags = append(cb.Flags, newExperimentFlag())
		cmd := cb.Build()
		if nameIndex >= 0 {
			cmd.Metadata["nameArg"] = true
			cmd.Metadata["nameIndex"] = nameIndex
		}
		return cmd
	}

	return &cli.Command{
		Name:  "config",
		Usage: "read and change experiment configs",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			sub(CommandBuilder{
				Name:      "show",
				Usage:     "print a config",
				UsageText: "xpctl config show [NAME] [-o text|json|yaml|raw]",
				Flags:     []cli.Flag{configOutputFlag()},
				Action:    configShowAction,
			}, 0),
			sub(CommandBuilder{
				Name:      "get",
				Usage:     "print one config value by path",
				UsageText: "xpctl config get PATH [NAME]",
				Flags:     []cli.Flag{configOutputFlag()},
				Action:    configGetAction,
			}, 1),
			sub(CommandBuilder{
				Name:      "set",
				Usage:     "change config values",
				UsageText: "xpctl config set PATH=VALUE... [-e NAME]",
				Action:    configSetAction,
			}, -1),
			sub(CommandBuilder{
				Name:      "apply",
				Usage:     "validate a file and make it the config",
				UsageText: "xpctl config apply FILE|- [-e NAME] [--format yaml|json]",
				Flags:     []cli.Flag{formatFlag()},
				Action:    configApplyAction,
			}, -1),
			sub(CommandBuilder{
				Name:      "path",
				Usage:     "print the config file path",
				UsageText: "xpctl config path [NAME] [--dir]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dir",
						Usage: "print the experiment directory instead",
					},
				},
				Action: configPathAction,
			}, 0),
			sub(CommandBuilder{
				Name:      "schema",
				Usage:     "describe the accepted config keys",
				UsageText: "xpctl config schema",
				Action:    configSchemaAction,
			}, -1),
		},
	}
}
