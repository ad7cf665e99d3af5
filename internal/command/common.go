// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/attrs"
	"github.com/xpctl/xpctl/internal/config"
	"github.com/xpctl/xpctl/internal/experiment"
	"github.com/xpctl/xpctl/internal/log"
	"github.com/xpctl/xpctl/internal/meta"
	"github.com/xpctl/xpctl/internal/output"
	"github.com/xpctl/xpctl/internal/sample"
)

// Manager is the experiment manager the CLI drives.
type Manager = experiment.Manager[sample.TrainingConfig]

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList, err error) {
	for _, d := range defaults {
		if err = al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err = al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	err = al.SetGlobalTransformSpec()
	return
}

// DumpSchemaIfRequested writes the config schema when --schema is set, and
// returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema("", t, cmd.Root().Writer)
		return true
	}
	return false
}

// EmitSlice marshals results as JSON and passes them to the common output
// routine.
func EmitSlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return output.SliceDiceSpit(raw, al, cmd, cmd.Root().Writer)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OpenManager builds the experiment context from the --base-dir and --root
// flags plus the user config file, and loads the index.
func OpenManager(cmd *cli.Command) (*Manager, error) {
	schema, err := sample.Schema()
	if err != nil {
		return nil, err
	}

	ctx := experiment.NewContext(sample.Default(), schema)
	ctx.BaseDir = cmd.String("base-dir")
	ctx.ExperimentRootName = cmd.String("root")

	if v, err := config.GetString("config_file"); err == nil {
		ctx.ConfigFileName = v
	}
	if v, err := config.GetString("index_file"); err == nil {
		ctx.IndexFileName = v
	}
	if v, err := config.GetInt("indent"); err == nil {
		ctx.Indent = v
	}

	log.Debugf("opening manager: base=%s root=%s", ctx.BaseDir, ctx.ExperimentRootName)
	return experiment.New(ctx)
}

// TargetExperiment returns --experiment when given, else the active
// experiment.
func TargetExperiment(cmd *cli.Command, m *Manager) (string, error) {
	if name := cmd.String("experiment"); name != "" {
		return name, nil
	}
	name, ok := m.ActiveExperiment()
	if !ok {
		return "", experiment.ErrNoActiveExperiment
	}
	return name, nil
}

// ResolvePath makes path absolute against the directory xpctl was started
// from.
func ResolvePath(cmd *cli.Command, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	sd := GetMeta(cmd).StartingDir
	if sd == "" {
		sd, _ = os.Getwd()
	}
	return filepath.Join(sd, path)
}

// ReadInput reads path, or stdin when path is "-".
func ReadInput(cmd *cli.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.Root().Reader)
	}
	return afero.ReadFile(afero.NewOsFs(), ResolvePath(cmd, path))
}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr xpctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "xpctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}
