// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/xpctl/xpctl/internal/experiment"
)

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the config schema",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

func newExperimentFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "experiment",
		Aliases: []string{"e"},
		Usage:   "experiment to act on instead of the active one",
	}
}

// NewStoreFlags returns the flags locating the experiment root. Both fall
// back to the environment and then to the user config file at cfgPath,
// namespaced by ns first.
func NewStoreFlags(ns string, cfgPath string) []cli.Flag {
	baseDir := &cli.StringFlag{
		Name:    "base-dir",
		Aliases: []string{"b"},
		Usage:   "directory holding the experiment root",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("XPCTL_BASE_DIR"),
		),
		Value: experiment.DefaultBaseDir,
	}
	// The config file spells it base_dir.
	baseDir.Sources.Chain = append(baseDir.Sources.Chain,
		yaml.YAML(ns+".base_dir", altsrc.StringSourcer(cfgPath)),
		yaml.YAML("base_dir", altsrc.StringSourcer(cfgPath)),
	)

	root := &cli.StringFlag{
		Name:    "root",
		Aliases: []string{"r"},
		Usage:   "name of the experiment root directory",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("XPCTL_ROOT"),
		),
		Value: experiment.DefaultRootName,
	}

	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, cfgPath, baseDir),
		NameSpacedValueChainFlagFromConfigFile(ns, cfgPath, root),
	}
}

// NewGlobalFlags returns the output shaping flags shared by every listing
// command. params[0] is the command namespace and params[1], when present,
// the user config file providing defaults.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	attrsFlag := &cli.StringFlag{
		Name:    "attrs",
		Aliases: []string{"a"},
		Usage:   "comma-separated list of attributes to include in results",
	}
	sortFlag := &cli.StringFlag{
		Name:    "sort",
		Aliases: []string{"s"},
		Usage:   "comma-separated list of attributes to sort the results by",
	}
	filterFlag := &cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "comma-separated list of filters to apply to results",
	}
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Value:   "text",
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
	colorFlag := &cli.BoolFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   "enable colored text output",
		Value:   colorDefault(),
	}
	titlesFlag := &cli.BoolFlag{
		Name:    "titles",
		Aliases: []string{"t"},
		Usage:   "show titles with text output",
		Value:   false,
	}
	paddingFlag := &cli.IntFlag{
		Name:  "padding",
		Usage: "spaces between text output columns",
		Value: 2,
	}

	if len(params) == 2 {
		ns, cfgPath := params[0], params[1]
		for _, f := range []*cli.StringFlag{attrsFlag, sortFlag, filterFlag, outputFlag} {
			NameSpacedValueChainFlagFromConfigFile(ns, cfgPath, f)
		}
		colorFlag.Sources = configFileSources(ns, cfgPath, colorFlag.Name)
		titlesFlag.Sources = configFileSources(ns, cfgPath, titlesFlag.Name)
		paddingFlag.Sources = configFileSources(ns, cfgPath, paddingFlag.Name)
	}

	flags = []cli.Flag{
		attrsFlag,
		colorFlag,
		filterFlag,
		outputFlag,
		paddingFlag,
		sortFlag,
		titlesFlag,
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// configFileSources is the namespaced then global config file chain for a
// non-string flag.
func configFileSources(ns, path, name string) cli.ValueSourceChain {
	return cli.NewValueSourceChain(
		yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)),
		yaml.YAML(name, altsrc.StringSourcer(path)),
	)
}

// colorDefault turns color on for terminals unless NO_COLOR is set.
func colorDefault() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// pathHas checks if the given executable is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
