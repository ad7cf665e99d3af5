// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/xpctl/xpctl/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// the loaded user configuration, the context and the starting working
// directory.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
}

// Command returns the subcommand name (the first argument after the binary),
// or "" when there is none.
func (m Meta) Command() string {
	if len(m.Args) > 1 {
		return m.Args[1]
	}
	return ""
}
