// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for xpctl's user
// configuration. The configuration is an optional YAML document named by
// XPCTL_CFG_FILE or located in the user's configuration directory:
//   - Linux: $XDG_CONFIG_HOME/xpctl.yaml or $HOME/.config/xpctl.yaml
//   - macOS: $HOME/Library/Application Support/xpctl.yaml
//   - Windows: %AppData%/xpctl.yaml
//
// Keys may be namespaced by subcommand. With Namespace "ls", a lookup of
// "sort" tries "ls.sort" first and then "sort".
package config
