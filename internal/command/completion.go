// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/meta"
)

const bashCompletionScript = `# bash completion for xpctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_xpctl_experiments()
{
    xpctl ls --output json --attrs '!active,!created_at,!labels' 2>/dev/null |
        sed -n 's/.*"name": *"\([^"]*\)".*/\1/p'
}

_xpctl()
{
    local cur prev cmd sub
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "create ls use cp rm mv config diff label completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    sub=${COMP_WORDS[2]}
    local store="--base-dir -b --root -r"
    local common="$store --attrs -a --color -c --filter -f --output -o --padding --sort -s --titles -t --tldr"

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi
    if [[ "$prev" == "--experiment" || "$prev" == "-e" ]]; then
        COMPREPLY=( $(compgen -W "$(_xpctl_experiments)" -- "$cur") )
        return 0
    fi

    case "$cmd" in
        config)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "show get set apply path schema" -- "$cur") )
                return 0
            fi
            local opts="$store --experiment -e --output -o --format --dir"
            if [[ "$sub" == "apply" && "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -f -- "$cur") )
                return 0
            fi
            ;;
        label)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "add rm set usage map" -- "$cur") )
                return 0
            fi
            local opts="$common --experiment -e --global -g"
            ;;
        ls)
            local opts="$common --schema"
            ;;
        create)
            local opts="$store --from --format --label -l --use -u"
            ;;
        cp)
            local opts="$store --use -u"
            ;;
        diff)
            local opts="$store --ignore -i --color -c --index"
            ;;
        use|rm|mv)
            local opts="$store"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    case "$cmd" in
        use|rm|mv|cp|diff|config)
            COMPREPLY=( $(compgen -W "$(_xpctl_experiments)" -- "$cur") )
            ;;
    esac
    return 0
}

complete -F _xpctl xpctl
`

const zshCompletionScript = `#compdef xpctl

_xpctl_experiments() {
  local -a names
  names=(${(f)"$(xpctl ls --output json 2>/dev/null | sed -n 's/.*"name": *"\([^"]*\)".*/\1/p')"})
  _describe -t experiments 'experiments' names
}

_xpctl() {
  local -a cmds
  cmds=(
    'create:create an experiment'
    'ls:list experiments'
    'use:set or show the active experiment'
    'cp:copy an experiment'
    'rm:delete experiments'
    'mv:rename an experiment'
    'config:read and change experiment configs'
    'diff:compare two experiment configs'
    'label:manage labels'
    'completion:generate shell completion script'
  )

  local -a store
  store=(
  '(-b --base-dir)'{-b,--base-dir}'[directory holding the experiment root]:dir:_directories'
  '(-r --root)'{-r,--root}'[experiment root directory name]:root'
  )

  local -a common
  common=(
  $store
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[column padding]:padding'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'xpctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    create)
      _arguments -C $store \
        '--from[config file to start from]:file:_files' \
        '--format[stdin format]:format:(yaml json)' \
        '*'{-l,--label}'[label to attach]:label' \
        '(-u --use)'{-u,--use}'[make it active]' \
        '1:name'
      ;;
    ls)
      _arguments -C $common '--schema[dump schema]'
      ;;
    use|rm|mv|cp)
      _arguments -C $store '*:experiment:_xpctl_experiments'
      ;;
    diff)
      _arguments -C $store \
        '*'{-i,--ignore}'[key to ignore]:key' \
        '(-c --color)'{-c,--color}'[color output]' \
        '--index[show array indexes]' \
        '*:experiment:_xpctl_experiments'
      ;;
    config)
      _arguments -C '1:subcommand:(show get set apply path schema)' \
        $store \
        '(-e --experiment)'{-e,--experiment}'[experiment]:experiment:_xpctl_experiments' \
        '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)' \
        '--format[stdin format]:format:(yaml json)' \
        '--dir[print the directory]' \
        '*:file:_files'
      ;;
    label)
      _arguments -C '1:subcommand:(add rm set usage map)' \
        $common \
        '(-e --experiment)'{-e,--experiment}'[experiment]:experiment:_xpctl_experiments' \
        '(-g --global)'{-g,--global}'[act on the label registry]' \
        '*:label'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _xpctl xpctl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: xpctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "xpctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
