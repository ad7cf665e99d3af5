// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/xpctl/xpctl/internal/filters"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator rejects a malformed --filter before any work is done.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if spec := c.String("filter"); spec != "" {
		if _, err := filters.BuildFilters(spec); err != nil {
			return fmt.Errorf("invalid --filter: %w", err)
		}
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, "text", "json", "raw", "yaml")
}

func FormatValidator(value any) error {
	return oneOf(value, "yaml", "json")
}

func oneOf(value any, valid ...string) error {
	s, _ := value.(string)
	if !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
