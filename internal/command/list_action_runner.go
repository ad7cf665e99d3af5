// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
)

// ListActionRunner[T] encapsulates the common listing action pattern. It
// handles GetMeta, the tldr and schema short circuits, BuildAttrs and output
// emission, with row building provided by FetchFn.
type ListActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command, *Manager) ([]T, error)
}

// Run executes the listing action with the provided context and command.
func (lar *ListActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, lar.CommandName) {
		return nil
	}
	if lar.SchemaType != nil && DumpSchemaIfRequested(cmd, lar.SchemaType) {
		return nil
	}

	attrs, err := BuildAttrs(cmd, lar.DefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", attrs)

	mgr, err := OpenManager(cmd)
	if err != nil {
		return err
	}

	results, err := lar.FetchFn(ctx, cmd, mgr)
	if err != nil {
		return err
	}

	return EmitSlice(results, attrs, cmd)
}

// NewListActionRunner creates a ListActionRunner with the provided
// configuration.
func NewListActionRunner[T any](
	commandName string,
	schemaType reflect.Type,
	defaultAttrs []string,
	fetchFn func(context.Context, *cli.Command, *Manager) ([]T, error),
) *ListActionRunner[T] {
	return &ListActionRunner[T]{
		CommandName:  commandName,
		SchemaType:   schemaType,
		DefaultAttrs: defaultAttrs,
		FetchFn:      fetchFn,
	}
}
