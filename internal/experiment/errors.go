// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"errors"

	"github.com/xpctl/xpctl/internal/codec"
	"github.com/xpctl/xpctl/internal/index"
	"github.com/xpctl/xpctl/internal/store"
)

// Errors returned by Manager operations. Use errors.Is to test for them, and
// errors.As with *ValidationError for schema violations.
var (
	ErrInvalidName        = errors.New("invalid name")
	ErrNoActiveExperiment = errors.New("no active experiment set")
	ErrUnknownLabel       = errors.New("unknown label")
	ErrNotFound           = store.ErrNotFound
	ErrAlreadyExists      = store.ErrAlreadyExists
	ErrCorruptIndex       = index.ErrCorruptIndex
	ErrPersistence        = index.ErrPersistence
	ErrConfigNotFound     = codec.ErrConfigNotFound
	ErrConfigParse        = codec.ErrConfigParse
	ErrUnsupportedFormat  = codec.ErrUnsupportedFormat
)

// ValidationError is a schema violation with its field path.
type ValidationError = codec.ValidationError
