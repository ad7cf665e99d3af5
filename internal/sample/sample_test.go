// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpctl/xpctl/internal/codec"
)

func TestSchema_DefaultIsValid(t *testing.T) {
	s, err := Schema()
	require.NoError(t, err)

	got, err := s.Validate(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestSchema_Describe(t *testing.T) {
	s, err := Schema()
	require.NoError(t, err)

	desc := s.Describe()
	assert.Equal(t, "Learning rate", desc["lr"])
	assert.Equal(t, "Optimizer settings", desc["optimizer"])
	assert.NotContains(t, desc, "notes")
}

func TestSchema_NestedConstraint(t *testing.T) {
	s, err := Schema()
	require.NoError(t, err)

	_, err = s.Validate(map[string]any{"optimizer": map[string]any{"name": "rmsprop"}})
	var verr *codec.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "optimizer.name", verr.Field)
}
