// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	base := `{"lr": 0.0001, "batch_size": 32, "optimizer": {"name": "adam"}, "seed": 1}`

	tests := []struct {
		name     string
		right    string
		opts     Options
		modified bool
		contains []string
	}{
		{
			name:     "identical",
			right:    base,
			modified: false,
		},
		{
			name:     "changed scalar",
			right:    `{"lr": 0.01, "batch_size": 32, "optimizer": {"name": "adam"}, "seed": 1}`,
			modified: true,
			contains: []string{"-  \"lr\": 0.0001", "+  \"lr\": 0.01"},
		},
		{
			name:     "nested change",
			right:    `{"lr": 0.0001, "batch_size": 32, "optimizer": {"name": "sgd"}, "seed": 1}`,
			modified: true,
			contains: []string{"\"adam\"", "\"sgd\""},
		},
		{
			name:     "ignored key",
			right:    `{"lr": 0.0001, "batch_size": 32, "optimizer": {"name": "adam"}, "seed": 2}`,
			opts:     Options{Ignore: []string{"seed"}},
			modified: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			modified, err := Diff([]byte(base), []byte(tt.right), tt.opts, &buf)
			require.NoError(t, err)
			assert.Equal(t, tt.modified, modified)
			if !tt.modified {
				assert.Empty(t, buf.String())
			}
			for _, c := range tt.contains {
				assert.Contains(t, buf.String(), c)
			}
		})
	}
}

func TestDiffInvalidInput(t *testing.T) {
	_, err := Diff([]byte(`{`), []byte(`{}`), Options{}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = Diff([]byte(`{}`), []byte(`[1]`), Options{}, &bytes.Buffer{})
	assert.Error(t, err)
}
