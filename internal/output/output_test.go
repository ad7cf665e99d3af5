// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/xpctl/xpctl/internal/attrs"
)

const listing = `[
  {"name": "exp_b", "active": false, "created_at": "2026-01-02T00:00:00Z", "labels": ["nlp"], "config": {"lr": 0.01, "batch_size": 64}},
  {"name": "exp_a", "active": true, "created_at": "2026-01-01T00:00:00Z", "labels": ["cv", "baseline"], "config": {"lr": 0.0001, "batch_size": 32}},
  {"name": "exp_c", "active": false, "created_at": "2026-01-03T00:00:00Z", "labels": [], "config": {"lr": 0.1, "batch_size": 8}}
]`

func listAttrs(t *testing.T, specs ...string) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	for _, s := range specs {
		require.NoError(t, al.Set(s))
	}
	return al
}

// runWith parses args against a command carrying the listing flags and calls
// fn from its action.
func runWith(t *testing.T, args []string, fn func(cmd *cli.Command) error) {
	t.Helper()
	cmd := &cli.Command{
		Name: "ls",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "text"},
			&cli.StringFlag{Name: "filter"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "color"},
			&cli.BoolFlag{Name: "titles"},
			&cli.IntFlag{Name: "padding", Value: 2},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return fn(cmd)
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"ls"}, args...)))
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "Zebra", "lr": 0.01, "active": false},
		{"name": "alpha", "lr": 0.0001, "active": true},
		{"name": "beta", "lr": 0.1, "active": false},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by name",
			spec:      "name",
			wantOrder: []string{"alpha", "beta", "Zebra"},
		},
		{
			name:      "descending by name",
			spec:      "-name",
			wantOrder: []string{"Zebra", "beta", "alpha"},
		},
		{
			name:      "fractional numbers",
			spec:      "lr",
			wantOrder: []string{"alpha", "Zebra", "beta"},
		},
		{
			name:      "descending numbers",
			spec:      "-lr",
			wantOrder: []string{"beta", "Zebra", "alpha"},
		},
		{
			name:      "case sensitive",
			spec:      "!name",
			wantOrder: []string{"Zebra", "alpha", "beta"},
		},
		{
			name:      "multiple fields",
			spec:      "active,name",
			wantOrder: []string{"beta", "Zebra", "alpha"},
		},
		{
			name:      "empty spec",
			spec:      "",
			wantOrder: []string{"Zebra", "alpha", "beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestSortDataset_MissingValuesLast(t *testing.T) {
	for _, spec := range []string{"seed", "-seed"} {
		data := []map[string]interface{}{
			{"name": "a"},
			{"name": "b", "seed": 7.0},
			{"name": "c", "seed": nil},
			{"name": "d", "seed": 3.0},
		}
		SortDataset(data, spec)
		assert.Equal(t, "a", data[2]["name"], spec)
		assert.Equal(t, "c", data[3]["name"], spec)
	}

	data := []map[string]interface{}{{"name": "b"}, {"name": "a"}}
	SortDataset(data, " , name ")
	assert.Equal(t, "a", data[0]["name"])
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		empty []string
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "nil with custom empty", value: nil, empty: []string{"-"}, want: "-"},
		{name: "empty string", value: "", empty: []string{"-"}, want: "-"},
		{name: "string", value: "adam", want: "adam"},
		{name: "int", value: 32, want: "32"},
		{name: "zero int", value: 0, empty: []string{"-"}, want: "0"},
		{name: "fraction", value: 0.0001, want: "0.0001"},
		{name: "whole float", value: 64.0, want: "64"},
		{name: "false", value: false, empty: []string{"-"}, want: "false"},
		{name: "slice", value: []interface{}{"cv", "nlp"}, want: `["cv","nlp"]`},
		{name: "empty slice", value: []interface{}{}, empty: []string{"-"}, want: "-"},
		{name: "map", value: map[string]interface{}{"name": "sgd"}, want: `{"name":"sgd"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.empty...))
		})
	}
}

func TestSliceDiceSpit(t *testing.T) {
	al := listAttrs(t, "name,active,config.lr:lr,config.batch_size:batch")

	t.Run("raw passes input through", func(t *testing.T) {
		var buf bytes.Buffer
		runWith(t, []string{"--output", "raw"}, func(cmd *cli.Command) error {
			return SliceDiceSpit([]byte(listing), al, cmd, &buf)
		})
		assert.Equal(t, listing, buf.String())
	})

	t.Run("json filters and sorts", func(t *testing.T) {
		var buf bytes.Buffer
		runWith(t, []string{"--output", "json", "--filter", "lr<0.05", "--sort=-batch"}, func(cmd *cli.Command) error {
			return SliceDiceSpit([]byte(listing), al, cmd, &buf)
		})

		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "exp_b", rows[0]["name"])
		assert.Equal(t, "exp_a", rows[1]["name"])
		assert.Equal(t, 0.0001, rows[1]["lr"])
		assert.NotContains(t, rows[0], "labels")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		runWith(t, []string{"--output", "yaml", "--filter", "active"}, func(cmd *cli.Command) error {
			return SliceDiceSpit([]byte(listing), al, cmd, &buf)
		})

		var rows []map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "exp_a", rows[0]["name"])
		assert.EqualValues(t, 32, rows[0]["batch"])
	})

	t.Run("text table with titles", func(t *testing.T) {
		var buf bytes.Buffer
		runWith(t, []string{"--titles", "--sort", "name"}, func(cmd *cli.Command) error {
			return SliceDiceSpit([]byte(listing), al, cmd, &buf)
		})

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[0], "batch")
		assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "exp_a"))
		assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[3]), "exp_c"))
	})

	t.Run("bad filter", func(t *testing.T) {
		var err error
		runWith(t, []string{"--filter", "name/["}, func(cmd *cli.Command) error {
			err = SliceDiceSpit([]byte(listing), al, cmd, &bytes.Buffer{})
			return nil
		})
		assert.Error(t, err)
	})
}

func TestEmit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(map[string]int{"a": 1}, "json", &buf))
	assert.JSONEq(t, `{"a": 1}`, buf.String())

	buf.Reset()
	require.NoError(t, Emit(map[string]int{"a": 1}, "yaml", &buf))
	assert.Equal(t, "a: 1\n", buf.String())

	assert.Error(t, Emit(1, "xml", &buf))
}

func TestNewTag(t *testing.T) {
	type sample struct {
		LR     float64 `yaml:"lr" validate:"gt=0" desc:"Learning rate"`
		Plain  int
		Hidden string `yaml:"-"`
		Notes  string `yaml:"notes,omitempty"`
	}
	typ := reflect.TypeOf(sample{})

	tests := []struct {
		name   string
		holder string
		field  int
		want   schemaTag
	}{
		{
			name:  "tagged field",
			field: 0,
			want:  schemaTag{Name: "lr", Type: "number", Constraint: "gt=0", Description: "Learning rate"},
		},
		{
			name:   "holder prefix",
			holder: "config",
			field:  0,
			want:   schemaTag{Name: "config.lr", Type: "number", Constraint: "gt=0", Description: "Learning rate"},
		},
		{
			name:  "untagged field lowercases",
			field: 1,
			want:  schemaTag{Name: "plain", Type: "integer"},
		},
		{
			name:  "hidden field",
			field: 2,
			want:  schemaTag{},
		},
		{
			name:  "options stripped",
			field: 3,
			want:  schemaTag{Name: "notes", Type: "string"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTag(tt.holder, typ.Field(tt.field)))
		})
	}
}

func TestDumpSchema(t *testing.T) {
	type inner struct {
		Name string  `yaml:"name" validate:"oneof=adam sgd"`
		Beta float64 `yaml:"beta"`
	}
	type outer struct {
		LR        float64  `yaml:"lr" desc:"Learning rate"`
		Tags      []string `yaml:"tags"`
		Optimizer inner    `yaml:"optimizer"`
		internal  int
	}

	tags := dumpSchemaWalker("", reflect.TypeOf(outer{}), 0)
	var names []string
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"lr", "tags", "optimizer", "optimizer.name", "optimizer.beta"}, names)
	assert.Equal(t, "list of string", tags[1].Type)
	assert.Equal(t, "object", tags[2].Type)

	var buf bytes.Buffer
	DumpSchema("", reflect.TypeOf(&outer{}), &buf)
	out := buf.String()
	assert.Contains(t, out, "optimizer.name")
	assert.Contains(t, out, "oneof=adam sgd")
	assert.Contains(t, out, "Learning rate")

	buf.Reset()
	DumpSchema("", reflect.TypeOf(0), &buf)
	assert.Empty(t, buf.String())
}

func TestGetColors(t *testing.T) {
	header, even, odd := getColors("colors")

	assert.NotNil(t, header)
	assert.NotNil(t, even)
	assert.NotNil(t, odd)
}

func TestTableWriter(t *testing.T) {
	tests := []struct {
		name      string
		resultSet []map[string]interface{}
		attrs     attrs.AttrList
		args      []string
		header    string
		check     func(*testing.T, string)
	}{
		{
			name:      "empty result set prints nothing",
			resultSet: []map[string]interface{}{},
			attrs:     attrs.AttrList{{OutputKey: "name", Include: true}},
			check: func(t *testing.T, out string) {
				assert.Empty(t, out)
			},
		},
		{
			name: "excluded attrs are not printed",
			resultSet: []map[string]interface{}{
				{"name": "exp_a", "hidden": "secret"},
			},
			attrs: attrs.AttrList{
				{OutputKey: "name", Include: true},
				{OutputKey: "hidden", Include: false},
			},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "exp_a")
				assert.NotContains(t, out, "secret")
			},
		},
		{
			name: "missing values show a dash",
			resultSet: []map[string]interface{}{
				{"name": "exp_a"},
			},
			attrs: attrs.AttrList{
				{OutputKey: "name", Include: true},
				{OutputKey: "labels", Include: true},
			},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "-")
			},
		},
		{
			name: "header and titles",
			resultSet: []map[string]interface{}{
				{"name": "exp_a"},
			},
			attrs:  attrs.AttrList{{OutputKey: "name", Include: true}},
			args:   []string{"--titles"},
			header: "experiments",
			check: func(t *testing.T, out string) {
				lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
				require.Len(t, lines, 3)
				assert.Contains(t, lines[0], "experiments")
				assert.Contains(t, lines[1], "name")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			runWith(t, tt.args, func(cmd *cli.Command) error {
				if tt.header != "" {
					cmd.Metadata = map[string]interface{}{"header": tt.header}
				}
				TableWriter(tt.resultSet, tt.attrs, cmd, &buf)
				return nil
			})
			tt.check(t, buf.String())
		})
	}
}
