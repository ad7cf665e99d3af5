// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/xpctl/xpctl/internal/attrs"
)

//go:embed testdata/*
var testDataFS embed.FS

type testBuildFiltersCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	Delimiter string   `yaml:"delimiter"`
	Want      []Filter `yaml:"want"`
	WantCount int      `yaml:"wantCount"`
}

func loadTestData(filename string, v any) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func dataset(t *testing.T) gjson.Result {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/dataset.json")
	require.NoError(t, err)
	return gjson.ParseBytes(data)
}

func defaultAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set("name,active,labels,config.lr,config.optimizer.name:optimizer"))
	return al
}

func TestBuildFilters(t *testing.T) {
	var tests []testBuildFiltersCase
	require.NoError(t, loadTestData("build_filters_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if tt.Delimiter != "" {
				t.Setenv(EnvDelim, tt.Delimiter)
			}

			got, err := BuildFilters(tt.Spec)
			require.NoError(t, err)
			assert.Len(t, got, tt.WantCount)
			for i, want := range tt.Want {
				assert.Equal(t, want, got[i])
			}
		})
	}
}

func TestBuildFilters_Errors(t *testing.T) {
	for _, spec := range []string{"=x", "name/[", "  @x"} {
		_, err := BuildFilters(spec)
		assert.Error(t, err, spec)
	}
}

func TestFilterDataset(t *testing.T) {
	tests := []struct {
		spec string
		want []string
	}{
		{"", []string{"exp_001", "exp_002", "tmp_scratch"}},
		{"active", []string{"exp_001"}},
		{"active=false", []string{"exp_002", "tmp_scratch"}},
		{"name^exp_", []string{"exp_001", "exp_002"}},
		{"name!^exp_", []string{"tmp_scratch"}},
		{"name~EXP_002", []string{"exp_002"}},
		{"name/_0+1$", []string{"exp_001"}},
		{"labels@nlp", []string{"exp_001", "tmp_scratch"}},
		{"labels!@nlp", []string{"exp_002"}},
		{"labels", []string{"exp_001", "tmp_scratch"}},
		{"lr<0.05", []string{"exp_001", "exp_002"}},
		{"config.batch_size>16", []string{"exp_001", "exp_002"}},
		{"config.batch_size=8", []string{"tmp_scratch"}},
		{"optimizer@adam", []string{"exp_001", "tmp_scratch"}},
		{"optimizer=adam,lr<0.001", []string{"exp_001"}},
		{"missing=x", nil},
		{"missing!=x", []string{"exp_001", "exp_002", "tmp_scratch"}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			rows, err := FilterDataset(dataset(t), defaultAttrs(t), tt.spec)
			require.NoError(t, err)

			var names []string
			for _, row := range rows {
				names = append(names, row["name"].(string))
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFilterDataset_Projection(t *testing.T) {
	rows, err := FilterDataset(dataset(t), defaultAttrs(t), "name=exp_002")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "exp_002", row["name"])
	assert.Equal(t, false, row["active"])
	assert.Equal(t, 0.01, row["lr"])
	assert.Equal(t, "sgd", row["optimizer"])
	assert.Equal(t, []interface{}{}, row["labels"])

	rows, err = FilterDataset(dataset(t), defaultAttrs(t), "name=tmp_scratch")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []interface{}{"nlp"}, rows[0]["labels"])
}

func TestFilterDataset_BadSpec(t *testing.T) {
	_, err := FilterDataset(dataset(t), defaultAttrs(t), "name/(")
	assert.Error(t, err)
}

func TestCheckOperands(t *testing.T) {
	assert.True(t, checkStringOperand("abc", Filter{Operand: "@", Value: "b"}))
	assert.False(t, checkStringOperand("abc", Filter{Operand: "@", Value: "b", Negate: true}))
	assert.True(t, checkStringOperand("b", Filter{Operand: ">", Value: "a"}))
	assert.False(t, checkStringOperand("", Filter{}))

	assert.True(t, checkNumericOperand(3, Filter{Operand: "=", Value: "3"}))
	assert.True(t, checkNumericOperand(3, Filter{Operand: "=", Value: "4", Negate: true}))
	assert.True(t, checkNumericOperand(32, Filter{Operand: "^", Value: "3"}))

	assert.True(t, checkContainsOperand(map[string]any{"k": 1}, Filter{Operand: "@", Value: "k"}))
	assert.False(t, checkContainsOperand([]any{"a"}, Filter{Operand: "=", Value: "a"}))
}
