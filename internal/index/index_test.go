// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func sampleDocument() *Document {
	doc := New()
	doc.GlobalLabels = []string{"label1", "label2"}
	doc.Experiments["exp_001"] = &Record{CreatedAt: created, Labels: []string{"label1"}, ConfigPath: "config.yaml"}
	doc.Experiments["exp_002"] = &Record{CreatedAt: created, Labels: []string{}, ConfigPath: "config.yaml"}
	doc.SetActive("exp_001")
	return doc
}

func newTestFile(t *testing.T, name string) (*File, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	f, err := NewFile(fs, filepath.Join("/base", "experiments", name), 2, 0o644, 0o755)
	require.NoError(t, err)
	return f, fs
}

func TestDocument_Check(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr string
	}{
		{"valid", func(*Document) {}, ""},
		{"dangling active", func(d *Document) { d.SetActive("ghost") }, "active experiment"},
		{"unregistered label", func(d *Document) { d.Experiments["exp_002"].Labels = []string{"nope"} }, "unregistered label"},
		{"empty label", func(d *Document) { d.GlobalLabels = append(d.GlobalLabels, "") }, "empty global label"},
		{"empty name", func(d *Document) { d.Experiments[""] = &Record{ConfigPath: "config.yaml"} }, "empty experiment name"},
		{"nil record", func(d *Document) { d.Experiments["exp_003"] = nil }, "no record"},
		{"traversal", func(d *Document) { d.Experiments["exp_002"].ConfigPath = "../exp_001/config.yaml" }, "escapes"},
		{"absolute", func(d *Document) { d.Experiments["exp_002"].ConfigPath = "/etc/passwd" }, "escapes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument()
			tt.mutate(doc)
			err := doc.Check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDocument_CloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	c := doc.Clone()

	c.Experiments["exp_001"].Labels[0] = "changed"
	c.GlobalLabels[0] = "changed"
	c.SetActive("exp_002")
	delete(c.Experiments, "exp_002")

	assert.Equal(t, []string{"label1"}, doc.Experiments["exp_001"].Labels)
	assert.Equal(t, "label1", doc.GlobalLabels[0])
	active, _ := doc.Active()
	assert.Equal(t, "exp_001", active)
	assert.True(t, doc.HasExperiment("exp_002"))
}

func TestDocument_Accessors(t *testing.T) {
	doc := sampleDocument()

	assert.Equal(t, []string{"exp_001", "exp_002"}, doc.ExperimentNames())
	assert.True(t, doc.HasLabel("label2"))
	assert.False(t, doc.HasLabel("label3"))
	assert.True(t, doc.Experiments["exp_001"].HasLabel("label1"))

	doc.ClearActive()
	_, ok := doc.Active()
	assert.False(t, ok)
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, Unique([]string{"b", "a", "b", "c", "a"}))
	assert.NotNil(t, Unique(nil))
	assert.Empty(t, Unique(nil))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	f, _ := newTestFile(t, "experiment_index.json")

	doc, err := f.Load()
	require.NoError(t, err)

	_, ok := doc.Active()
	assert.False(t, ok)
	assert.Empty(t, doc.GlobalLabels)
	assert.Empty(t, doc.Experiments)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, name := range []string{"experiment_index.json", "experiment_index.yaml"} {
		t.Run(name, func(t *testing.T) {
			f, _ := newTestFile(t, name)
			want := sampleDocument()

			require.NoError(t, f.Save(want))
			got, err := f.Load()
			require.NoError(t, err)

			assert.Equal(t, want.ActiveExperiment, got.ActiveExperiment)
			assert.Equal(t, want.GlobalLabels, got.GlobalLabels)
			require.Len(t, got.Experiments, 2)
			for name, rec := range want.Experiments {
				assert.True(t, rec.CreatedAt.Equal(got.Experiments[name].CreatedAt))
				assert.Equal(t, rec.Labels, got.Experiments[name].Labels)
				assert.Equal(t, rec.ConfigPath, got.Experiments[name].ConfigPath)
			}
		})
	}
}

func TestSave_JSONShape(t *testing.T) {
	f, fs := newTestFile(t, "experiment_index.json")
	doc := New()
	doc.Experiments["exp_001"] = &Record{CreatedAt: created, ConfigPath: "config.yaml"}
	doc.SetActive("exp_001")

	require.NoError(t, f.Save(doc))

	data, err := afero.ReadFile(fs, f.Path())
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"active_experiment": "exp_001"`)
	assert.Contains(t, text, `"global_labels": []`)
	assert.Contains(t, text, `"labels": []`)
	assert.Contains(t, text, `"created_at": "2026-10-19T09:30:00Z"`)
	assert.Contains(t, text, `"config_path": "config.yaml"`)
}

func TestSave_StableOutput(t *testing.T) {
	f, fs := newTestFile(t, "experiment_index.json")

	require.NoError(t, f.Save(sampleDocument()))
	first, err := afero.ReadFile(fs, f.Path())
	require.NoError(t, err)

	require.NoError(t, f.Save(sampleDocument()))
	second, err := afero.ReadFile(fs, f.Path())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Less(t, strings.Index(string(first), "exp_001"), strings.Index(string(first), "exp_002"))
}

func TestSave_NoTempFilesLeft(t *testing.T) {
	f, fs := newTestFile(t, "experiment_index.json")
	require.NoError(t, f.Save(sampleDocument()))

	entries, err := afero.ReadDir(fs, filepath.Dir(f.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "experiment_index.json", entries[0].Name())
}

func TestSave_ReadOnlyFsFails(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	f, err := NewFile(fs, "/base/experiments/experiment_index.json", 2, 0o644, 0o755)
	require.NoError(t, err)

	err = f.Save(sampleDocument())
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"not json", "experiment_index.json", "{"},
		{"wrong shape", "experiment_index.json", `{"experiments": []}`},
		{"unknown key", "experiment_index.json", `{"bogus": 1}`},
		{"dangling active", "experiment_index.json", `{"active_experiment": "ghost", "global_labels": [], "experiments": {}}`},
		{"unregistered label", "experiment_index.json", `{"global_labels": [], "experiments": {"a": {"created_at": "2026-10-19T09:30:00Z", "labels": ["x"], "config_path": "config.yaml"}}}`},
		{"yaml wrong shape", "experiment_index.yaml", "global_labels: {a: b}\n"},
		{"parent dir name", "experiment_index.json", `{"active_experiment": "..", "global_labels": [], "experiments": {"..": {"created_at": "2026-10-19T09:30:00Z", "labels": [], "config_path": "config.yaml"}}}`},
		{"nested name", "experiment_index.json", `{"global_labels": [], "experiments": {"a/b": {"created_at": "2026-10-19T09:30:00Z", "labels": [], "config_path": "config.yaml"}}}`},
		{"dot name", "experiment_index.yaml", "experiments:\n  .:\n    created_at: 2026-10-19T09:30:00Z\n    labels: []\n    config_path: config.yaml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, fs := newTestFile(t, tt.file)
			require.NoError(t, afero.WriteFile(fs, f.Path(), []byte(tt.body), 0o644))

			_, err := f.Load()
			assert.ErrorIs(t, err, ErrCorruptIndex)
		})
	}
}

func TestLoad_NormalizesDuplicatesAndNulls(t *testing.T) {
	f, fs := newTestFile(t, "experiment_index.json")
	body := `{
  // edited by hand
  "active_experiment": null,
  "global_labels": ["a", "b", "a"],
  "experiments": {
    "exp": {"created_at": "2026-10-19T09:30:00Z", "labels": null, "config_path": "config.yaml"},
  },
}`
	require.NoError(t, afero.WriteFile(fs, f.Path(), []byte(body), 0o644))

	doc, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, doc.GlobalLabels)
	assert.NotNil(t, doc.Experiments["exp"].Labels)
	assert.Empty(t, doc.Experiments["exp"].Labels)
}

func TestNewFile_RejectsUnknownExtension(t *testing.T) {
	_, err := NewFile(afero.NewMemMapFs(), "/x/index.toml", 2, 0o644, 0o755)
	assert.Error(t, err)
}

func TestSafeName(t *testing.T) {
	for _, name := range []string{"exp_001", "baseline-v2", ".hidden", "a..b"} {
		assert.True(t, SafeName(name), name)
	}
	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "../x", "a b", "a:b", "a|b"} {
		assert.False(t, SafeName(name), name)
	}
}
