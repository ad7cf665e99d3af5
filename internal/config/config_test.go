// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points XPCTL_CFG_FILE at a testdata file and resets the
// global Config so the next access reloads.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv(EnvFile, absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

// withConfig loads testFile and runs fn.
func withConfig(t *testing.T, testFile string, fn func(t *testing.T)) {
	t.Helper()
	setupTestConfig(t, testFile)
	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "/srv/xpctl", cfg.Data["base_dir"])
				assert.Equal(t, 4, cfg.Data["indent"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				ls, ok := cfg.Data["ls"].(map[string]interface{})
				require.True(t, ok, "ls should be a map")
				assert.Equal(t, "-created_at", ls["sort"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "research", cfg.Data["name"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
				tags, ok := cfg.Data["tags"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, tags, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Empty(t, cfg.Data)
			},
		},
		{
			name:     "invalid yaml",
			testFile: "invalid.yaml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv(EnvFile, "/nonexistent/xpctl.yaml")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/xpctl", cfg.Data["base_dir"])
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv(EnvFile, "/nonexistent/path/xpctl.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_EnvIsDirectory(t *testing.T) {
	t.Setenv(EnvFile, "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestFile_UserConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvFile, "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	_, err := File()
	assert.Error(t, err)
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		namespace    string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "simple", testFile: "simple.yaml", key: "base_dir", want: "/srv/xpctl"},
		{name: "nested", testFile: "nested.yaml", key: "colors.title", want: "#ff8800"},
		{name: "namespaced", testFile: "nested.yaml", namespace: "ls", key: "sort", want: "-created_at"},
		{name: "namespace falls back", testFile: "nested.yaml", namespace: "ls", key: "base_dir", want: "~/Documents/xpctl"},
		{name: "missing with default", testFile: "simple.yaml", key: "missing", defaultValue: []string{"dflt"}, want: "dflt"},
		{name: "missing without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "not a string", testFile: "simple.yaml", key: "indent", wantErr: true},
		{name: "multiple defaults", testFile: "simple.yaml", key: "missing", defaultValue: []string{"a", "b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.testFile, func(t *testing.T) {
				Config.Namespace = tt.namespace

				got, err := GetString(tt.key, tt.defaultValue...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int", testFile: "simple.yaml", key: "indent", want: 4},
		{name: "float truncated", testFile: "mixed-types.yaml", key: "timeout", want: 30},
		{name: "nested", testFile: "nested.yaml", key: "ls.padding", want: 2},
		{name: "missing with default", testFile: "simple.yaml", key: "missing", defaultValue: []int{60}, want: 60},
		{name: "missing without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "not an int", testFile: "simple.yaml", key: "base_dir", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.testFile, func(t *testing.T) {
				got, err := GetInt(tt.key, tt.defaultValue...)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		})
	}
}

func TestGetBool(t *testing.T) {
	withConfig(t, "nested.yaml", func(t *testing.T) {
		Config.Namespace = "ls"
		v, err := GetBool("titles")
		require.NoError(t, err)
		assert.True(t, v)

		Config.Namespace = "label"
		v, err = GetBool("titles")
		require.NoError(t, err)
		assert.False(t, v)

		v, err = GetBool("missing", true)
		require.NoError(t, err)
		assert.True(t, v)

		_, err = GetBool("base_dir")
		assert.Error(t, err)
	})
}

func TestGet_LazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	got, err := GetString("root")
	require.NoError(t, err)
	assert.Equal(t, "experiments", got)
}

func TestGet_Paths(t *testing.T) {
	withConfig(t, "mixed-types.yaml", func(t *testing.T) {
		_, err := Config.get("version.something")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid path found")

		_, err = Config.get("nonexistent.nested.path")
		assert.Error(t, err)
	})
}

func TestGetStringSlice(t *testing.T) {
	withConfig(t, "string-slice.yaml", func(t *testing.T) {
		vals, err := GetStringSlice("list_top")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, vals)

		vals, err = GetStringSlice("nested.inner.list")
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two three"}, vals)

		Config.Namespace = "ls"
		vals, err = GetStringSlice("wide")
		require.NoError(t, err)
		assert.Len(t, vals, 2)

		_, err = GetStringSlice("nonstring_list")
		assert.Error(t, err)
		_, err = GetStringSlice("not_a_list")
		assert.Error(t, err)

		def := []string{"x"}
		vals, err = GetStringSlice("does.not.exist", def)
		require.NoError(t, err)
		assert.Equal(t, def, vals)
	})
}
