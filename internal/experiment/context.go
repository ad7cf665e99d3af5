// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"

	"github.com/xpctl/xpctl/internal/codec"
	"github.com/xpctl/xpctl/internal/index"
	"github.com/xpctl/xpctl/internal/util"
)

// Defaults applied by NewContext and by New for zero-valued fields.
const (
	DefaultBaseDir        = "~/Documents/xpctl"
	DefaultRootName       = "experiments"
	DefaultConfigFileName = "config.yaml"
	DefaultIndexFileName  = "experiment_index.json"
	DefaultIndent         = 2

	DefaultDirPerm  os.FileMode = 0o755
	DefaultFilePerm os.FileMode = 0o644
)

// unsafeChars may not appear in experiment names or in the context's
// directory and file names.
const unsafeChars = index.UnsafeChars

// Context fixes where and how a Manager stores experiments. It is copied
// into the Manager at construction and never changes afterwards.
type Context[T any] struct {
	// DefaultConfig is written for experiments created without a config.
	DefaultConfig T `validate:"-"`

	// Schema validates and describes configurations of type T.
	Schema codec.Schema[T] `validate:"-"`

	// BaseDir holds the experiment root. "~" is expanded and relative paths
	// are made absolute.
	BaseDir string `validate:"required"`

	ExperimentRootName string `validate:"required,safename"`
	ConfigFileName     string `validate:"required,safename,docext"`
	IndexFileName      string `validate:"required,safename,docext"`

	// Indent is the JSON/YAML indentation width.
	Indent int `validate:"gte=0,lte=8"`

	DirPerm  os.FileMode
	FilePerm os.FileMode

	// Fs is the filesystem everything lives on. Nil means the OS filesystem.
	Fs afero.Fs `validate:"-"`
}

// NewContext returns a Context with every default filled in.
func NewContext[T any](defaultConfig T, schema codec.Schema[T]) Context[T] {
	return Context[T]{
		DefaultConfig:      defaultConfig,
		Schema:             schema,
		BaseDir:            DefaultBaseDir,
		ExperimentRootName: DefaultRootName,
		ConfigFileName:     DefaultConfigFileName,
		IndexFileName:      DefaultIndexFileName,
		Indent:             DefaultIndent,
		DirPerm:            DefaultDirPerm,
		FilePerm:           DefaultFilePerm,
		Fs:                 afero.NewOsFs(),
	}
}

// ExperimentRoot returns BaseDir/ExperimentRootName.
func (c Context[T]) ExperimentRoot() string {
	return filepath.Join(c.BaseDir, c.ExperimentRootName)
}

// IndexFile returns the path of the index file inside the experiment root.
func (c Context[T]) IndexFile() string {
	return filepath.Join(c.ExperimentRoot(), c.IndexFileName)
}

// resolve fills zero-valued fields with defaults, checks the result and
// expands BaseDir.
func (c Context[T]) resolve() (Context[T], error) {
	if c.BaseDir == "" {
		c.BaseDir = DefaultBaseDir
	}
	if c.ExperimentRootName == "" {
		c.ExperimentRootName = DefaultRootName
	}
	if c.ConfigFileName == "" {
		c.ConfigFileName = DefaultConfigFileName
	}
	if c.IndexFileName == "" {
		c.IndexFileName = DefaultIndexFileName
	}
	if c.Indent == 0 {
		c.Indent = DefaultIndent
	}
	if c.DirPerm == 0 {
		c.DirPerm = DefaultDirPerm
	}
	if c.FilePerm == 0 {
		c.FilePerm = DefaultFilePerm
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}

	if c.Schema == nil {
		return c, fmt.Errorf("invalid context: schema is required")
	}
	if err := validate.Struct(c); err != nil {
		return c, fmt.Errorf("invalid context: %w", err)
	}

	base, err := util.ParseBaseDir(c.BaseDir)
	if err != nil {
		return c, fmt.Errorf("invalid context: base dir %q: %w", c.BaseDir, err)
	}
	c.BaseDir = base

	return c, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("safename", func(fl validator.FieldLevel) bool {
		return index.SafeName(fl.Field().String())
	})
	_ = v.RegisterValidation("docext", func(fl validator.FieldLevel) bool {
		_, err := codec.FormatFor(fl.Field().String())
		return err == nil
	})

	return v
}

// ValidateName checks that name can be used as an experiment directory.
func ValidateName(name string) error {
	if err := validate.Var(name, "required,safename"); err != nil {
		return fmt.Errorf("%w: experiment name %q must be non-empty, not . or .., and free of %q",
			ErrInvalidName, name, unsafeChars)
	}
	return nil
}

// ValidateLabel checks that label can be registered globally.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label must not be empty", ErrInvalidName)
	}
	return nil
}
