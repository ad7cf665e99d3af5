// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/xpctl/xpctl/internal/codec"
	"github.com/xpctl/xpctl/internal/index"
	"github.com/xpctl/xpctl/internal/log"
	"github.com/xpctl/xpctl/internal/store"
)

// Manager owns one experiment root: its index document, its experiment
// directories and the config file inside each of them.
type Manager[T any] struct {
	ctx   Context[T]
	codec *codec.Codec[T]
	store *store.Store
	file  *index.File
	doc   *index.Document
	now   func() time.Time
}

// New resolves ctx, checks that its default config satisfies the schema and
// loads the index. A missing index starts an empty registry; a corrupt one
// fails with ErrCorruptIndex.
func New[T any](ctx Context[T]) (*Manager[T], error) {
	ctx, err := ctx.resolve()
	if err != nil {
		return nil, err
	}

	m := &Manager[T]{
		ctx: ctx,
		codec: codec.New(ctx.Fs, ctx.Schema, codec.Options{
			Indent:   ctx.Indent,
			FilePerm: ctx.FilePerm,
			DirPerm:  ctx.DirPerm,
		}),
		store: store.New(ctx.Fs, ctx.ExperimentRoot(), ctx.DirPerm),
		now:   time.Now,
	}

	if err := m.check(ctx.DefaultConfig); err != nil {
		return nil, fmt.Errorf("invalid default config: %w", err)
	}

	m.file, err = index.NewFile(ctx.Fs, ctx.IndexFile(), ctx.Indent, ctx.FilePerm, ctx.DirPerm)
	if err != nil {
		return nil, err
	}
	if m.doc, err = m.file.Load(); err != nil {
		return nil, err
	}

	log.Debugf("manager ready: root=%s experiments=%d", ctx.ExperimentRoot(), len(m.doc.Experiments))
	return m, nil
}

// Refresh replaces the in-memory index with the one on disk.
func (m *Manager[T]) Refresh() error {
	doc, err := m.file.Load()
	if err != nil {
		return err
	}
	m.doc = doc
	return nil
}

// Context returns the resolved context.
func (m *Manager[T]) Context() Context[T] {
	return m.ctx
}

// Codec returns the codec used for config files.
func (m *Manager[T]) Codec() *codec.Codec[T] {
	return m.codec
}

// ExperimentRoot returns the directory holding the index and all
// experiments.
func (m *Manager[T]) ExperimentRoot() string {
	return m.store.Root()
}

// IndexFile returns the index file path.
func (m *Manager[T]) IndexFile() string {
	return m.file.Path()
}

// ActiveExperiment returns the active experiment name, if any.
func (m *Manager[T]) ActiveExperiment() (string, bool) {
	return m.doc.Active()
}

// ActiveExperimentDir returns the directory of the active experiment.
func (m *Manager[T]) ActiveExperimentDir() (string, bool) {
	name, ok := m.doc.Active()
	if !ok {
		return "", false
	}
	return m.ExperimentDir(name), true
}

// ActiveExperimentConfigFile returns the config file of the active
// experiment.
func (m *Manager[T]) ActiveExperimentConfigFile() (string, bool) {
	name, ok := m.doc.Active()
	if !ok {
		return "", false
	}
	return m.ConfigFile(name), true
}

// Experiments returns the registered experiment names, sorted.
func (m *Manager[T]) Experiments() []string {
	return m.doc.ExperimentNames()
}

// GlobalLabels returns the registered labels in registration order.
func (m *Manager[T]) GlobalLabels() []string {
	return slices.Clone(m.doc.GlobalLabels)
}

// Record returns a copy of the registry entry for name.
func (m *Manager[T]) Record(name string) (index.Record, bool) {
	rec, ok := m.doc.Experiments[name]
	if !ok {
		return index.Record{}, false
	}
	return *rec.Clone(), true
}

// ExperimentDir returns the directory for name whether or not it exists.
func (m *Manager[T]) ExperimentDir(name string) string {
	return m.store.DirectoryFor(name)
}

// ConfigFile returns the config file path for name. Unregistered names get
// the context's config file name.
func (m *Manager[T]) ConfigFile(name string) string {
	rel := m.ctx.ConfigFileName
	if rec, ok := m.doc.Experiments[name]; ok {
		rel = rec.ConfigPath
	}
	return filepath.Join(m.ExperimentDir(name), rel)
}

// commit applies mutate to a copy of the document, saves the copy and only
// then adopts it. On failure the in-memory document is untouched.
func (m *Manager[T]) commit(mutate func(doc *index.Document)) error {
	next := m.doc.Clone()
	mutate(next)
	if err := next.Check(); err != nil {
		return fmt.Errorf("refusing to save inconsistent index: %w", err)
	}
	if err := m.file.Save(next); err != nil {
		return err
	}
	m.doc = next
	return nil
}

// check validates cfg by passing it through its document form.
func (m *Manager[T]) check(cfg T) error {
	doc, err := m.codec.ToDocument(cfg)
	if err != nil {
		return err
	}
	_, err = m.codec.FromDocument(doc.Map())
	return err
}

func (m *Manager[T]) active() (string, error) {
	name, ok := m.doc.Active()
	if !ok {
		return "", ErrNoActiveExperiment
	}
	return name, nil
}

func (m *Manager[T]) registered(name string) error {
	if !m.doc.HasExperiment(name) {
		return fmt.Errorf("experiment %q: %w", name, ErrNotFound)
	}
	return nil
}

func (m *Manager[T]) timestamp() time.Time {
	return m.now().UTC()
}
