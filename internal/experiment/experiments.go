// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"errors"
	"fmt"

	"github.com/xpctl/xpctl/internal/index"
	"github.com/xpctl/xpctl/internal/log"
)

// CreateExperiment makes a new experiment directory holding cfg, or the
// context's default config when cfg is nil. The new experiment becomes
// active when no other experiment is. If saving the index fails the
// directory stays behind and ErrPersistence is returned.
func (m *Manager[T]) CreateExperiment(name string, cfg *T) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if m.doc.HasExperiment(name) {
		return fmt.Errorf("%w: %w: experiment %q", ErrInvalidName, ErrAlreadyExists, name)
	}

	config := m.ctx.DefaultConfig
	if cfg != nil {
		config = *cfg
	}
	if err := m.check(config); err != nil {
		return err
	}

	if err := m.store.Create(name); err != nil {
		return err
	}

	path := m.ConfigFile(name)
	if err := m.codec.Write(path, config); err != nil {
		if rmErr := m.store.Delete(name); rmErr != nil {
			log.Debugf("failed to remove experiment dir after config write error: name=%s err=%v", name, rmErr)
		}
		return err
	}

	err := m.commit(func(doc *index.Document) {
		doc.Experiments[name] = &index.Record{
			CreatedAt:  m.timestamp(),
			Labels:     []string{},
			ConfigPath: m.ctx.ConfigFileName,
		}
		if _, ok := doc.Active(); !ok {
			doc.SetActive(name)
		}
	})
	if err != nil {
		return err
	}

	log.Debugf("experiment created: name=%s", name)
	return nil
}

// SetActiveExperiment makes name the active experiment.
func (m *Manager[T]) SetActiveExperiment(name string) error {
	if err := m.registered(name); err != nil {
		return err
	}
	if err := m.commit(func(doc *index.Document) { doc.SetActive(name) }); err != nil {
		return err
	}
	log.Debugf("active experiment set: name=%s", name)
	return nil
}

// CopyExperiment duplicates src, directory tree included, as dst. The copy
// gets a fresh timestamp and its own copy of src's labels.
func (m *Manager[T]) CopyExperiment(src, dst string) error {
	if err := ValidateName(dst); err != nil {
		return err
	}
	if err := m.registered(src); err != nil {
		return err
	}
	if m.doc.HasExperiment(dst) {
		return fmt.Errorf("experiment %q: %w", dst, ErrAlreadyExists)
	}

	if err := m.store.Copy(src, dst); err != nil {
		return err
	}

	err := m.commit(func(doc *index.Document) {
		rec := doc.Experiments[src].Clone()
		rec.CreatedAt = m.timestamp()
		doc.Experiments[dst] = rec
	})
	if err != nil {
		if rmErr := m.store.Delete(dst); rmErr != nil {
			log.Debugf("failed to remove copied dir after index error: name=%s err=%v", dst, rmErr)
		}
		return err
	}

	log.Debugf("experiment copied: src=%s dst=%s", src, dst)
	return nil
}

// DeleteExperiment removes name and its directory. Deleting the active
// experiment leaves no experiment active. A directory that is already gone
// does not stop the record from being removed.
func (m *Manager[T]) DeleteExperiment(name string) error {
	if err := m.registered(name); err != nil {
		return err
	}

	if err := m.store.Delete(name); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		log.Debugf("experiment dir already gone, dropping record: name=%s", name)
	}

	err := m.commit(func(doc *index.Document) {
		delete(doc.Experiments, name)
		if active, ok := doc.Active(); ok && active == name {
			doc.ClearActive()
		}
	})
	if err != nil {
		return err
	}

	log.Debugf("experiment deleted: name=%s", name)
	return nil
}

// RenameActiveExperiment renames the active experiment to newName.
func (m *Manager[T]) RenameActiveExperiment(newName string) error {
	name, err := m.active()
	if err != nil {
		return err
	}
	return m.RenameExperiment(name, newName)
}

// RenameExperiment moves oldName to newName, keeping its record. The active
// experiment follows the rename.
func (m *Manager[T]) RenameExperiment(oldName, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	if err := m.registered(oldName); err != nil {
		return err
	}
	if m.doc.HasExperiment(newName) {
		return fmt.Errorf("experiment %q: %w", newName, ErrAlreadyExists)
	}

	if err := m.store.Rename(oldName, newName); err != nil {
		return err
	}

	err := m.commit(func(doc *index.Document) {
		doc.Experiments[newName] = doc.Experiments[oldName]
		delete(doc.Experiments, oldName)
		if active, ok := doc.Active(); ok && active == oldName {
			doc.SetActive(newName)
		}
	})
	if err != nil {
		if mvErr := m.store.Rename(newName, oldName); mvErr != nil {
			log.Debugf("failed to restore experiment dir after index error: name=%s err=%v", oldName, mvErr)
		}
		return err
	}

	log.Debugf("experiment renamed: old=%s new=%s", oldName, newName)
	return nil
}
