// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"github.com/xpctl/xpctl/internal/codec"
	"github.com/xpctl/xpctl/internal/log"
)

// GetActiveExperimentConfig reads and validates the active experiment's
// config. Configs are never cached; every call goes to disk.
func (m *Manager[T]) GetActiveExperimentConfig() Result[T] {
	name, err := m.active()
	if err != nil {
		return Result[T]{Err: err}
	}
	cfg, err := m.GetExperimentConfig(name)
	return Result[T]{Config: cfg, Err: err}
}

// GetExperimentConfig reads and validates the config of name.
func (m *Manager[T]) GetExperimentConfig(name string) (T, error) {
	var zero T
	if err := m.registered(name); err != nil {
		return zero, err
	}
	return m.codec.Read(m.ConfigFile(name))
}

// UpdateActiveExperimentConfig replaces the active experiment's config file
// with cfg.
func (m *Manager[T]) UpdateActiveExperimentConfig(cfg T) error {
	name, err := m.active()
	if err != nil {
		return err
	}
	return m.UpdateExperimentConfig(name, cfg)
}

// UpdateExperimentConfig validates cfg and replaces the config file of name.
// The index is not touched.
func (m *Manager[T]) UpdateExperimentConfig(name string, cfg T) error {
	if err := m.registered(name); err != nil {
		return err
	}
	if err := m.check(cfg); err != nil {
		return err
	}
	if err := m.codec.Write(m.ConfigFile(name), cfg); err != nil {
		return err
	}
	log.Debugf("experiment config updated: name=%s", name)
	return nil
}

// ConfigDocument returns the documented key-value form of name's config,
// ready to be shown to a user and resubmitted through the codec.
func (m *Manager[T]) ConfigDocument(name string) (codec.Document, error) {
	cfg, err := m.GetExperimentConfig(name)
	if err != nil {
		return codec.Document{}, err
	}
	return m.codec.ToDocument(cfg)
}
