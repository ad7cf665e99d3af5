// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/xpctl/xpctl/internal/index"
	"github.com/xpctl/xpctl/internal/log"
)

// AddGlobalLabel registers label.
func (m *Manager[T]) AddGlobalLabel(label string) error {
	return m.AddGlobalLabels([]string{label})
}

// AddGlobalLabels registers every label in labels, in order. Nothing changes
// unless all of them are valid and new.
func (m *Manager[T]) AddGlobalLabels(labels []string) error {
	labels = index.Unique(labels)

	var errs []error
	for _, label := range labels {
		if err := ValidateLabel(label); err != nil {
			errs = append(errs, err)
			continue
		}
		if m.doc.HasLabel(label) {
			errs = append(errs, fmt.Errorf("label %q: %w", label, ErrAlreadyExists))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := m.commit(func(doc *index.Document) {
		doc.GlobalLabels = append(doc.GlobalLabels, labels...)
	}); err != nil {
		return err
	}
	log.Debugf("labels added: labels=%v", labels)
	return nil
}

// RemoveGlobalLabel unregisters label and strips it from every experiment.
func (m *Manager[T]) RemoveGlobalLabel(label string) error {
	return m.RemoveGlobalLabels([]string{label})
}

// RemoveGlobalLabels unregisters every label in labels and strips them from
// every experiment. Nothing changes unless all of them are registered.
func (m *Manager[T]) RemoveGlobalLabels(labels []string) error {
	var errs []error
	for _, label := range labels {
		if !m.doc.HasLabel(label) {
			errs = append(errs, fmt.Errorf("label %q: %w", label, ErrNotFound))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	drop := func(l string) bool { return slices.Contains(labels, l) }
	if err := m.commit(func(doc *index.Document) {
		doc.GlobalLabels = slices.DeleteFunc(doc.GlobalLabels, drop)
		for _, rec := range doc.Experiments {
			rec.Labels = slices.DeleteFunc(rec.Labels, drop)
		}
	}); err != nil {
		return err
	}
	log.Debugf("labels removed: labels=%v", labels)
	return nil
}

// UpdateActiveExperimentLabels replaces the active experiment's labels.
func (m *Manager[T]) UpdateActiveExperimentLabels(labels []string) error {
	name, err := m.active()
	if err != nil {
		return err
	}
	return m.UpdateExperimentLabels(name, labels)
}

// UpdateExperimentLabels replaces the labels of name wholesale. Every label
// must already be registered; duplicates collapse to their first occurrence.
func (m *Manager[T]) UpdateExperimentLabels(name string, labels []string) error {
	if err := m.registered(name); err != nil {
		return err
	}

	var errs []error
	for _, label := range labels {
		if !m.doc.HasLabel(label) {
			errs = append(errs, fmt.Errorf("label %q: %w", label, ErrUnknownLabel))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	labels = index.Unique(labels)
	if err := m.commit(func(doc *index.Document) {
		doc.Experiments[name].Labels = labels
	}); err != nil {
		return err
	}
	log.Debugf("experiment labels set: name=%s labels=%v", name, labels)
	return nil
}

// AddLabelsToActiveExperiment appends labels to the active experiment.
func (m *Manager[T]) AddLabelsToActiveExperiment(labels []string) error {
	name, err := m.active()
	if err != nil {
		return err
	}
	return m.AddLabelsToExperiment(name, labels)
}

// AddLabelsToExperiment appends labels to name, registering any that are
// not yet global labels. Labels the experiment already carries are skipped.
func (m *Manager[T]) AddLabelsToExperiment(name string, labels []string) error {
	if err := m.registered(name); err != nil {
		return err
	}
	for _, label := range labels {
		if err := ValidateLabel(label); err != nil {
			return err
		}
	}

	labels = index.Unique(labels)
	if err := m.commit(func(doc *index.Document) {
		rec := doc.Experiments[name]
		for _, label := range labels {
			if !doc.HasLabel(label) {
				doc.GlobalLabels = append(doc.GlobalLabels, label)
			}
			if !rec.HasLabel(label) {
				rec.Labels = append(rec.Labels, label)
			}
		}
	}); err != nil {
		return err
	}
	log.Debugf("experiment labels added: name=%s labels=%v", name, labels)
	return nil
}

// GetLabelUsage maps every global label to the sorted names of the
// experiments carrying it. Unused labels map to an empty slice.
func (m *Manager[T]) GetLabelUsage() map[string][]string {
	usage := make(map[string][]string, len(m.doc.GlobalLabels))
	for _, label := range m.doc.GlobalLabels {
		usage[label] = []string{}
	}
	for name, rec := range m.doc.Experiments {
		for _, label := range rec.Labels {
			usage[label] = append(usage[label], name)
		}
	}
	for _, names := range usage {
		sort.Strings(names)
	}
	return usage
}

// GetActiveExperimentLabelMap reports, for every global label, whether the
// active experiment carries it.
func (m *Manager[T]) GetActiveExperimentLabelMap() (map[string]bool, error) {
	name, err := m.active()
	if err != nil {
		return nil, err
	}
	return m.GetExperimentLabelMap(name)
}

// GetExperimentLabelMap reports, for every global label, whether name
// carries it.
func (m *Manager[T]) GetExperimentLabelMap(name string) (map[string]bool, error) {
	if err := m.registered(name); err != nil {
		return nil, err
	}
	rec := m.doc.Experiments[name]
	out := make(map[string]bool, len(m.doc.GlobalLabels))
	for _, label := range m.doc.GlobalLabels {
		out[label] = rec.HasLabel(label)
	}
	return out, nil
}
