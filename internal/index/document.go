// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// UnsafeChars may not appear in experiment names.
const UnsafeChars = `\/:*?"<>| `

// SafeName reports whether name can be used as a directory directly under the
// experiment root.
func SafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, UnsafeChars)
}

// Record is the registry metadata of one experiment.
type Record struct {
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Labels     []string  `json:"labels" yaml:"labels"`
	ConfigPath string    `json:"config_path" yaml:"config_path"`
}

// HasLabel reports whether the record carries label.
func (r *Record) HasLabel(label string) bool {
	return slices.Contains(r.Labels, label)
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.Labels = slices.Clone(r.Labels)
	if c.Labels == nil {
		c.Labels = []string{}
	}
	return &c
}

// Document is the whole registry.
type Document struct {
	ActiveExperiment *string            `json:"active_experiment" yaml:"active_experiment"`
	GlobalLabels     []string           `json:"global_labels" yaml:"global_labels"`
	Experiments      map[string]*Record `json:"experiments" yaml:"experiments"`
}

// New returns an empty document.
func New() *Document {
	return &Document{
		GlobalLabels: []string{},
		Experiments:  map[string]*Record{},
	}
}

// Clone returns a deep copy that shares nothing with d.
func (d *Document) Clone() *Document {
	c := &Document{
		GlobalLabels: slices.Clone(d.GlobalLabels),
		Experiments:  make(map[string]*Record, len(d.Experiments)),
	}
	if c.GlobalLabels == nil {
		c.GlobalLabels = []string{}
	}
	if d.ActiveExperiment != nil {
		name := *d.ActiveExperiment
		c.ActiveExperiment = &name
	}
	for name, rec := range d.Experiments {
		c.Experiments[name] = rec.Clone()
	}
	return c
}

// Active returns the active experiment name, if any.
func (d *Document) Active() (string, bool) {
	if d.ActiveExperiment == nil {
		return "", false
	}
	return *d.ActiveExperiment, true
}

// SetActive marks name as the active experiment. The caller guarantees name
// is registered.
func (d *Document) SetActive(name string) {
	d.ActiveExperiment = &name
}

// ClearActive unsets the active experiment.
func (d *Document) ClearActive() {
	d.ActiveExperiment = nil
}

// HasExperiment reports whether name is registered.
func (d *Document) HasExperiment(name string) bool {
	_, ok := d.Experiments[name]
	return ok
}

// HasLabel reports whether label is a global label.
func (d *Document) HasLabel(label string) bool {
	return slices.Contains(d.GlobalLabels, label)
}

// ExperimentNames returns the registered names in sorted order.
func (d *Document) ExperimentNames() []string {
	names := make([]string, 0, len(d.Experiments))
	for name := range d.Experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalize replaces nil collections with empty ones and collapses duplicate
// labels, keeping the first occurrence.
func (d *Document) normalize() {
	d.GlobalLabels = Unique(d.GlobalLabels)
	if d.Experiments == nil {
		d.Experiments = map[string]*Record{}
	}
	for _, rec := range d.Experiments {
		if rec != nil {
			rec.Labels = Unique(rec.Labels)
		}
	}
}

// Check verifies the registry invariants:
//  1. the active experiment, when set, is registered;
//  2. every record label is a global label;
//  3. names are safe directory names (see SafeName);
//  4. config paths stay inside their experiment directory.
func (d *Document) Check() error {
	if name, ok := d.Active(); ok && !d.HasExperiment(name) {
		return fmt.Errorf("active experiment %q is not registered", name)
	}
	for _, label := range d.GlobalLabels {
		if label == "" {
			return fmt.Errorf("empty global label")
		}
	}
	for _, name := range d.ExperimentNames() {
		rec := d.Experiments[name]
		if !SafeName(name) {
			return fmt.Errorf("experiment name %q is not a safe directory name", name)
		}
		if rec == nil {
			return fmt.Errorf("experiment %q has no record", name)
		}
		for _, label := range rec.Labels {
			if !d.HasLabel(label) {
				return fmt.Errorf("experiment %q carries unregistered label %q", name, label)
			}
		}
		if rec.ConfigPath == "" || !filepath.IsLocal(rec.ConfigPath) {
			return fmt.Errorf("experiment %q config path %q escapes its directory", name, rec.ConfigPath)
		}
	}
	return nil
}

// Unique returns labels without duplicates, keeping first occurrences in
// order. The result is never nil.
func Unique(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
