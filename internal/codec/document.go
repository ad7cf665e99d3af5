// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package codec

// Field is one top-level entry of a config document.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Document is the ordered, documented form of a configuration. Only
// top-level fields carry descriptions; nested values are plain structures.
type Document struct {
	Fields []Field
}

// Map returns the document values keyed by field name.
func (d Document) Map() map[string]any {
	m := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		m[f.Key] = f.Value
	}
	return m
}

// Descriptions returns the non-empty descriptions keyed by field name.
func (d Document) Descriptions() map[string]string {
	m := map[string]string{}
	for _, f := range d.Fields {
		if f.Description != "" {
			m[f.Key] = f.Description
		}
	}
	return m
}

// Keys returns the field names in document order.
func (d Document) Keys() []string {
	keys := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value of a top-level field.
func (d Document) Get(key string) (any, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}
