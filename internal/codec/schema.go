// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Schema is the capability a configuration type must offer: building a
// validated instance from an untyped mapping and describing its top-level
// fields. Fields without a description are absent from Describe's result.
type Schema[T any] interface {
	Validate(raw map[string]any) (T, error)
	Describe() map[string]string
}

// StructSchema is the Schema for plain Go structs (or pointers to them).
//
// Struct tags drive everything:
//   - yaml:     document key name (yaml.v3 rules)
//   - validate: go-playground/validator constraints, e.g. "gt=0"
//   - desc:     one-line description written as a comment above the key
//
// Keys missing from the raw mapping keep the value from the defaults given
// to NewStructSchema; unknown keys are rejected.
type StructSchema[T any] struct {
	defaults     []byte
	isStruct     bool
	validate     *validator.Validate
	descriptions map[string]string
}

var _ Schema[struct{}] = (*StructSchema[struct{}])(nil)

// NewStructSchema builds a StructSchema for T. At most one defaults value is
// used; it is snapshotted immediately so later mutation by the caller has no
// effect.
func NewStructSchema[T any](defaults ...T) (*StructSchema[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	s := &StructSchema[T]{
		isStruct:     typ.Kind() == reflect.Struct,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		descriptions: map[string]string{},
	}
	s.validate.RegisterTagNameFunc(keyName)

	if len(defaults) > 0 {
		b, err := yaml.Marshal(defaults[0])
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot defaults: %w", err)
		}
		s.defaults = b
	}

	if s.isStruct {
		for i := 0; i < typ.NumField(); i++ {
			fld := typ.Field(i)
			if !fld.IsExported() || strings.Contains(fld.Tag.Get("yaml"), "inline") {
				continue
			}
			name := keyName(fld)
			if name == "" {
				continue
			}
			if desc := strings.TrimSpace(fld.Tag.Get("desc")); desc != "" {
				s.descriptions[name] = desc
			}
		}
	}

	return s, nil
}

// Validate decodes raw over a fresh copy of the defaults and checks the
// validate tags.
func (s *StructSchema[T]) Validate(raw map[string]any) (T, error) {
	var cfg, zero T

	if s.defaults != nil {
		if err := yaml.Unmarshal(s.defaults, &cfg); err != nil {
			return zero, fmt.Errorf("failed to restore defaults: %w", err)
		}
	}

	if raw == nil {
		raw = map[string]any{}
	}
	// yaml.v3 merges into non-nil maps, so a mapping given in raw must start
	// empty rather than on top of the default's keys.
	dropSuppliedMaps(reflect.ValueOf(&cfg).Elem(), raw)

	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, &ValidationError{Constraint: err.Error()}
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return zero, fromDecodeError(err)
	}

	if s.isStruct {
		if err := s.validate.Struct(cfg); err != nil {
			return zero, fromValidatorError(err)
		}
	}

	return cfg, nil
}

// dropSuppliedMaps zeroes every map field of v whose key is present in raw,
// descending into nested structs that raw also supplies.
func dropSuppliedMaps(v reflect.Value, raw map[string]any) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		fld := typ.Field(i)
		if !fld.IsExported() {
			continue
		}
		fv := v.Field(i)
		if strings.Contains(fld.Tag.Get("yaml"), "inline") {
			dropSuppliedMaps(fv, raw)
			continue
		}
		val, ok := raw[keyName(fld)]
		if !ok {
			continue
		}

		ft := fld.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Map:
			fv.Set(reflect.Zero(fld.Type))
		case reflect.Struct:
			if sub, ok := val.(map[string]any); ok {
				dropSuppliedMaps(fv, sub)
			}
		}
	}
}

// Describe returns a copy of the top-level field descriptions.
func (s *StructSchema[T]) Describe() map[string]string {
	return maps.Clone(s.descriptions)
}

// keyName returns the document key for a struct field, following yaml.v3:
// the tag name when set, else the lowercased Go name. "-" yields "".
func keyName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(fld.Name)
	}
	return name
}
