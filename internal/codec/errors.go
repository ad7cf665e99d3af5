// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// ErrConfigNotFound is returned by Read when the config file is absent.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigParse is returned by Read when the file is not a well-formed
	// mapping.
	ErrConfigParse = errors.New("config file is not well-formed")
)

// ValidationError reports one schema violation. Field is the dotted path of
// the offending field using document key names; it is empty when the
// violation concerns the document as a whole.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Constraint
	}
	return e.Field + " " + e.Constraint
}

// fieldNotFound matches yaml.v3's unknown field message when KnownFields is on.
var fieldNotFound = regexp.MustCompile(`field (\S+) not found in type`)

// fromDecodeError converts a yaml decoding failure into validation errors.
// Type mismatches and unknown fields are schema violations, not parse errors,
// because the input already parsed as a mapping.
func fromDecodeError(err error) error {
	var typeErr *yaml.TypeError
	if !errors.As(err, &typeErr) {
		return &ValidationError{Constraint: err.Error()}
	}

	errs := make([]error, 0, len(typeErr.Errors))
	for _, msg := range typeErr.Errors {
		if m := fieldNotFound.FindStringSubmatch(msg); m != nil {
			errs = append(errs, &ValidationError{Field: m[1], Constraint: "is not a known field"})
			continue
		}
		errs = append(errs, &ValidationError{Constraint: trimLinePrefix(msg)})
	}
	return errors.Join(errs...)
}

// fromValidatorError converts validator/v10 failures into validation errors
// keyed by document field paths.
func fromValidatorError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Constraint: err.Error()}
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, &ValidationError{
			Field:      fieldPath(fe.Namespace()),
			Constraint: describeConstraint(fe.Tag(), fe.Param()),
		})
	}
	return errors.Join(errs...)
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeConstraint(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "gt":
		return "must be > " + param
	case "gte":
		return "must be >= " + param
	case "lt":
		return "must be < " + param
	case "lte":
		return "must be <= " + param
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "len":
		return "must have length " + param
	case "oneof":
		return "must be one of [" + param + "]"
	case "ne":
		return "must not be " + param
	}
	if param == "" {
		return fmt.Sprintf("failed constraint %q", tag)
	}
	return fmt.Sprintf("failed constraint %q", tag+"="+param)
}

func trimLinePrefix(msg string) string {
	if strings.HasPrefix(msg, "line ") {
		if i := strings.Index(msg, ": "); i >= 0 {
			return msg[i+2:]
		}
	}
	return msg
}
