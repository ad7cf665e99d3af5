// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package experiment

// Result carries either a configuration or the reason it could not be read.
type Result[T any] struct {
	Config T
	Err    error
}

// OK reports whether Config holds a validated configuration.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap returns the pair as ordinary Go return values.
func (r Result[T]) Unwrap() (T, error) {
	return r.Config, r.Err
}
