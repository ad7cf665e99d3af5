// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows listing results with --filter expressions.
//
// A filter is a key, an optional operator and a target. Expressions are
// separated by commas unless XPCTL_FILTER_DELIM says otherwise. Every
// expression must match for a row to be kept.
//
// Operators:
//
//   - = : exact match
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - < : less than (numeric when the value is a number)
//   - > : greater than (numeric when the value is a number)
//   - @ : substring, or membership for lists and maps
//   - / : regular expression match
//
// Any operator can be negated with a leading "!". A bare key keeps rows where
// the value is present and truthy.
//
// Examples:
//
//   - "name^exp_" : experiments whose name starts with "exp_"
//   - "labels@baseline" : experiments carrying the baseline label
//   - "lr<0.01" : rows whose lr attribute is below 0.01
//   - "name!/^tmp" : experiments whose name does not match ^tmp
//   - "active" : only the active experiment
//
// Filter keys match the output key of an attribute first (see attrs) and
// are otherwise read as a path into the row.
package filters
