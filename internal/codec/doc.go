// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package codec converts typed experiment configurations to and from their
// documented on-disk form. A Schema turns an untyped mapping into a typed,
// validated value and describes its top-level fields; the Codec renders the
// value as YAML with one comment line per described field (or plain JSON) and
// parses it back.
package codec
