// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller resolves dotted attribute paths against experiment rows
// and configs, stepping through single-element arrays on the way down.
package driller
