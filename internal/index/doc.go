// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package index holds the experiment registry document: the active
// experiment, the global label set and one record per experiment. It loads
// the document (rejecting anything that breaks referential integrity) and
// saves it atomically by writing a sibling temp file and renaming it over the
// index file.
//
// There is no locking. Two processes saving the same index race and the last
// save wins.
package index
