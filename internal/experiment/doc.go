// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package experiment is the single entry point for managing experiments. A
// Manager keeps the index document and the experiment directories consistent:
// every mutating call validates against the in-memory document, performs the
// filesystem change, applies the change to a copy of the document, persists
// the copy and only then adopts it. A failed call leaves both the persisted
// index and the in-memory view unchanged.
//
// A Manager is not safe for concurrent use, and nothing guards against other
// processes writing the same base directory. Concurrent writers race and the
// last index save wins.
package experiment
