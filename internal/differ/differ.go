// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Options tunes the comparison and its rendering.
type Options struct {
	// Ignore lists top-level keys left out of the comparison.
	Ignore []string
	// Coloring adds ANSI colors to the rendered diff.
	Coloring bool
	// ShowArrayIndex prefixes array elements with their index.
	ShowArrayIndex bool
}

// Diff compares two JSON objects and writes an annotated rendering of left
// with the changes that turn it into right. It reports whether anything
// differed. If w is nil, os.Stdout is used.
func Diff(left, right []byte, opts Options, w io.Writer) (bool, error) {
	if w == nil {
		w = os.Stdout
	}

	log.Debugf("diff sizes: left=%d right=%d", len(left), len(right))

	var ldoc, rdoc map[string]interface{}
	if err := json.Unmarshal(left, &ldoc); err != nil {
		return false, fmt.Errorf("failed to unmarshal left document: %w", err)
	}
	if err := json.Unmarshal(right, &rdoc); err != nil {
		return false, fmt.Errorf("failed to unmarshal right document: %w", err)
	}

	for _, key := range opts.Ignore {
		delete(ldoc, key)
		delete(rdoc, key)
	}

	delta := gojsondiff.New().CompareObjects(ldoc, rdoc)
	if !delta.Modified() {
		return false, nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: opts.ShowArrayIndex,
		Coloring:       opts.Coloring,
	}

	diffString, err := formatter.NewAsciiFormatter(ldoc, config).Format(delta)
	if err != nil {
		return true, err
	}

	fmt.Fprint(w, diffString)
	return true, nil
}
