// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segment is one path element: a key with an optional [n] or [] suffix.
var segment = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+)?\])?$`)

// Driller navigates jsonData along a dot path such as "config.optimizer.name"
// or "labels[1]". A single-element array met before the last segment is
// stepped into when no index is given; arrays at the end of the path are
// returned whole. An invalid segment or an index out of range yields an
// empty result.
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)

	parts := strings.Split(path, ".")
	for n, p := range parts {
		m := segment.FindStringSubmatch(p)
		if m == nil {
			return gjson.Result{}
		}

		val := current.Get(gjson.Escape(m[1]))
		if val.IsArray() {
			arr := val.Array()
			switch {
			case m[3] != "":
				i, err := strconv.Atoi(m[3])
				if err != nil || i >= len(arr) {
					return gjson.Result{}
				}
				val = arr[i]
			case len(arr) == 1 && n < len(parts)-1:
				val = arr[0]
			}
		}

		current = val
	}

	return current
}
