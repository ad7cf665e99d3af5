// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

type sortKey struct {
	field         string
	descending    bool
	caseSensitive bool
}

// parseSortSpec splits a --sort value into keys. A leading "-" sorts a field
// descending and a following "!" makes the string comparison case sensitive.
func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		var k sortKey
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			k.descending = true
		}
		if strings.HasPrefix(field, "!") {
			field = strings.TrimPrefix(field, "!")
			k.caseSensitive = true
		}
		if field == "" {
			continue
		}
		k.field = field
		keys = append(keys, k)
	}
	return keys
}

// SortDataset orders resultSet in place by the comma-separated fields of
// spec. Numbers compare numerically and everything else as strings. Rows
// missing a field sort after the rest in either direction. Ties keep their
// incoming order.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, k := range keys {
			oneValue, oneHas := resultSet[one][k.field]
			twoValue, twoHas := resultSet[two][k.field]
			oneHas = oneHas && oneValue != nil
			twoHas = twoHas && twoValue != nil

			if oneHas != twoHas {
				return oneHas
			}
			if !oneHas {
				continue
			}

			oneNum, oneOk := oneValue.(float64)
			twoNum, twoOk := twoValue.(float64)
			if oneOk && twoOk {
				if oneNum != twoNum {
					return (oneNum < twoNum) != k.descending
				}
				continue
			}

			// Bools and collections compare by their text form.
			oneStr := InterfaceToString(oneValue)
			twoStr := InterfaceToString(twoValue)
			if !k.caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}
			if oneStr != twoStr {
				return (oneStr < twoStr) != k.descending
			}
		}
		return false
	})
}
