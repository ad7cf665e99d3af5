// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/xpctl/xpctl/internal/attrs"
	"github.com/xpctl/xpctl/internal/driller"
)

// EnvDelim overrides the "," separating filter expressions.
const EnvDelim = "XPCTL_FILTER_DELIM"

// filterRegex splits an expression into key, operator (optionally negated
// with "!") and target. Operators are = ^ ~ < > @ and /. Examples: "active",
// "name^exp_", "labels@baseline", "config.lr<0.01", "name!/^tmp".
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification string. A bare key with no
// operator keeps rows where the key is present and truthy.
func BuildFilters(spec string) ([]Filter, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	delim := ","
	if d, ok := os.LookupEnv(EnvDelim); ok && d != "" {
		delim = d
	}

	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(expr)
		key := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("invalid filter %q: empty key", expr)
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		if operand == "/" {
			if _, err := regexp.Compile(parts[3]); err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
			}
		}

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   parts[3],
		})
	}

	return filters, nil
}

// FilterDataset keeps the rows of candidates (a JSON array) that match every
// filter in spec and projects each onto attrs, keyed by output key. Values
// are left untransformed.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) ([]map[string]interface{}, error) {
	filters, err := BuildFilters(spec)
	if err != nil {
		return nil, err
	}

	results := []map[string]interface{}{}
	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, al, filters) {
			continue
		}

		row := make(map[string]interface{}, len(al))
		for _, attr := range al {
			if attr.Key == "*" {
				continue
			}
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		results = append(results, row)
	}

	log.Debugf("filtered dataset: in=%d out=%d", len(candidates.Array()), len(results))
	return results, nil
}

// applyFilters reports whether candidate matches every filter. Filter keys
// are matched against attr output keys first, then used as row paths.
func applyFilters(candidate gjson.Result, al attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		key := filter.Key
		for _, attr := range al {
			if attr.OutputKey == filter.Key {
				key = attr.Key
				break
			}
		}

		value := driller.Driller(candidate.Raw, key).Value()

		var ok bool
		switch v := value.(type) {
		case nil:
			ok = filter.Negate
		case string:
			ok = checkStringOperand(v, filter)
		case bool:
			ok = checkStringOperand(strconv.FormatBool(v), filter)
		case float64:
			ok = checkNumericOperand(v, filter)
		case []any, map[string]any:
			ok = checkContainsOperand(v, filter)
		}

		if !ok {
			return false
		}
	}

	return true
}

// checkContainsOperand evaluates membership ('@') against list or map
// values. A bare key matches a non-empty collection.
func checkContainsOperand(value interface{}, filter Filter) bool {
	var found bool
	switch val := value.(type) {
	case []any:
		if filter.Operand == "" {
			return (len(val) > 0) != filter.Negate
		}
		for _, item := range val {
			if fmt.Sprint(item) == filter.Value {
				found = true
				break
			}
		}
	case map[string]any:
		if filter.Operand == "" {
			return (len(val) > 0) != filter.Negate
		}
		_, found = val[filter.Value]
	}

	if filter.Operand != "@" {
		log.Debugf("unsupported operand for collections: %s", filter.Operand)
		return false
	}
	return found != filter.Negate
}

// checkNumericOperand compares numerically. Supported operands: =, >, <.
func checkNumericOperand(value float64, filter Filter) bool {
	if filter.Operand == "" {
		return (value != 0) != filter.Negate
	}

	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		return checkStringOperand(strconv.FormatFloat(value, 'g', -1, 64), filter)
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) != filter.Negate
	case ">":
		return (value > tgt) != filter.Negate
	case "<":
		return (value < tgt) != filter.Negate
	default:
		return checkStringOperand(strconv.FormatFloat(value, 'g', -1, 64), filter)
	}
}

// checkStringOperand evaluates a string comparison.
func checkStringOperand(value string, filter Filter) bool {
	var ok bool
	switch filter.Operand {
	case "":
		ok = value != "" && value != "false"
	case "=":
		ok = value == filter.Value
	case "~":
		ok = strings.EqualFold(value, filter.Value)
	case "^":
		ok = strings.HasPrefix(value, filter.Value)
	case ">":
		ok = value > filter.Value
	case "<":
		ok = value < filter.Value
	case "@":
		ok = strings.Contains(value, filter.Value)
	case "/":
		ok, _ = regexp.MatchString(filter.Value, value)
	}
	return ok != filter.Negate
}
