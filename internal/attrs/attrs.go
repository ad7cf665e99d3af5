// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package attrs parses --attrs specs that pick, rename and transform the
// columns of a listing.
package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/xpctl/xpctl/internal/log"
)

// Attr is one column of a listing.
type Attr struct {
	// Key is the dotted path into each row, e.g. "config.lr".
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs that exist only for filtering and sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the value in output and titles the text column.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is applied to the value before rendering.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// lengthSpec matches the length transformations in a spec. The last one wins.
var lengthSpec = regexp.MustCompile(`-?\d+`)

// now is replaced in tests.
var now = time.Now

// Transform applies the attr's transform spec to value. Only strings are
// transformed; other values pass through untouched.
//
// Spec letters:
//   - t: RFC 3339 timestamp to local time
//   - T: RFC 3339 timestamp to a relative age ("3 hours ago")
//   - l / u: lower / upper case, the later letter wins
//   - n / -n: truncate to n runes / elide the middle down to n runes
func (a *Attr) Transform(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok || a.TransformSpec == "" {
		return value
	}

	s = transformTime(s, a.TransformSpec)
	s = transformCase(s, a.TransformSpec)
	s = transformLength(s, a.TransformSpec)

	log.Tracef("attr transformed: key=%s spec=%s result=%s", a.Key, a.TransformSpec, s)
	return s
}

func transformTime(s, spec string) string {
	if !strings.ContainsAny(spec, "tT") {
		return s
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	if strings.Contains(spec, "T") {
		return humanize.RelTime(ts, now(), "ago", "from now")
	}
	return ts.Local().Format("2006-01-02T15:04:05MST")
}

// transformCase honours whichever case letter appears last, so that an
// attr's own spec overrides a prepended global one.
func transformCase(s, spec string) string {
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")
	switch {
	case lastL > lastU:
		return strings.ToLower(s)
	case lastU > lastL:
		return strings.ToUpper(s)
	}
	return s
}

func transformLength(s, spec string) string {
	match := lengthSpec.FindAllString(spec, -1)
	if len(match) == 0 {
		return s
	}
	l, _ := strconv.Atoi(match[len(match)-1])

	runes := []rune(s)
	limit := l
	if limit < 0 {
		limit = -limit
	}
	if len(runes) <= limit {
		return s
	}

	if l >= 0 {
		return string(runes[:limit])
	}
	side := limit/2 - 1
	if side < 1 {
		return string(runes[:limit])
	}
	return string(runes[:side]) + ".." + string(runes[len(runes)-side:])
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses a comma-separated --attrs value and merges it into the list.
//
// Each entry is KEY[:OUTPUT[:TRANSFORM]]. A leading "!" keeps the attr out
// of the output while still allowing it to be filtered and sorted on. The
// output key defaults to the last segment of KEY. A KEY of "*" carries a
// transform spec that SetGlobalTransformSpec applies to every attr. An entry
// naming an attr already in the list updates it in place.
func (a *AttrList) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q: want KEY[:OUTPUT[:TRANSFORM]]", spec)
		}

		attr := Attr{Include: true, Key: strings.TrimSpace(fields[0])}
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key[strings.LastIndex(attr.Key, ".")+1:]
		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			attr.TransformSpec = strings.TrimSpace(fields[2])
		}

		if i := a.find(attr.Key); i >= 0 {
			attr.Key = (*a)[i].Key
			(*a)[i] = attr
			log.Tracef("attr updated: key=%s", attr.Key)
			continue
		}

		*a = append(*a, attr)
		log.Tracef("attr appended: key=%s output=%s", attr.Key, attr.OutputKey)
	}

	return nil
}

// find returns the index of the attr whose key or output key is key.
func (a AttrList) find(key string) int {
	for i := range a {
		if a[i].Key == key || a[i].OutputKey == key {
			return i
		}
	}
	return -1
}

// SetGlobalTransformSpec prepends the "*" attr's transform spec, if any, to
// every attr.
func (a *AttrList) SetGlobalTransformSpec() error {
	i := a.find("*")
	if i < 0 || (*a)[i].TransformSpec == "" {
		return nil
	}

	spec := (*a)[i].TransformSpec
	for j := range *a {
		if j != i {
			(*a)[j].TransformSpec = spec + "," + (*a)[j].TransformSpec
		}
	}
	log.Debugf("global transform applied: spec=%s", spec)
	return nil
}

// Included returns the attrs that appear in output, in order.
func (a AttrList) Included() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// String renders the list back into --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
