// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/apex/log"
)

// schemaTag describes one config key discovered by walking a struct type.
type schemaTag struct {
	Name        string
	Type        string
	Constraint  string
	Description string
}

// NewTag builds the schemaTag for field, prefixing its key with holder to
// form a dotted path. Fields hidden from YAML yield a zero tag.
func NewTag(holder string, field reflect.StructField) schemaTag {
	name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
	switch name {
	case "-":
		return schemaTag{}
	case "":
		name = strings.ToLower(field.Name)
	}
	if holder != "" {
		name = fmt.Sprintf("%s.%s", holder, name)
	}

	return schemaTag{
		Name:        name,
		Type:        typeName(field.Type),
		Constraint:  field.Tag.Get("validate"),
		Description: field.Tag.Get("desc"),
	}
}

// print renders the tag into its table row.
func (t schemaTag) print() []string {
	return []string{t.Name, t.Type, t.Constraint, t.Description}
}

// maxSchemaDepth limits the depth of schema walking to prevent infinite
// recursion.
const maxSchemaDepth = 3

// DumpSchema writes every config key of typ, with its type, constraints and
// description, in declaration order. If w is nil, os.Stdout is used.
func DumpSchema(prefix string, typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		log.Debugf("No schema for non-struct type: %s", typ)
		return
	}

	fmt.Fprintln(w,
		`Config keys accepted by "config apply" and queryable with "config get" and
the --attrs flag of ls (prefix with "config.").`)
	fmt.Fprintln(w, "")

	tags := dumpSchemaWalker(prefix, typ, 0)
	if len(tags) == 0 {
		log.Debugf("No tags found for type: %s", typ.Name())
		return
	}

	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, tag.print())
	}
	renderTable(w, []string{"key", "type", "constraint", "description"}, rows, newTableStyle(false, 2))
}

// dumpSchemaWalker recursively walks a struct type collecting config keys.
func dumpSchemaWalker(holder string, typ reflect.Type, depth int) []schemaTag {
	tags := make([]schemaTag, 0)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		log.Debugf("field: %s, type: %s in %s", field.Name, field.Type, field.PkgPath)

		tag := NewTag(holder, field)
		if tag.Name == "" {
			continue
		}
		tags = append(tags, tag)

		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && depth < maxSchemaDepth {
			tags = append(tags, dumpSchemaWalker(tag.Name, ft, depth+1)...)
		}
	}

	return tags
}

// typeName returns the document-level type of t.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "list of " + typeName(t.Elem())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	}
	return t.Kind().String()
}
