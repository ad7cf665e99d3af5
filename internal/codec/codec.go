// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/xpctl/xpctl/internal/log"
	"github.com/xpctl/xpctl/internal/util"
)

// Format is an on-disk document format, selected by file extension.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// ErrUnsupportedFormat is returned for file names that are neither JSON nor
// YAML.
var ErrUnsupportedFormat = errors.New("unsupported file format, want .json, .yaml or .yml")

// FormatFor picks the format from the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// Options tunes rendering and file creation.
type Options struct {
	Indent   int
	FilePerm os.FileMode
	DirPerm  os.FileMode
}

// Codec reads and writes configurations of type T on fs.
type Codec[T any] struct {
	fs     afero.Fs
	schema Schema[T]
	opts   Options
}

// New returns a Codec for T. Zero-valued options fall back to indent 2, 0o644
// files and 0o755 directories.
func New[T any](fs afero.Fs, schema Schema[T], opts Options) *Codec[T] {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	if opts.FilePerm == 0 {
		opts.FilePerm = 0o644 //nolint:mnd
	}
	if opts.DirPerm == 0 {
		opts.DirPerm = 0o755 //nolint:mnd
	}
	return &Codec[T]{fs: fs, schema: schema, opts: opts}
}

// Schema returns the schema the codec validates against.
func (c *Codec[T]) Schema() Schema[T] {
	return c.schema
}

// ToDocument lists the top-level fields of cfg in declaration order, each
// with its value and description.
func (c *Codec[T]) ToDocument(cfg T) (Document, error) {
	node, err := encodeMapping(cfg)
	if err != nil {
		return Document{}, err
	}

	descs := c.schema.Describe()
	doc := Document{Fields: make([]Field, 0, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, valNode := node.Content[i], node.Content[i+1]
		var val any
		if err := valNode.Decode(&val); err != nil {
			return Document{}, fmt.Errorf("failed to decode field %s: %w", key.Value, err)
		}
		doc.Fields = append(doc.Fields, Field{
			Key:         key.Value,
			Value:       val,
			Description: descs[key.Value],
		})
	}
	return doc, nil
}

// FromDocument validates an untyped mapping into a T.
func (c *Codec[T]) FromDocument(raw map[string]any) (T, error) {
	return c.schema.Validate(raw)
}

// Marshal renders cfg as documented text. YAML output puts each described
// top-level key under a single "# description" line; JSON output carries no
// comments.
func (c *Codec[T]) Marshal(cfg T, format Format) ([]byte, error) {
	if format == FormatJSON {
		doc, err := c.ToDocument(cfg)
		if err != nil {
			return nil, err
		}
		return marshalJSON(doc, c.opts.Indent)
	}

	node, err := encodeMapping(cfg)
	if err != nil {
		return nil, err
	}

	descs := c.schema.Describe()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if desc, ok := descs[key.Value]; ok {
			key.HeadComment = "# " + oneLine(desc)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.opts.Indent)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders cfg in the format implied by path and replaces the file.
func (c *Codec[T]) Write(path string, cfg T) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := c.Marshal(cfg, format)
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(c.fs, path, data, c.opts.FilePerm, c.opts.DirPerm); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	log.Debugf("config written: path=%s format=%s", path, format)
	return nil
}

// Read parses and validates the config at path.
func (c *Codec[T]) Read(path string) (T, error) {
	var zero T

	format, err := FormatFor(path)
	if err != nil {
		return zero, err
	}

	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return zero, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	raw, err := Parse(data, format)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return c.FromDocument(raw)
}

// ReadRaw parses the config at path into an untyped mapping without schema
// validation.
func (c *Codec[T]) ReadRaw(path string) (map[string]any, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data, format)
}

// Parse turns document text into a mapping. JSON may carry comments and
// trailing commas. An empty document is an empty mapping.
func Parse(data []byte, format Format) (map[string]any, error) {
	if format == FormatJSON {
		data = jsonc.ToJSON(data)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func encodeMapping(cfg any) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config must encode to a mapping, got %q", node.Tag)
	}
	return &node, nil
}

func marshalJSON(doc Document, indent int) ([]byte, error) {
	pad := strings.Repeat(" ", indent)

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, f := range doc.Fields {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.MarshalIndent(f.Value, pad, pad)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %s: %w", f.Key, err)
		}
		buf.WriteString("\n" + pad)
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	if len(doc.Fields) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
