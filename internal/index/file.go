// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/xpctl/xpctl/internal/codec"
	"github.com/xpctl/xpctl/internal/log"
	"github.com/xpctl/xpctl/internal/util"
)

var (
	// ErrCorruptIndex means the index file exists but is unreadable, has the
	// wrong shape or breaks a registry invariant.
	ErrCorruptIndex = errors.New("corrupt experiment index")

	// ErrPersistence wraps any failure to write the index file.
	ErrPersistence = errors.New("failed to persist experiment index")
)

// File is the on-disk home of a Document.
type File struct {
	fs       afero.Fs
	path     string
	format   codec.Format
	indent   int
	filePerm os.FileMode
	dirPerm  os.FileMode
}

// NewFile binds an index file path on fs. The extension picks JSON or YAML.
func NewFile(fs afero.Fs, path string, indent int, filePerm, dirPerm os.FileMode) (*File, error) {
	format, err := codec.FormatFor(path)
	if err != nil {
		return nil, err
	}
	if indent <= 0 {
		indent = 2
	}
	return &File{
		fs:       fs,
		path:     path,
		format:   format,
		indent:   indent,
		filePerm: filePerm,
		dirPerm:  dirPerm,
	}, nil
}

// Path returns the absolute index file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the document. A missing file yields an empty document.
func (f *File) Load() (*Document, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("index not found, starting empty: path=%s", f.path)
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read index %s: %w", f.path, err)
	}

	doc := &Document{}
	switch f.format {
	case codec.FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		err = dec.Decode(doc)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptIndex, f.path, err)
	}

	doc.normalize()
	if err := doc.Check(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptIndex, f.path, err)
	}

	log.Debugf("index loaded: path=%s experiments=%d labels=%d", f.path, len(doc.Experiments), len(doc.GlobalLabels))
	return doc, nil
}

// Save replaces the index file with doc.
func (f *File) Save(doc *Document) error {
	doc = doc.Clone()

	var (
		data []byte
		err  error
	)
	switch f.format {
	case codec.FormatJSON:
		data, err = json.MarshalIndent(doc, "", strings.Repeat(" ", f.indent))
		data = append(data, '\n')
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(f.indent)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := util.WriteFileAtomic(f.fs, f.path, data, f.filePerm, f.dirPerm); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.Debugf("index saved: path=%s", f.path)
	return nil
}
