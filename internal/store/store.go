// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package store manages experiment directories beneath a single experiment
// root. It knows nothing about the index; callers check registry membership
// before asking for filesystem changes.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/xpctl/xpctl/internal/log"
)

var (
	// ErrNotFound is returned when a source experiment directory is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a target experiment directory exists.
	ErrAlreadyExists = errors.New("already exists")
)

// Store performs directory operations for experiments under root.
type Store struct {
	fs      afero.Fs
	root    string
	dirPerm os.FileMode
}

// New returns a Store rooted at root on fs.
func New(fs afero.Fs, root string, dirPerm os.FileMode) *Store {
	if dirPerm == 0 {
		dirPerm = 0o755 //nolint:mnd
	}
	return &Store{fs: fs, root: root, dirPerm: dirPerm}
}

// Root returns the experiment root directory.
func (s *Store) Root() string {
	return s.root
}

// DirectoryFor returns root/name.
func (s *Store) DirectoryFor(name string) string {
	return filepath.Join(s.root, name)
}

// Exists reports whether the experiment directory is present.
func (s *Store) Exists(name string) bool {
	ok, err := afero.DirExists(s.fs, s.DirectoryFor(name))
	return err == nil && ok
}

// Create makes the experiment directory (and the root, if needed).
func (s *Store) Create(name string) error {
	dir := s.DirectoryFor(name)
	if s.present(dir) {
		return fmt.Errorf("experiment directory %s: %w", dir, ErrAlreadyExists)
	}
	if err := s.fs.MkdirAll(s.root, s.dirPerm); err != nil {
		return fmt.Errorf("failed to create experiment root: %w", err)
	}
	if err := s.fs.Mkdir(dir, s.dirPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("experiment directory %s: %w", dir, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create experiment directory: %w", err)
	}
	log.Debugf("experiment dir created: path=%s", dir)
	return nil
}

// Delete removes the experiment directory tree.
func (s *Store) Delete(name string) error {
	dir := s.DirectoryFor(name)
	if !s.present(dir) {
		return fmt.Errorf("experiment directory %s: %w", dir, ErrNotFound)
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete experiment directory: %w", err)
	}
	log.Debugf("experiment dir deleted: path=%s", dir)
	return nil
}

// Copy duplicates the src tree as dst. A partially copied dst is removed
// before the error is returned.
func (s *Store) Copy(src, dst string) error {
	srcDir, dstDir := s.DirectoryFor(src), s.DirectoryFor(dst)
	if !s.present(srcDir) {
		return fmt.Errorf("experiment directory %s: %w", srcDir, ErrNotFound)
	}
	if s.present(dstDir) {
		return fmt.Errorf("experiment directory %s: %w", dstDir, ErrAlreadyExists)
	}

	err := afero.Walk(s.fs, srcDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dstDir, rel)

		switch {
		case info.IsDir():
			return s.fs.MkdirAll(target, info.Mode().Perm())
		case info.Mode().IsRegular():
			return s.copyFile(path, target, info.Mode().Perm())
		default:
			log.Warnf("skipping non-regular file during copy: path=%s", path)
			return nil
		}
	})
	if err != nil {
		_ = s.fs.RemoveAll(dstDir)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	log.Debugf("experiment dir copied: src=%s dst=%s", srcDir, dstDir)
	return nil
}

// Rename moves the experiment directory from oldName to newName.
func (s *Store) Rename(oldName, newName string) error {
	oldDir, newDir := s.DirectoryFor(oldName), s.DirectoryFor(newName)
	if !s.present(oldDir) {
		return fmt.Errorf("experiment directory %s: %w", oldDir, ErrNotFound)
	}
	if s.present(newDir) {
		return fmt.Errorf("experiment directory %s: %w", newDir, ErrAlreadyExists)
	}
	if err := s.fs.Rename(oldDir, newDir); err != nil {
		return fmt.Errorf("failed to rename experiment directory: %w", err)
	}
	log.Debugf("experiment dir renamed: old=%s new=%s", oldDir, newDir)
	return nil
}

func (s *Store) present(path string) bool {
	_, err := s.fs.Stat(path)
	return err == nil
}

func (s *Store) copyFile(src, dst string, perm os.FileMode) error {
	in, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := s.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
