package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// localStorage implements Storage on the local filesystem under root.
type localStorage struct {
	root   string
	logger *slog.Logger
}

// NewLocal creates a filesystem store rooted at root, creating the directory if needed.
func NewLocal(root string, logger *slog.Logger) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("uploads root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create uploads root: %w", err)
	}
	return &localStorage{root: abs, logger: logger.With("component", "storage", "driver", "local")}, nil
}

// Save streams r into a temp file next to the target, fsyncs it and renames it into
// place, so a reader never sees a half-written file.
func (s *localStorage) Save(ctx context.Context, r io.Reader, originalName string, category Category) (SavedFile, error) {
	if !category.Valid() {
		return SavedFile{}, ErrInvalidCategory
	}
	if err := ctx.Err(); err != nil {
		return SavedFile{}, err
	}

	name, key := newObjectKey(originalName, category)
	full := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return SavedFile{}, fmt.Errorf("create category directory: %w", err)
	}

	tmp := full + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return SavedFile{}, fmt.Errorf("create temp file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return SavedFile{}, fmt.Errorf("write file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return SavedFile{}, fmt.Errorf("sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return SavedFile{}, fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return SavedFile{}, fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("file saved", "location", key, "size", size)
	return SavedFile{Name: name, Location: key}, nil
}

func (s *localStorage) Delete(ctx context.Context, location string) error {
	full, err := s.fullPath(location)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove file: %w", err)
	}
	s.logger.Debug("file deleted", "location", location)
	return nil
}

func (s *localStorage) Exists(ctx context.Context, location string) (bool, error) {
	full, err := s.fullPath(location)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat file: %w", err)
	}
	return !info.IsDir(), nil
}

func (s *localStorage) fullPath(location string) (string, error) {
	key, err := cleanKey(location)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}
