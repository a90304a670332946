// Package storage persists uploaded client files. Every driver lays files out as
// <category>/<generated-name> below its root (a directory or a bucket) and returns
// that relative key as the file's location.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Category scopes stored files into a subdirectory.
type Category string

const (
	CategoryCV    Category = "cv"
	CategoryPhoto Category = "photo"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryCV || c == CategoryPhoto
}

var (
	// ErrInvalidCategory is returned by Save for an unknown category.
	ErrInvalidCategory = errors.New("storage: invalid category")
	// ErrInvalidLocation is returned for empty locations or ones escaping the root.
	ErrInvalidLocation = errors.New("storage: invalid location")
)

// SavedFile is the result of a successful Save.
type SavedFile struct {
	// Name is the generated file name. It never contains the original name.
	Name string
	// Location identifies the file for Delete and Exists.
	Location string
}

// Storage is the file store used by the client service.
type Storage interface {
	// Save copies r completely into a new file under category. The generated name is
	// a random UUID plus the lower-cased extension of originalName.
	Save(ctx context.Context, r io.Reader, originalName string, category Category) (SavedFile, error)
	// Delete removes the file at location. Missing files are not an error.
	Delete(ctx context.Context, location string) error
	// Exists reports whether a file is present at location.
	Exists(ctx context.Context, location string) (bool, error)
}

// newObjectKey generates the stored name and its category-scoped key.
func newObjectKey(originalName string, category Category) (name, key string) {
	name = uuid.NewString() + Extension(originalName)
	return name, path.Join(string(category), name)
}

// Extension returns the lower-cased extension of the base of name, including the dot.
func Extension(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.ToLower(filepath.Ext(base))
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// cleanKey rejects empty keys, absolute keys and keys that climb out of the root.
func cleanKey(location string) (string, error) {
	if location == "" {
		return "", ErrInvalidLocation
	}
	cleaned := path.Clean(strings.ReplaceAll(location, "\\", "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidLocation
	}
	return cleaned, nil
}
