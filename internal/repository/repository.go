// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import "errors"

var (
	// ErrNotFound is returned when no active row matches.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("repository: duplicate")
)
