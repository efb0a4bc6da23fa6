// Package repository holds the error values shared by every store
// implementation. Services translate them into caller-facing errors.
package repository

import "errors"

// ErrNotFound is returned when an identifier does not resolve to a document.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint
// (booking id, service name, user email).
var ErrDuplicate = errors.New("duplicate document")
