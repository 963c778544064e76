package content

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no document exists for a requested id.
// API boundaries translate it into a negative result, not a failure.
var ErrNotFound = errors.New("content item not found")

// ParseError reports a malformed front-matter block. Direct reads surface
// it to the caller; rebuild scans recover by skipping the file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a caller-supplied field that violates its
// constraints. Raised before any storage write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// SyncError reports an index write that failed after the document store was
// already updated. The files remain the more current source of truth until
// the next full rebuild.
type SyncError struct {
	Op  string // "upsert" or "remove"
	ID  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("index %s for %s failed after document write: %v", e.Op, e.ID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
