package models

import "fmt"

// ValidationError marks bad user input: anti-cheat ceiling exceeded, missing
// required field, unknown mood. Always surfaced to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks an unknown username or log entry id. Login failures of
// this kind are transient while the store is still loading.
type NotFoundError struct {
	Kind string // "user" or "log entry"
	Key  string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.Key) }

// PermissionError marks an operation the user may not perform, such as
// deleting a log entry outside the editable window.
type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string { return e.Msg }

// SyncError wraps a remote read/write failure. Optimistic local mutations
// must be rolled back when one is returned; the operation is retryable.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string { return fmt.Sprintf("sync %s: %v", e.Op, e.Err) }
func (e *SyncError) Unwrap() error { return e.Err }

// ConfigError marks missing configuration at startup. The affected feature
// degrades (local-only persistence, no backups) instead of crashing.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("missing configuration: %s", e.Key) }
