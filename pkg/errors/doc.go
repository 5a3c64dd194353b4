// Package errors provides coded errors for clickhooks.
//
// Every failure the hook engine reports carries an ErrorCode so callers
// (and tests) can branch on the kind of failure without matching strings:
//
//	if errors.IsErrorCode(err, errors.ErrNoSuchHook) { ... }
//
// Batch operations join per-item failures with Join; IsErrorCode looks
// through joined errors.
package errors
