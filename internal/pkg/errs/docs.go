// Package errs provides the typed errors shared by the freight service.
//
// Every error type follows the same shape:
//   - a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...) used with errors.Is
//   - a struct carrying the offending parameter and an optional cause
//   - New...Error and New...ErrorWithCause constructors
//   - Unwrap returning the sentinel so callers can classify failures
//
// The sentinels split into two families. Validation errors (required, invalid,
// out of range) mean the request itself is wrong. Precondition errors (not
// found, precondition failed) mean the request is well formed but the current
// state does not allow it. Anything else is treated as fatal to the request.
package errs
