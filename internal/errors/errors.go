// Copyright 2025 The Gitsearch Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package errors defines the structured error taxonomy shared by every layer
// of the search core: a small fixed set of Kinds, each carrying a
// user-facing Title, a Detail explaining what happened, and a Suggestion for
// what to do about it.
package errors

import "fmt"

// Kind identifies which of the fixed error categories an Error belongs to.
type Kind string

const (
	// BadQuery means the query is empty, contains a pattern that fails to
	// compile, or has inconsistent criteria. Fatal for the request.
	BadQuery Kind = "bad_query"
	// NotARepository means the path is not a valid Git repository. Fatal.
	NotARepository Kind = "not_a_repository"
	// RepositoryCorrupt means Git objects are unreadable. Fatal.
	RepositoryCorrupt Kind = "repository_corrupt"
	// NoApplicableSearcher means no registered searcher consumes any
	// criterion in the query. Fatal.
	NoApplicableSearcher Kind = "no_applicable_searcher"
	// IOFailure means transient I/O was retried by the Git layer and
	// exhausted its retries. Non-fatal at the per-object level.
	IOFailure Kind = "io_failure"
	// CacheUnavailable means a cache backend error occurred; the cache
	// degrades to pass-through. Non-fatal.
	CacheUnavailable Kind = "cache_unavailable"
	// Cancelled means the caller or a deadline stopped the request.
	// Non-fatal; partial results are preserved.
	Cancelled Kind = "cancelled"
	// ResourceLimit means a result, size, or commit cap was reached.
	// Non-fatal; marks the response truncated.
	ResourceLimit Kind = "resource_limit"
	// ConfigError means configuration could not be loaded or parsed.
	ConfigError Kind = "config_error"
	// InternalError means an invariant was violated; this is always a bug.
	InternalError Kind = "internal_error"
	// PermissionError means a filesystem permission check failed.
	PermissionError Kind = "permission_error"
)

// Fatal reports whether errors of this Kind must terminate the request
// stream (spec.md §7 propagation policy).
func (k Kind) Fatal() bool {
	switch k {
	case BadQuery, NotARepository, RepositoryCorrupt, NoApplicableSearcher, ConfigError, InternalError, PermissionError:
		return true
	default:
		return false
	}
}

// Error is the structured error type returned across package boundaries.
// Title is short and user-facing; Detail explains what happened; Suggestion
// tells the caller what to do next. Cause, if set, is the underlying error.
type Error struct {
	Kind       Kind
	Title      string
	Detail     string
	Suggestion string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, title, detail, suggestion string, cause error) *Error {
	return &Error{Kind: kind, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewBadQuery builds a BadQuery error.
func NewBadQuery(detail, suggestion string, cause error) *Error {
	return newError(BadQuery, "Invalid query", detail, suggestion, cause)
}

// NewNotARepository builds a NotARepository error.
func NewNotARepository(detail, suggestion string, cause error) *Error {
	return newError(NotARepository, "Not a Git repository", detail, suggestion, cause)
}

// NewRepositoryCorrupt builds a RepositoryCorrupt error.
func NewRepositoryCorrupt(detail, suggestion string, cause error) *Error {
	return newError(RepositoryCorrupt, "Repository is corrupt", detail, suggestion, cause)
}

// NewNoApplicableSearcher builds a NoApplicableSearcher error.
func NewNoApplicableSearcher(detail, suggestion string, cause error) *Error {
	return newError(NoApplicableSearcher, "No searcher can run this query", detail, suggestion, cause)
}

// NewIOFailure builds an IOFailure error.
func NewIOFailure(detail, suggestion string, cause error) *Error {
	return newError(IOFailure, "I/O failure", detail, suggestion, cause)
}

// NewCacheUnavailable builds a CacheUnavailable error.
func NewCacheUnavailable(detail, suggestion string, cause error) *Error {
	return newError(CacheUnavailable, "Cache unavailable", detail, suggestion, cause)
}

// NewCancelled builds a Cancelled error.
func NewCancelled(detail string) *Error {
	return newError(Cancelled, "Search cancelled", detail, "", nil)
}

// NewResourceLimit builds a ResourceLimit error.
func NewResourceLimit(detail string) *Error {
	return newError(ResourceLimit, "Resource limit reached", detail, "", nil)
}

// NewConfigError builds a ConfigError error. Mirrors the teacher's
// errors.NewConfigError(title, detail, suggestion, cause) call shape.
func NewConfigError(title, detail, suggestion string, cause error) *Error {
	return newError(ConfigError, title, detail, suggestion, cause)
}

// NewInternalError builds an InternalError error.
func NewInternalError(title, detail, suggestion string, cause error) *Error {
	return newError(InternalError, title, detail, suggestion, cause)
}

// NewPermissionError builds a PermissionError error.
func NewPermissionError(title, detail, suggestion string, cause error) *Error {
	return newError(PermissionError, title, detail, suggestion, cause)
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, and
// InternalError otherwise.
func KindOf(err error) Kind {
	var e *Error
	if as(err, &e) {
		return e.Kind
	}
	return InternalError
}

// as is a tiny local indirection over errors.As to avoid importing the
// stdlib package under the same name as this one inside this file's doc
// comments.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
