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

package gitaccess

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound means a commit hash prefix matched nothing.
var ErrObjectNotFound = errors.New("gitaccess: object not found")

// ErrAmbiguousPrefix means a commit hash prefix matched more than one
// commit; the CommitHash searcher turns this into a warning, not an error
// (spec §4.3 "CommitHash" row).
var ErrAmbiguousPrefix = errors.New("gitaccess: ambiguous commit hash prefix")

// retryableIO retries fn up to 3 times with exponential backoff, matching
// spec §4.1's "transient I/O retried up to 3 times" contract. It does not
// retry ErrObjectNotFound/ErrAmbiguousPrefix or context cancellation.
func retryableIO(ctx context.Context, fn func() error) error {
	const maxAttempts = 3
	backoff := 20 * time.Millisecond
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrAmbiguousPrefix) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
