// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package keystore

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrDuplicate is returned when a label is already taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned when no key matches an ID or label.
	ErrNotFound = errors.New("key not found")
	// ErrUnsupported is returned for an unknown database type.
	ErrUnsupported = errors.New("unsupported database type")
)

// mapDBError folds driver-specific failures into the package sentinels.
// Unique violations differ per backend: sqlite says "UNIQUE constraint",
// postgres uses SQLSTATE 23505 and mysql error 1062.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	le := strings.ToLower(err.Error())
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
