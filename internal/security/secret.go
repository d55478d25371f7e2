// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security wraps private key material so that printing, logging or
// JSON encoding it never reveals the value.
package security

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
)

const redacted = "[SECRET]"

// Secret holds a private integer as decimal digits.
type Secret []byte

// FromBigInt returns the decimal form of v as a Secret.
func FromBigInt(v *big.Int) Secret {
	if v == nil {
		return nil
	}
	return Secret(v.Append(nil, 10))
}

// FromString copies in into a Secret.
func FromString(in string) Secret { return Secret([]byte(in)) }

// BigInt parses the secret back into an integer.
func (s Secret) BigInt() (*big.Int, error) {
	v, ok := new(big.Int).SetString(string(s), 10)
	if !ok {
		return nil, fmt.Errorf("secret is not a decimal integer")
	}
	return v, nil
}

// Reveal returns the decimal digits. Only backup and explicit
// --show-private output should call it.
func (s Secret) Reveal() string { return string(s) }

func (s Secret) String() string { return redacted }

// Format implements fmt.Formatter so every verb prints the placeholder.
func (s Secret) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, redacted)
}

// MarshalJSON redacts.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// Zero overwrites the digits in place.
func (s *Secret) Zero() {
	if s == nil {
		return
	}
	clear(*s)
}

// Value stores the digits as text.
func (s Secret) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *Secret) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = nil
	case []byte:
		*s = append(Secret(nil), v...)
	case string:
		*s = Secret(v)
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
	return nil
}
