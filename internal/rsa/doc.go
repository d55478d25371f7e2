// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

// Package rsa implements textbook RSA: Miller-Rabin primality testing, random
// prime generation, key pair construction and the raw modular-exponentiation
// cipher. No padding is applied and no key encoding is defined here; callers
// own both concerns.
//
// The package consumes an abstract randomness source (an io.Reader) and never
// provisions one itself. See internal/entropy for the readers used by the CLI.
package rsa // import "github.com/toeirei/rsacore/internal/rsa"
