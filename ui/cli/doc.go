// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli implements the rsacore command line with Cobra. Commands stay
// thin and delegate to internal/rsa and internal/keystore.
package cli
