// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import "errors"

// Every error returned by this package wraps exactly one of the sentinels
// below, so callers classify failures with errors.Is.
var (
	// ErrInvalidParameter reports a configuration or input error during key
	// construction: a bit length below the minimum, an unusable public
	// exponent, or no coprime exponent within the search bound.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrGeneration reports that prime search gave up, either because the
	// attempt budget ran out or because the randomness source failed.
	ErrGeneration = errors.New("generation error")

	// ErrInvalidInput reports a cipher or signature operand outside [0, n).
	ErrInvalidInput = errors.New("invalid input")

	// ErrVerification reports a signature that does not match its message.
	ErrVerification = errors.New("verification failed")
)
