// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/toeirei/rsacore/internal/metrics"
)

// Digest returns the SHA-256 digest of message read as a big-endian integer.
func Digest(message []byte) *big.Int {
	sum := sha256.Sum256(message)
	return new(big.Int).SetBytes(sum[:])
}

// Sign returns the textbook signature Digest(message)^d mod n. Keys whose
// modulus does not exceed the digest cannot sign and yield ErrInvalidInput.
func Sign(message []byte, key *PrivateKey) (*big.Int, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidInput)
	}
	h := Digest(message)
	if h.Cmp(key.n) >= 0 {
		return nil, fmt.Errorf("%w: %d-bit modulus is too small for a SHA-256 digest", ErrInvalidInput, key.n.BitLen())
	}
	metrics.CipherOperations.WithLabelValues("sign").Inc()
	return expSecret(h, key.d, key.n), nil
}

// Verify checks that signature^e mod n equals Digest(message). A mismatch
// yields ErrVerification; a signature outside [0, n) yields ErrInvalidInput.
func Verify(message []byte, signature *big.Int, key *PublicKey) error {
	if key == nil {
		return fmt.Errorf("%w: nil public key", ErrInvalidInput)
	}
	if err := checkOperand("signature", signature, key.n); err != nil {
		return err
	}
	metrics.CipherOperations.WithLabelValues("verify").Inc()
	if expPublic(signature, key.e, key.n).Cmp(Digest(message)) != 0 {
		return ErrVerification
	}
	return nil
}
