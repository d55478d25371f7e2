// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"fmt"
	"math/big"

	"github.com/toeirei/rsacore/internal/metrics"
)

// Encrypt returns message^e mod n. The message must lie in [0, n); no
// padding is applied.
func Encrypt(message *big.Int, key *PublicKey) (*big.Int, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrInvalidInput)
	}
	if err := checkOperand("message", message, key.n); err != nil {
		return nil, err
	}
	metrics.CipherOperations.WithLabelValues("encrypt").Inc()
	return expPublic(message, key.e, key.n), nil
}

// Decrypt returns ciphertext^d mod n. The ciphertext must lie in [0, n).
// The exponentiation runs in constant time with respect to d.
func Decrypt(ciphertext *big.Int, key *PrivateKey) (*big.Int, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrInvalidInput)
	}
	if err := checkOperand("ciphertext", ciphertext, key.n); err != nil {
		return nil, err
	}
	metrics.CipherOperations.WithLabelValues("decrypt").Inc()
	return expSecret(ciphertext, key.d, key.n), nil
}

func checkOperand(name string, v, n *big.Int) error {
	switch {
	case v == nil:
		return fmt.Errorf("%w: %s is nil", ErrInvalidInput, name)
	case v.Sign() < 0:
		return fmt.Errorf("%w: %s is negative", ErrInvalidInput, name)
	case v.Cmp(n) >= 0:
		return fmt.Errorf("%w: %s is not below the modulus", ErrInvalidInput, name)
	}
	return nil
}
