// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"fmt"
	"io"
	"math/big"
)

// PublicKey is the immutable pair (n, e).
type PublicKey struct {
	n *big.Int
	e *big.Int
}

// PrivateKey is the immutable pair (n, d). Formatting it never reveals d.
type PrivateKey struct {
	n *big.Int
	d *big.Int
}

// KeyPair binds a PublicKey to the PrivateKey produced in the same run.
// The fields are assignable so stored halves can be reassembled; Check
// verifies that the halves still match and callers that accept a pair from
// elsewhere should run it before use.
type KeyPair struct {
	Public  *PublicKey
	Private *PrivateKey
}

// NewPublicKey rebuilds a public key from stored integers. It checks only
// what can be checked without the factorization: n > 1 and 1 < e < n.
func NewPublicKey(n, e *big.Int) (*PublicKey, error) {
	if n == nil || e == nil {
		return nil, fmt.Errorf("%w: public key needs both n and e", ErrInvalidParameter)
	}
	if n.Cmp(bigTwo) < 0 {
		return nil, fmt.Errorf("%w: modulus must exceed 1", ErrInvalidParameter)
	}
	if e.Cmp(bigOne) <= 0 || e.Cmp(n) >= 0 {
		return nil, fmt.Errorf("%w: public exponent must lie in (1, n)", ErrInvalidParameter)
	}
	return &PublicKey{n: new(big.Int).Set(n), e: new(big.Int).Set(e)}, nil
}

// NewPrivateKey rebuilds a private key from stored integers; requires n > 1
// and 0 < d < n.
func NewPrivateKey(n, d *big.Int) (*PrivateKey, error) {
	if n == nil || d == nil {
		return nil, fmt.Errorf("%w: private key needs both n and d", ErrInvalidParameter)
	}
	if n.Cmp(bigTwo) < 0 {
		return nil, fmt.Errorf("%w: modulus must exceed 1", ErrInvalidParameter)
	}
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return nil, fmt.Errorf("%w: private exponent must lie in (0, n)", ErrInvalidParameter)
	}
	return &PrivateKey{n: new(big.Int).Set(n), d: new(big.Int).Set(d)}, nil
}

// N returns a copy of the modulus.
func (k *PublicKey) N() *big.Int { return new(big.Int).Set(k.n) }

// E returns a copy of the public exponent.
func (k *PublicKey) E() *big.Int { return new(big.Int).Set(k.e) }

// Size returns the modulus length in bits.
func (k *PublicKey) Size() int { return k.n.BitLen() }

// Equal reports whether both keys hold the same n and e.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.n.Cmp(other.n) == 0 && k.e.Cmp(other.e) == 0
}

func (k *PublicKey) String() string {
	return fmt.Sprintf("PublicKey(n=%s, e=%s)", k.n, k.e)
}

// N returns a copy of the modulus.
func (k *PrivateKey) N() *big.Int { return new(big.Int).Set(k.n) }

// D returns a copy of the private exponent. Callers own the copy and should
// not log it.
func (k *PrivateKey) D() *big.Int { return new(big.Int).Set(k.d) }

// Size returns the modulus length in bits.
func (k *PrivateKey) Size() int { return k.n.BitLen() }

// String and Format use value receivers so a dereferenced key is redacted
// as well.
func (k PrivateKey) String() string {
	return fmt.Sprintf("PrivateKey(n=%s, d=[SECRET])", k.n)
}

// Format implements fmt.Formatter so %v, %+v and %#v all stay redacted.
func (k PrivateKey) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, k.String())
}

const maxCheckDraws = 64

// Check encrypts a random value with the public half and decrypts it with the
// private half. It fails with ErrInvalidParameter when the halves do not
// belong together.
func (kp *KeyPair) Check(random io.Reader) error {
	if kp == nil || kp.Public == nil || kp.Private == nil {
		return fmt.Errorf("%w: incomplete key pair", ErrInvalidParameter)
	}
	if kp.Public.n.Cmp(kp.Private.n) != 0 {
		return fmt.Errorf("%w: public and private moduli differ", ErrInvalidParameter)
	}
	if kp.Public.n.Cmp(big.NewInt(3)) <= 0 {
		return fmt.Errorf("%w: modulus too small to check", ErrInvalidParameter)
	}
	// m is drawn coprime to n.
	var m *big.Int
	g := new(big.Int)
	for i := 0; i < maxCheckDraws; i++ {
		var err error
		if m, err = randomBelow(random, bigTwo, kp.Public.n); err != nil {
			return err
		}
		if g.GCD(nil, nil, m, kp.Public.n).Cmp(bigOne) == 0 {
			break
		}
	}
	c, err := Encrypt(m, kp.Public)
	if err != nil {
		return err
	}
	back, err := Decrypt(c, kp.Private)
	if err != nil {
		return err
	}
	if back.Cmp(m) != 0 {
		return fmt.Errorf("%w: private key does not invert public key", ErrInvalidParameter)
	}
	return nil
}
