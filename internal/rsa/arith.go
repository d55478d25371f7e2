// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"math/big"

	"github.com/cronokirby/safenum"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigTwo  = big.NewInt(2)
)

// ExtendedGCD returns g = gcd(a, b) together with x and y such that
// a*x + b*y = g. Both a and b must be non-negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		// (oldR, r) = (r, oldR - q*r), and likewise for s and t.
		tmp.Mul(q, r)
		oldR, r = r, oldR.Sub(oldR, tmp)
		tmp.Mul(q, s)
		oldS, s = s, oldS.Sub(oldS, tmp)
		tmp.Mul(q, t)
		oldT, t = t, oldT.Sub(oldT, tmp)
	}
	return oldR, oldS, oldT
}

// ModInverse returns the x in [1, m) with a*x ≡ 1 (mod m). The second result
// is false when a and m are not coprime or m < 2.
func ModInverse(a, m *big.Int) (*big.Int, bool) {
	if m.Cmp(bigTwo) < 0 {
		return nil, false
	}
	reduced := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(reduced, m)
	if g.Cmp(bigOne) != 0 {
		return nil, false
	}
	// Mod is Euclidean, so a negative coefficient lands in [0, m).
	return x.Mod(x, m), true
}

// expPublic computes base^exp mod m with math/big. It is used where the
// exponent is public and timing leaks nothing.
func expPublic(base, exp, m *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, m)
}

// expSecret computes base^exp mod m in constant time with respect to the
// exponent. base must already be reduced modulo m.
func expSecret(base, exp, m *big.Int) *big.Int {
	mod := safenum.ModulusFromBytes(m.Bytes())
	var x, y, z safenum.Nat
	x.SetBytes(base.Bytes())
	y.SetBytes(exp.Bytes())
	z.Exp(&x, &y, mod)
	return new(big.Int).SetBytes(z.Bytes())
}

// wipe zeroes the limbs backing each value and resets it to zero.
func wipe(values ...*big.Int) {
	for _, v := range values {
		if v == nil {
			continue
		}
		words := v.Bits()
		for i := range words {
			words[i] = 0
		}
		v.SetInt64(0)
	}
}
