// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"crypto/rand"
	"math/big"
	"testing"
)

func TestExtendedGCD_Bezout(t *testing.T) {
	tests := []struct{ a, b, g int64 }{
		{240, 46, 2},
		{7, 23400, 1},
		{23400, 7, 1},
		{17, 0, 17},
		{0, 9, 9},
		{65537, 3120, 1},
		{12, 18, 6},
	}
	for _, tt := range tests {
		a, b := big.NewInt(tt.a), big.NewInt(tt.b)
		g, x, y := ExtendedGCD(a, b)
		if g.Int64() != tt.g {
			t.Errorf("gcd(%d, %d) = %s, want %d", tt.a, tt.b, g, tt.g)
		}
		lhs := new(big.Int).Add(new(big.Int).Mul(a, x), new(big.Int).Mul(b, y))
		if lhs.Cmp(g) != 0 {
			t.Errorf("%d*%s + %d*%s = %s, want %s", tt.a, x, tt.b, y, lhs, g)
		}
	}
}

func TestExtendedGCD_DoesNotMutateInputs(t *testing.T) {
	a, b := big.NewInt(240), big.NewInt(46)
	ExtendedGCD(a, b)
	if a.Int64() != 240 || b.Int64() != 46 {
		t.Fatalf("inputs mutated: a=%s b=%s", a, b)
	}
}

func TestModInverse(t *testing.T) {
	d, ok := ModInverse(big.NewInt(7), big.NewInt(23400))
	if !ok {
		t.Fatal("expected 7 to be invertible mod 23400")
	}
	if d.Int64() != 3343 {
		t.Fatalf("inverse of 7 mod 23400 = %s, want 3343", d)
	}
	check := new(big.Int).Mul(d, big.NewInt(7))
	if check.Mod(check, big.NewInt(23400)).Int64() != 1 {
		t.Fatalf("7*%s mod 23400 != 1", d)
	}

	if _, ok := ModInverse(big.NewInt(6), big.NewInt(23400)); ok {
		t.Fatal("6 shares a factor with 23400 and must not be invertible")
	}
	if _, ok := ModInverse(big.NewInt(3), big.NewInt(1)); ok {
		t.Fatal("modulus 1 must be rejected")
	}
	// Inputs above the modulus are reduced first.
	if d, ok := ModInverse(big.NewInt(23407), big.NewInt(23400)); !ok || d.Int64() != 3343 {
		t.Fatalf("ModInverse(23407, 23400) = %v, %v; want 3343, true", d, ok)
	}
}

func TestModInverse_MatchesMathBig(t *testing.T) {
	m, err := rand.Prime(rand.Reader, 256)
	if err != nil {
		t.Fatalf("rand.Prime: %v", err)
	}
	for i := 0; i < 20; i++ {
		a, err := rand.Int(rand.Reader, m)
		if err != nil {
			t.Fatalf("rand.Int: %v", err)
		}
		if a.Sign() == 0 {
			continue
		}
		got, ok := ModInverse(a, m)
		if !ok {
			t.Fatalf("ModInverse(%s, prime) reported no inverse", a)
		}
		if want := new(big.Int).ModInverse(a, m); got.Cmp(want) != 0 {
			t.Fatalf("ModInverse(%s) = %s, want %s", a, got, want)
		}
	}
}

func TestExpSecret_MatchesExpPublic(t *testing.T) {
	m := big.NewInt(23707)
	for _, tc := range []struct{ base, exp int64 }{
		{42, 7}, {19073, 3343}, {0, 5}, {1, 3343}, {23706, 2}, {5, 0},
	} {
		b, e := big.NewInt(tc.base), big.NewInt(tc.exp)
		if got, want := expSecret(b, e, m), expPublic(b, e, m); got.Cmp(want) != 0 {
			t.Errorf("%d^%d mod 23707: secret=%s public=%s", tc.base, tc.exp, got, want)
		}
	}
}

func TestWipe(t *testing.T) {
	v := mustBig(t, "123456789012345678901234567890")
	words := v.Bits()
	wipe(v, nil)
	if v.Sign() != 0 {
		t.Fatalf("value not reset: %s", v)
	}
	for i, w := range words {
		if w != 0 {
			t.Fatalf("limb %d not zeroed", i)
		}
	}
}
