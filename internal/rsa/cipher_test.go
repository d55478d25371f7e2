// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
)

func textbookPair(t *testing.T) *KeyPair {
	t.Helper()
	kp, err := deriveKeyPair(big.NewInt(151), big.NewInt(157), 7, 0)
	if err != nil {
		t.Fatalf("deriveKeyPair: %v", err)
	}
	return kp
}

func TestEncryptDecrypt_AllSmallMessages(t *testing.T) {
	kp := textbookPair(t)
	for m := int64(0); m < 23707; m += 97 {
		c, err := Encrypt(big.NewInt(m), kp.Public)
		if err != nil {
			t.Fatalf("Encrypt(%d): %v", m, err)
		}
		back, err := Decrypt(c, kp.Private)
		if err != nil {
			t.Fatalf("Decrypt(%s): %v", c, err)
		}
		if back.Int64() != m {
			t.Fatalf("round trip %d -> %s -> %s", m, c, back)
		}
	}
}

func TestEncrypt_FixedPoints(t *testing.T) {
	kp := textbookPair(t)
	nMinusOne := new(big.Int).Sub(kp.Public.N(), bigOne)
	for _, m := range []*big.Int{big.NewInt(0), big.NewInt(1), nMinusOne} {
		c, err := Encrypt(m, kp.Public)
		if err != nil {
			t.Fatalf("Encrypt(%s): %v", m, err)
		}
		// e is odd, so (n-1)^e = (-1)^e = n-1.
		if c.Cmp(m) != 0 {
			t.Fatalf("Encrypt(%s) = %s, want %s", m, c, m)
		}
	}
}

func TestEncryptDecrypt_RejectOutOfRange(t *testing.T) {
	kp := textbookPair(t)
	n := kp.Public.N()
	bad := []*big.Int{nil, big.NewInt(-1), n, new(big.Int).Add(n, bigOne)}
	for _, v := range bad {
		if _, err := Encrypt(v, kp.Public); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Encrypt(%v): got %v, want ErrInvalidInput", v, err)
		}
		if _, err := Decrypt(v, kp.Private); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Decrypt(%v): got %v, want ErrInvalidInput", v, err)
		}
	}
	if _, err := Encrypt(big.NewInt(1), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil public key: got %v", err)
	}
	if _, err := Decrypt(big.NewInt(1), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil private key: got %v", err)
	}
}

func TestEncrypt_DoesNotMutateInput(t *testing.T) {
	kp := textbookPair(t)
	m := big.NewInt(42)
	if _, err := Encrypt(m, kp.Public); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if m.Int64() != 42 {
		t.Fatalf("message mutated to %s", m)
	}
}

func TestNewKeys_Validation(t *testing.T) {
	n := big.NewInt(23707)
	if _, err := NewPublicKey(n, big.NewInt(7)); err != nil {
		t.Fatalf("NewPublicKey: %v", err)
	}
	for _, tc := range []struct{ n, e *big.Int }{
		{nil, big.NewInt(7)},
		{big.NewInt(1), big.NewInt(7)},
		{n, big.NewInt(1)},
		{n, n},
	} {
		if _, err := NewPublicKey(tc.n, tc.e); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("NewPublicKey(%v, %v): got %v", tc.n, tc.e, err)
		}
	}
	for _, d := range []*big.Int{nil, big.NewInt(0), n} {
		if _, err := NewPrivateKey(n, d); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("NewPrivateKey(n, %v): got %v", d, err)
		}
	}
}

func TestKeys_AccessorsReturnCopies(t *testing.T) {
	kp := textbookPair(t)
	kp.Public.N().SetInt64(1)
	kp.Public.E().SetInt64(1)
	kp.Private.D().SetInt64(1)
	if kp.Public.N().Int64() != 23707 || kp.Public.E().Int64() != 7 || kp.Private.D().Int64() != 3343 {
		t.Fatal("accessor copies alias key state")
	}
	if kp.Public.Size() != 15 || kp.Private.Size() != 15 {
		t.Fatalf("Size = %d/%d, want 15", kp.Public.Size(), kp.Private.Size())
	}
	clone, _ := NewPublicKey(big.NewInt(23707), big.NewInt(7))
	if !kp.Public.Equal(clone) {
		t.Fatal("Equal: want true for identical keys")
	}
}

func TestPrivateKey_FormattingRedactsExponent(t *testing.T) {
	kp := textbookPair(t)
	for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%d"} {
		for _, v := range []any{kp.Private, *kp.Private} {
			out := fmt.Sprintf(verb, v)
			if strings.Contains(out, "3343") {
				t.Fatalf("%s of %T leaked d: %q", verb, v, out)
			}
			if !strings.Contains(out, "[SECRET]") {
				t.Fatalf("%s of %T: missing redaction marker in %q", verb, v, out)
			}
		}
	}
}
