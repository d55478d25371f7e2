// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"sync/atomic"
	"testing"
)

var errBrokenSource = errors.New("broken source")

// failingReader always fails.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errBrokenSource }

// zeroReader returns only zero bytes, a stand-in for a stuck source.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// countingReader wraps crypto/rand and records how many bytes were read.
type countingReader struct {
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := rand.Read(p)
	c.n.Add(int64(n))
	return n, err
}

var _ io.Reader = (*countingReader)(nil)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad integer literal %q", s)
	}
	return v
}
