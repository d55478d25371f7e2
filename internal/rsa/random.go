// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"
)

// lockedReader serializes reads so several prime-search workers can share
// one randomness source. Each Read is a separate, complete draw.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func newLockedReader(r io.Reader) *lockedReader {
	if lr, ok := r.(*lockedReader); ok {
		return lr
	}
	return &lockedReader{r: r}
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return io.ReadFull(l.r, p)
}

// randomCandidate draws a uniformly random odd integer of exactly bits bits.
// topBits controls how many of the most significant bits are forced to one;
// two guarantees that the product of two such values has the full combined
// length.
func randomCandidate(random io.Reader, bits, topBits int) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(random, buf); err != nil {
		return nil, fmt.Errorf("%w: read randomness: %w", ErrGeneration, err)
	}

	// Clear the excess high bits of the leading byte.
	if excess := len(buf)*8 - bits; excess > 0 {
		buf[0] &= byte(0xff >> excess)
	}

	c := new(big.Int).SetBytes(buf)
	for i := 1; i <= topBits && i <= bits; i++ {
		c.SetBit(c, bits-i, 1)
	}
	c.SetBit(c, 0, 1)
	return c, nil
}

// randomBelow draws a uniformly random integer in [lo, hi).
func randomBelow(random io.Reader, lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	if span.Sign() <= 0 {
		return nil, fmt.Errorf("%w: empty range [%s, %s)", ErrInvalidParameter, lo, hi)
	}
	v, err := rand.Int(random, span)
	if err != nil {
		return nil, fmt.Errorf("%w: read randomness: %w", ErrGeneration, err)
	}
	return v.Add(v, lo), nil
}
