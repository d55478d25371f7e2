// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

// Package entropy provides the randomness sources handed to key generation:
// the operating system CSPRNG, or a reproducible stream derived from a
// passphrase.
package entropy

import (
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

// ErrInvalidSeed is returned when a passphrase or salt is unusable.
var ErrInvalidSeed = errors.New("invalid seed")

// MinSaltLen is the shortest salt NewSeeded accepts.
const MinSaltLen = 8

// Argon2id cost parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

const hkdfInfo = "rsacore seeded stream v1"

// System returns the operating system CSPRNG.
func System() io.Reader { return rand.Reader }

// Seeded is a deterministic keystream. Equal passphrase and salt always yield
// the same byte sequence. It is safe for concurrent use, but concurrent
// readers interleave nondeterministically.
type Seeded struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewSeeded derives a stream from passphrase and salt with Argon2id followed
// by HKDF-SHA-512, which keys a ChaCha20 keystream.
func NewSeeded(passphrase, salt []byte) (*Seeded, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", ErrInvalidSeed)
	}
	if len(salt) < MinSaltLen {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes", ErrInvalidSeed, MinSaltLen)
	}

	master := argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	defer clear(master)

	material := make([]byte, chacha20.KeySize+chacha20.NonceSize)
	defer clear(material)
	if _, err := io.ReadFull(hkdf.New(sha512.New, master, salt, []byte(hkdfInfo)), material); err != nil {
		return nil, fmt.Errorf("expand seed: %w", err)
	}

	c, err := chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:])
	if err != nil {
		return nil, fmt.Errorf("init keystream: %w", err)
	}
	return &Seeded{cipher: c}, nil
}

// Read fills p with the next keystream bytes. It never fails.
func (s *Seeded) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(p)
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}
