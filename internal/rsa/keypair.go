// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/toeirei/rsacore/internal/logging"
	"github.com/toeirei/rsacore/internal/metrics"
)

const (
	// DefaultMinBits is the smallest modulus GenerateKeyPair accepts unless
	// configured otherwise.
	DefaultMinBits = 1024
	// RecommendedMinBits is the size below which a warning is logged.
	RecommendedMinBits = 2048
	// DefaultPublicExponent is the first exponent tried.
	DefaultPublicExponent = 65537
	// DefaultExponentSearch bounds how many odd exponents are tried after
	// the configured one.
	DefaultExponentSearch = 1024

	// maxModulusRetries bounds regeneration when n misses the target length
	// or p equals q.
	maxModulusRetries = 64

	// floorBits applies even when MinBits is configured lower: below it
	// there are too few exact-length primes to pick two distinct ones.
	floorBits = 16
)

// Options tunes a KeyPairBuilder. Zero fields take the package defaults.
type Options struct {
	MinBits        int
	PublicExponent int
	Confidence     int
	Workers        int
	MaxAttempts    int
	ExponentSearch int
}

// DefaultOptions returns the defaults used by the zero Options.
func DefaultOptions() Options {
	return Options{
		MinBits:        DefaultMinBits,
		PublicExponent: DefaultPublicExponent,
		Confidence:     DefaultConfidence,
		Workers:        1,
		ExponentSearch: DefaultExponentSearch,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinBits == 0 {
		o.MinBits = d.MinBits
	}
	if o.PublicExponent == 0 {
		o.PublicExponent = d.PublicExponent
	}
	if o.Confidence == 0 {
		o.Confidence = d.Confidence
	}
	if o.Workers == 0 {
		o.Workers = d.Workers
	}
	if o.ExponentSearch == 0 {
		o.ExponentSearch = d.ExponentSearch
	}
	return o
}

// KeyPairBuilder generates RSA key pairs.
type KeyPairBuilder struct {
	opts   Options
	primes *PrimeGenerator

	// primeHook, when set, observes p and q before they are wiped.
	primeHook func(p, q *big.Int)
}

// NewKeyPairBuilder returns a builder for opts.
func NewKeyPairBuilder(opts Options) *KeyPairBuilder {
	opts = opts.withDefaults()
	return &KeyPairBuilder{
		opts:   opts,
		primes: NewPrimeGenerator(opts.Confidence, opts.Workers, opts.MaxAttempts),
	}
}

// GenerateKeyPair generates a key pair with the default options.
func GenerateKeyPair(ctx context.Context, bitLength int, random io.Reader) (*KeyPair, error) {
	return NewKeyPairBuilder(Options{}).Generate(ctx, bitLength, random)
}

// Generate returns a key pair whose modulus has exactly bitLength bits.
// Parameters are validated before any randomness is read.
func (b *KeyPairBuilder) Generate(ctx context.Context, bitLength int, random io.Reader) (*KeyPair, error) {
	if bitLength < b.opts.MinBits {
		return nil, fmt.Errorf("%w: bit length %d is below the minimum of %d", ErrInvalidParameter, bitLength, b.opts.MinBits)
	}
	if bitLength < floorBits {
		return nil, fmt.Errorf("%w: bit length %d is below the hard floor of %d", ErrInvalidParameter, bitLength, floorBits)
	}
	if e := b.opts.PublicExponent; e < 3 || e%2 == 0 {
		return nil, fmt.Errorf("%w: public exponent %d must be odd and at least 3", ErrInvalidParameter, e)
	}
	if bitLength < RecommendedMinBits {
		logging.Warnf("rsa: generating a %d-bit key; %d bits or more is recommended", bitLength, RecommendedMinBits)
	}

	start := time.Now()
	pBits := (bitLength + 1) / 2
	qBits := bitLength / 2

	for try := 0; try < maxModulusRetries; try++ {
		p, err := b.primes.generate(ctx, pBits, 2, random)
		if err != nil {
			return nil, err
		}
		q, err := b.primes.generate(ctx, qBits, 2, random)
		if err != nil {
			wipe(p)
			return nil, err
		}
		if p.Cmp(q) == 0 {
			logging.Debugf("rsa: p equals q, regenerating")
			wipe(p, q)
			continue
		}
		if n := new(big.Int).Mul(p, q); n.BitLen() != bitLength {
			logging.Debugf("rsa: modulus has %d bits, want %d; regenerating", n.BitLen(), bitLength)
			wipe(p, q)
			continue
		}

		if b.primeHook != nil {
			b.primeHook(p, q)
		}
		kp, err := deriveKeyPair(p, q, b.opts.PublicExponent, b.opts.ExponentSearch)
		wipe(p, q)
		if err != nil {
			return nil, err
		}
		metrics.KeyPairsGenerated.Inc()
		metrics.KeyGenerationSeconds.Observe(time.Since(start).Seconds())
		logging.Debugf("rsa: generated %d-bit key pair in %s", bitLength, time.Since(start))
		return kp, nil
	}
	return nil, fmt.Errorf("%w: no valid modulus of %d bits after %d tries", ErrGeneration, bitLength, maxModulusRetries)
}

// deriveKeyPair computes n, φ, e and d from two distinct primes. The totient
// is wiped before returning; p and q are left to the caller.
func deriveKeyPair(p, q *big.Int, exponent, search int) (*KeyPair, error) {
	n := new(big.Int).Mul(p, q)

	pm1 := new(big.Int).Sub(p, bigOne)
	qm1 := new(big.Int).Sub(q, bigOne)
	phi := new(big.Int).Mul(pm1, qm1)
	defer wipe(pm1, qm1, phi)

	e, err := choosePublicExponent(phi, exponent, search)
	if err != nil {
		return nil, err
	}
	d, ok := ModInverse(e, phi)
	if !ok {
		return nil, fmt.Errorf("%w: public exponent %s has no inverse modulo the totient", ErrInvalidParameter, e)
	}

	return &KeyPair{
		Public:  &PublicKey{n: n, e: e},
		Private: &PrivateKey{n: new(big.Int).Set(n), d: d},
	}, nil
}

// choosePublicExponent returns the first odd e >= start with gcd(e, φ) = 1,
// trying at most search+1 values.
func choosePublicExponent(phi *big.Int, start, search int) (*big.Int, error) {
	e := big.NewInt(int64(start))
	step := big.NewInt(2)
	g := new(big.Int)
	for i := 0; i <= search; i++ {
		if e.Cmp(phi) >= 0 {
			return nil, fmt.Errorf("%w: public exponent %s is not below the totient", ErrInvalidParameter, e)
		}
		if g.GCD(nil, nil, e, phi).Cmp(bigOne) == 0 {
			return e, nil
		}
		e.Add(e, step)
	}
	return nil, fmt.Errorf("%w: no public exponent coprime to the totient in %d tries from %d", ErrInvalidParameter, search+1, start)
}
