// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/toeirei/rsacore/internal/logging"
	"github.com/toeirei/rsacore/internal/metrics"
)

// attemptsPerBit scales the default draw budget with the prime size. A random
// odd b-bit integer is prime with probability about 2.9/b, so 100*b draws
// fail only with negligible probability on a working randomness source.
const attemptsPerBit = 100

// errFound stops sibling workers once a prime has been found.
var errFound = errors.New("prime found")

// PrimeGenerator draws random primes of an exact bit length.
// The zero value is not usable; construct with NewPrimeGenerator.
type PrimeGenerator struct {
	confidence  int
	workers     int
	maxAttempts int
}

// NewPrimeGenerator returns a generator running confidence Miller-Rabin rounds
// per candidate across workers concurrent search loops. maxAttempts caps the
// number of candidates drawn per prime; zero selects 100 draws per bit.
func NewPrimeGenerator(confidence, workers, maxAttempts int) *PrimeGenerator {
	if confidence < 1 {
		confidence = DefaultConfidence
	}
	if workers < 1 {
		workers = 1
	}
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	return &PrimeGenerator{confidence: confidence, workers: workers, maxAttempts: maxAttempts}
}

// GeneratePrime returns a random prime of exactly bitLength bits using the
// default confidence on a single worker.
func GeneratePrime(ctx context.Context, bitLength int, random io.Reader) (*big.Int, error) {
	return NewPrimeGenerator(DefaultConfidence, 1, 0).Generate(ctx, bitLength, random)
}

// Generate returns a random prime of exactly bitLength bits with its top bit
// set. It fails with ErrGeneration if bitLength < 2, if the randomness source
// fails, or if the attempt budget is exhausted.
func (g *PrimeGenerator) Generate(ctx context.Context, bitLength int, random io.Reader) (*big.Int, error) {
	return g.generate(ctx, bitLength, 1, random)
}

func (g *PrimeGenerator) budget(bitLength int) int64 {
	if g.maxAttempts > 0 {
		return int64(g.maxAttempts)
	}
	return int64(attemptsPerBit * bitLength)
}

// generate runs the candidate search. topBits is forwarded to
// randomCandidate; key generation asks for two.
func (g *PrimeGenerator) generate(ctx context.Context, bitLength, topBits int, random io.Reader) (*big.Int, error) {
	if bitLength < 2 {
		return nil, fmt.Errorf("%w: bit length must be at least 2, got %d", ErrGeneration, bitLength)
	}
	if random == nil {
		return nil, fmt.Errorf("%w: no randomness source", ErrGeneration)
	}
	if bitLength == 2 {
		// The only odd 2-bit integer is 3; the search below would find it
		// too, but forcing two top bits would overflow the length.
		topBits = 1
	}

	budget := g.budget(bitLength)
	var drawn atomic.Int64

	if g.workers == 1 {
		p, err := g.search(ctx, bitLength, topBits, random, budget, &drawn)
		if err != nil {
			return nil, err
		}
		metrics.PrimesFound.Inc()
		return p, nil
	}

	shared := newLockedReader(random)
	eg, egCtx := errgroup.WithContext(ctx)
	results := make(chan *big.Int, g.workers)
	for w := 0; w < g.workers; w++ {
		eg.Go(func() error {
			p, err := g.search(egCtx, bitLength, topBits, shared, budget, &drawn)
			if err != nil {
				return err
			}
			results <- p
			return errFound
		})
	}

	err := eg.Wait()
	close(results)
	if p, ok := <-results; ok {
		metrics.PrimesFound.Inc()
		return p, nil
	}
	if errors.Is(err, errFound) {
		return nil, fmt.Errorf("%w: worker reported success without a result", ErrGeneration)
	}
	return nil, err
}

// search draws and tests candidates until one passes, the shared budget runs
// out, or ctx is done.
func (g *PrimeGenerator) search(ctx context.Context, bitLength, topBits int, random io.Reader, budget int64, drawn *atomic.Int64) (*big.Int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := drawn.Add(1)
		if n > budget {
			return nil, fmt.Errorf("%w: exhausted after %d candidates of %d bits", ErrGeneration, budget, bitLength)
		}

		c, err := randomCandidate(random, bitLength, topBits)
		if err != nil {
			return nil, err
		}
		metrics.PrimeCandidates.Inc()

		ok, err := IsProbablyPrime(c, g.confidence, random)
		if err != nil {
			return nil, err
		}
		if ok {
			logging.Debugf("rsa: found %d-bit prime after %d candidates", bitLength, n)
			return c, nil
		}
	}
}
