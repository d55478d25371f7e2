// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"context"
	"crypto/rand"
	"errors"
	"testing"
)

func TestGeneratePrime_BitLengthAndParity(t *testing.T) {
	ctx := context.Background()
	for _, bits := range []int{2, 3, 8, 17, 64, 128, 256} {
		for i := 0; i < 5; i++ {
			p, err := GeneratePrime(ctx, bits, rand.Reader)
			if err != nil {
				t.Fatalf("GeneratePrime(%d): %v", bits, err)
			}
			if p.BitLen() != bits {
				t.Fatalf("GeneratePrime(%d) returned %d-bit value %s", bits, p.BitLen(), p)
			}
			if bits > 1 && p.Bit(0) == 0 {
				t.Fatalf("GeneratePrime(%d) returned even value %s", bits, p)
			}
			if !p.ProbablyPrime(20) {
				t.Fatalf("GeneratePrime(%d) returned composite %s", bits, p)
			}
		}
	}
}

func TestGeneratePrime_RejectsTinyLengths(t *testing.T) {
	for _, bits := range []int{1, 0, -3} {
		if _, err := GeneratePrime(context.Background(), bits, rand.Reader); !errors.Is(err, ErrGeneration) {
			t.Fatalf("GeneratePrime(%d): got %v, want ErrGeneration", bits, err)
		}
	}
}

func TestGeneratePrime_ExhaustsOnStuckSource(t *testing.T) {
	// A zero source always yields 2^15+1 = 32769 = 3 * 10923.
	g := NewPrimeGenerator(DefaultConfidence, 1, 50)
	_, err := g.Generate(context.Background(), 16, zeroReader{})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("got %v, want ErrGeneration", err)
	}
}

func TestGeneratePrime_FailingSource(t *testing.T) {
	_, err := GeneratePrime(context.Background(), 64, failingReader{})
	if !errors.Is(err, ErrGeneration) || !errors.Is(err, errBrokenSource) {
		t.Fatalf("got %v, want ErrGeneration wrapping the source error", err)
	}
}

func TestPrimeGenerator_ParallelWorkers(t *testing.T) {
	g := NewPrimeGenerator(DefaultConfidence, 4, 0)
	for i := 0; i < 5; i++ {
		p, err := g.Generate(context.Background(), 192, rand.Reader)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if p.BitLen() != 192 || !p.ProbablyPrime(20) {
			t.Fatalf("parallel search returned bad prime %s (%d bits)", p, p.BitLen())
		}
	}
}

func TestPrimeGenerator_ParallelExhaustion(t *testing.T) {
	g := NewPrimeGenerator(DefaultConfidence, 3, 30)
	if _, err := g.Generate(context.Background(), 16, zeroReader{}); !errors.Is(err, ErrGeneration) {
		t.Fatalf("got %v, want ErrGeneration", err)
	}
}

func TestPrimeGenerator_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		g := NewPrimeGenerator(DefaultConfidence, workers, 0)
		if _, err := g.Generate(ctx, 256, rand.Reader); !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: got %v, want context.Canceled", workers, err)
		}
	}
}

func TestNewPrimeGenerator_ClampsArguments(t *testing.T) {
	g := NewPrimeGenerator(0, -1, -5)
	if g.confidence != DefaultConfidence || g.workers != 1 || g.maxAttempts != 0 {
		t.Fatalf("unexpected clamped generator: %+v", g)
	}
	if got := g.budget(64); got != 6400 {
		t.Fatalf("default budget for 64 bits = %d, want 6400", got)
	}
}
