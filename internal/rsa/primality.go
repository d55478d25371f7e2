// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package rsa

import (
	"fmt"
	"io"
	"math"
	"math/big"
)

// DefaultConfidence is the number of Miller-Rabin rounds used for key
// generation. The false-positive bound is 4^-40.
const DefaultConfidence = 40

// smallPrimes are used for trial division before Miller-Rabin; most random
// candidates are rejected here at a fraction of the cost of one round.
var smallPrimes = []uint64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151,
	157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233,
	239, 241, 251,
}

// primeGroup is a run of smallPrimes whose product fits in a uint64, so a
// single big reduction yields an exact word-sized residue for all of them.
type primeGroup struct {
	product *big.Int
	primes  []uint64
}

var smallPrimeGroups = func() []primeGroup {
	var groups []primeGroup
	var cur []uint64
	prod := uint64(1)
	for _, sp := range smallPrimes {
		if prod > math.MaxUint64/sp {
			groups = append(groups, primeGroup{new(big.Int).SetUint64(prod), cur})
			cur, prod = nil, 1
		}
		cur = append(cur, sp)
		prod *= sp
	}
	return append(groups, primeGroup{new(big.Int).SetUint64(prod), cur})
}()

// IsProbablyPrime reports whether candidate is prime with a false-positive
// probability of at most 4^-confidence. Miller-Rabin bases are drawn from
// random, which must produce uniformly distributed bytes.
func IsProbablyPrime(candidate *big.Int, confidence int, random io.Reader) (bool, error) {
	if confidence < 1 {
		return false, fmt.Errorf("%w: confidence must be at least 1, got %d", ErrInvalidParameter, confidence)
	}
	if candidate == nil || candidate.Cmp(bigTwo) < 0 {
		return false, nil
	}
	if candidate.Bit(0) == 0 {
		return candidate.Cmp(bigTwo) == 0, nil
	}

	if composite, decided := trialDivide(candidate); decided {
		return !composite, nil
	}
	return millerRabin(candidate, confidence, random)
}

// trialDivide checks candidate against smallPrimes. decided is false when
// the candidate survived and needs a probabilistic test.
func trialDivide(candidate *big.Int) (composite, decided bool) {
	if candidate.IsUint64() && candidate.Uint64() <= smallPrimes[len(smallPrimes)-1] {
		v := candidate.Uint64()
		for _, sp := range smallPrimes {
			if v == sp {
				return false, true
			}
		}
	}

	r := new(big.Int)
	for _, g := range smallPrimeGroups {
		rem := r.Mod(candidate, g.product).Uint64()
		for _, sp := range g.primes {
			if rem%sp == 0 {
				// candidate is not one of smallPrimes (handled above), so a
				// shared factor proves it composite.
				return true, true
			}
		}
	}

	// Any composite below 257^2 has a factor in smallPrimes.
	if candidate.IsUint64() && candidate.Uint64() < 257*257 {
		return false, true
	}
	return false, false
}

// millerRabin runs rounds of the strong probable-prime test on an odd n > 3.
func millerRabin(n *big.Int, rounds int, random io.Reader) (bool, error) {
	nMinusOne := new(big.Int).Sub(n, bigOne)

	// n-1 = 2^s * d with d odd.
	s := nMinusOne.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinusOne, s)

	// Bases are uniform in [2, n-2].
	hi := new(big.Int).Sub(n, bigOne)
	y := new(big.Int)

NextBase:
	for i := 0; i < rounds; i++ {
		a, err := randomBelow(random, bigTwo, hi)
		if err != nil {
			return false, err
		}

		y.Exp(a, d, n)
		if y.Cmp(bigOne) == 0 || y.Cmp(nMinusOne) == 0 {
			continue
		}
		for j := uint(1); j < s; j++ {
			y.Mul(y, y).Mod(y, n)
			if y.Cmp(nMinusOne) == 0 {
				continue NextBase
			}
			if y.Cmp(bigOne) == 0 {
				return false, nil
			}
		}
		return false, nil
	}
	return true, nil
}
