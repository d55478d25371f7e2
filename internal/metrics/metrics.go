// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

// Package metrics exposes Prometheus instruments for key generation and
// cipher use. Instruments live on a private registry so importing the
// package never touches the global default registerer.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PrimeCandidates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsacore_prime_candidates_total",
			Help: "Number of random prime candidates drawn",
		})
	PrimesFound = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsacore_primes_found_total",
			Help: "Number of primes returned by the prime generator",
		})
	KeyPairsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsacore_key_pairs_generated_total",
			Help: "Number of RSA key pairs generated",
		})
	KeyGenerationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rsacore_key_generation_seconds",
			Help:    "Wall time spent generating one key pair",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		})
	CipherOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsacore_cipher_operations_total",
			Help: "Number of modular exponentiations by operation",
		}, []string{"operation"})
)

// Registry holds every instrument above.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		PrimeCandidates,
		PrimesFound,
		KeyPairsGenerated,
		KeyGenerationSeconds,
		CipherOperations,
	)
}

// WriteTextfile writes the registry in the text exposition format to path,
// for pickup by the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
