// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTextfile_ContainsInstruments(t *testing.T) {
	PrimeCandidates.Inc()
	CipherOperations.WithLabelValues("encrypt").Inc()

	path := filepath.Join(t.TempDir(), "rsacore.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"rsacore_prime_candidates_total",
		`rsacore_cipher_operations_total{operation="encrypt"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in textfile:\n%s", want, out)
		}
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
