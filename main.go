// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

// Command rsacore generates textbook RSA keys and primes and runs the raw
// RSA operations with stored keys.
//
// Usage:
//
//	rsacore keygen --bits 2048 --save --label demo
//	rsacore encrypt demo 42
//
// See --help for all commands.
package main

import (
	"os"

	"github.com/toeirei/rsacore/internal/logging"
	"github.com/toeirei/rsacore/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
