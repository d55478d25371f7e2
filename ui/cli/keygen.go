// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toeirei/rsacore/internal/entropy"
	"github.com/toeirei/rsacore/internal/i18n"
	"github.com/toeirei/rsacore/internal/logging"
	"github.com/toeirei/rsacore/internal/rsa"
)

// seedPassphraseEnv supplies the seed passphrase without a prompt.
const seedPassphraseEnv = "RSACORE_SEED_PASSPHRASE"

func newKeygenCmd(a *app) *cobra.Command {
	var (
		bits        int
		exponent    int
		label       string
		save        bool
		showPrivate bool
		copyModulus bool
		seedSalt    string
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: i18n.T("keygen.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if bits == 0 {
				bits = a.cfg.Keygen.Bits
			}
			opts := a.cfg.BuilderOptions()
			if exponent != 0 {
				opts.PublicExponent = exponent
			}

			random := entropy.System()
			if seedSalt != "" {
				pass, err := readSeedPassphrase(cmd)
				if err != nil {
					return err
				}
				seeded, err := entropy.NewSeeded(pass, []byte(seedSalt))
				clear(pass)
				if err != nil {
					return err
				}
				random = seeded
				if opts.Workers != 1 {
					logging.Infof("%s", i18n.T("cli.seeded_single_worker"))
					opts.Workers = 1
				}
			}

			start := time.Now()
			kp, err := rsa.NewKeyPairBuilder(opts).Generate(cmd.Context(), bits, random)
			if err != nil {
				return err
			}

			r := newRenderer(cmd.OutOrStdout())
			r.success(i18n.T("keygen.generated", kp.Public.Size(), time.Since(start).Round(time.Millisecond)))
			r.fields(keyFields(kp, showPrivate)...)

			if save {
				if label == "" {
					label = "key-" + strconv.FormatInt(time.Now().Unix(), 10)
				}
				s, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				entry, err := s.Save(cmd.Context(), label, kp)
				if err != nil {
					return err
				}
				r.success(i18n.T("keygen.saved", entry.Label, entry.ID))
			}

			if copyModulus {
				if err := clipboard.WriteAll(kp.Public.N().String()); err != nil {
					logging.Warnf("%s", i18n.T("keygen.copy_failed", err))
				} else {
					r.success(i18n.T("keygen.copied"))
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&bits, "bits", "b", 0, "Modulus length in bits (default keygen.bits)")
	f.IntVarP(&exponent, "exponent", "e", 0, "First public exponent to try (default keygen.public_exponent)")
	f.StringVarP(&label, "label", "l", "", "Label for --save")
	f.BoolVar(&save, "save", false, "Store the key pair in the key store")
	f.BoolVar(&showPrivate, "show-private", false, "Print the private exponent")
	f.BoolVar(&copyModulus, "copy", false, "Copy the modulus to the clipboard")
	f.StringVar(&seedSalt, "seed-salt", "", "Derive randomness from a passphrase and this salt (reproducible keys)")
	return cmd
}

func newPrimeCmd(a *app) *cobra.Command {
	var (
		bits       int
		confidence int
	)
	cmd := &cobra.Command{
		Use:   "prime",
		Short: i18n.T("prime.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if confidence == 0 {
				confidence = a.cfg.Keygen.Confidence
			}
			g := rsa.NewPrimeGenerator(confidence, a.cfg.Keygen.Workers, a.cfg.Keygen.MaxAttempts)
			p, err := g.Generate(cmd.Context(), bits, entropy.System())
			if err != nil {
				return err
			}
			newRenderer(cmd.OutOrStdout()).value(p)
			return nil
		},
	}
	cmd.Flags().IntVarP(&bits, "bits", "b", 512, "Prime length in bits")
	cmd.Flags().IntVar(&confidence, "confidence", 0, "Miller-Rabin rounds (default keygen.confidence)")
	return cmd
}

func keyFields(kp *rsa.KeyPair, showPrivate bool) []field {
	fs := []field{
		{i18n.T("field.bits"), strconv.Itoa(kp.Public.Size())},
		{i18n.T("field.modulus"), kp.Public.N().String()},
		{i18n.T("field.public_exponent"), kp.Public.E().String()},
	}
	if showPrivate {
		fs = append(fs, field{i18n.T("field.private_exponent"), kp.Private.D().String()})
	}
	return fs
}

// readSeedPassphrase takes the passphrase from the environment, then from a
// no-echo terminal prompt, then from the first line of stdin.
func readSeedPassphrase(cmd *cobra.Command) ([]byte, error) {
	if v := os.Getenv(seedPassphraseEnv); v != "" {
		return []byte(v), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), i18n.T("cli.seed_prompt"))
		pass, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("read passphrase: %w", err)
		}
		return pass, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
