// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/toeirei/rsacore/internal/i18n"
	"github.com/toeirei/rsacore/internal/rsa"
)

// parseNat reads a non-negative decimal integer argument.
func parseNat(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", rsa.ErrInvalidInput, i18n.T("cli.invalid_integer", s))
	}
	return v, nil
}

func newEncryptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [--] <key> <message>",
		Short:   i18n.T("encrypt.short"),
		Example: "  rsacore encrypt mykey 42\n  rsacore encrypt -- mykey -5   # \"--\" ends flag parsing before values starting with \"-\"",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseNat(args[1])
			if err != nil {
				return err
			}
			kp, err := a.loadKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c, err := rsa.Encrypt(m, kp.Public)
			if err != nil {
				return err
			}
			newRenderer(cmd.OutOrStdout()).value(c)
			return nil
		},
	}
}

func newDecryptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [--] <key> <ciphertext>",
		Short:   i18n.T("decrypt.short"),
		Example: "  rsacore decrypt mykey 19073",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseNat(args[1])
			if err != nil {
				return err
			}
			kp, err := a.loadKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m, err := rsa.Decrypt(c, kp.Private)
			if err != nil {
				return err
			}
			newRenderer(cmd.OutOrStdout()).value(m)
			return nil
		},
	}
}

func newSignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <key> <message>",
		Short: i18n.T("sign.short"),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := a.loadKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s, err := rsa.Sign([]byte(args[1]), kp.Private)
			if err != nil {
				return err
			}
			newRenderer(cmd.OutOrStdout()).value(s)
			return nil
		},
	}
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <key> <message> <signature>",
		Short: i18n.T("verify.short"),
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := parseNat(args[2])
			if err != nil {
				return err
			}
			kp, err := a.loadKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			err = rsa.Verify([]byte(args[1]), sig, kp.Public)
			if errors.Is(err, rsa.ErrVerification) {
				return fmt.Errorf("%w: %s", err, i18n.T("verify.failed"))
			}
			if err != nil {
				return err
			}
			newRenderer(cmd.OutOrStdout()).success(i18n.T("verify.ok"))
			return nil
		},
	}
}
