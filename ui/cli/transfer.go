// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/toeirei/rsacore/internal/i18n"
)

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [file]",
		Short: i18n.T("backup.short"),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			name := fmt.Sprintf("rsacore-backup-%s.json.zst", time.Now().Format("2006-01-02-150405"))
			if len(args) == 1 {
				name = args[0]
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}

			// Backups hold private exponents in clear text.
			f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer func() {
				if cerr := f.Close(); err == nil && cerr != nil {
					err = fmt.Errorf("close backup file: %w", cerr)
				}
			}()

			n, err := s.Backup(cmd.Context(), f)
			if err != nil {
				return err
			}
			newRenderer(cmd.OutOrStdout()).success(i18n.T("backup.done", n, name))
			return nil
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: i18n.T("restore.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer func() { _ = f.Close() }()

			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			n, err := s.Restore(cmd.Context(), f, replace)
			if err != nil {
				return err
			}
			newRenderer(cmd.OutOrStdout()).success(i18n.T("restore.done", n, args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Delete all stored keys before restoring")
	return cmd
}
