// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/toeirei/rsacore/internal/i18n"
)

func newKeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: i18n.T("keys.short"),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: i18n.T("keys.list.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			r := newRenderer(cmd.OutOrStdout())
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("keys.none"))
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.ID, e.Label, strconv.Itoa(e.Bits), e.CreatedAt.Local().Format(time.DateTime)})
			}
			r.table([]string{i18n.T("field.id"), i18n.T("field.label"), i18n.T("field.bits"), i18n.T("field.created")}, rows)
			return nil
		},
	}

	var showPrivate bool
	show := &cobra.Command{
		Use:   "show <key>",
		Short: i18n.T("keys.show.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			e, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fs := []field{
				{i18n.T("field.id"), e.ID},
				{i18n.T("field.label"), e.Label},
				{i18n.T("field.created"), e.CreatedAt.Local().Format(time.DateTime)},
			}
			newRenderer(cmd.OutOrStdout()).fields(append(fs, keyFields(e.Pair, showPrivate)...)...)
			return nil
		},
	}
	show.Flags().BoolVar(&showPrivate, "show-private", false, "Print the private exponent")

	del := &cobra.Command{
		Use:   "delete <key>",
		Short: i18n.T("keys.delete.short"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			newRenderer(cmd.OutOrStdout()).success(i18n.T("keys.deleted", args[0]))
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}
