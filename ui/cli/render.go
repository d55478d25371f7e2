// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240")).Underline(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// renderer prints styled output on a terminal and plain, aligned text
// everywhere else so output stays greppable in pipes.
type renderer struct {
	out    io.Writer
	styled bool
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{out: w, styled: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type field struct {
	label string
	value string
}

// fields prints one "label: value" line per field.
func (r *renderer) fields(fs ...field) {
	if r.styled {
		width := 0
		for _, f := range fs {
			width = max(width, lipgloss.Width(f.label)+1)
		}
		for _, f := range fs {
			l := labelStyle.Width(width + 1).Render(f.label + ":")
			fmt.Fprintln(r.out, lipgloss.JoinHorizontal(lipgloss.Top, l, valueStyle.Render(f.value)))
		}
		return
	}
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for _, f := range fs {
		fmt.Fprintf(w, "%s:\t%s\n", f.label, f.value)
	}
	_ = w.Flush()
}

// table prints rows under a header.
func (r *renderer) table(header []string, rows [][]string) {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	if r.styled {
		styled := make([]string, len(header))
		for i, h := range header {
			styled[i] = headerStyle.Render(h)
		}
		fmt.Fprintln(w, strings.Join(styled, "\t"))
	} else {
		fmt.Fprintln(w, strings.Join(header, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func (r *renderer) success(msg string) {
	if r.styled {
		msg = successStyle.Render(msg)
	}
	fmt.Fprintln(r.out, msg)
}

// value prints a bare result such as a ciphertext, unstyled so it can be
// captured by scripts.
func (r *renderer) value(v fmt.Stringer) {
	fmt.Fprintln(r.out, v.String())
}
