// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import "testing"

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}
	av := GetAvailableLocales()
	for _, k := range []string{"en", "de"} {
		if _, ok := av[k]; !ok {
			t.Fatalf("expected available locale %q, got %v", k, av)
		}
	}
	if av["de"] != "Deutsch" {
		t.Fatalf("unexpected display name for de: %q", av["de"])
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")
	if got := T("verify.ok"); got != "Signature valid" {
		t.Fatalf("got %q", got)
	}
	if got := T("keys.deleted", "alpha"); got != `Deleted key "alpha"` {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	SetLang("de")
	defer SetLang("en")
	if GetLang() != "de" {
		t.Fatalf("expected lang 'de', got %q", GetLang())
	}
	if got := T("verify.ok"); got != "Signatur gültig" {
		t.Fatalf("expected German, got %q", got)
	}
}

func TestT_Fallbacks(t *testing.T) {
	Init("fr")
	defer Init("en")
	if got := T("verify.ok"); got != "Signature valid" {
		t.Fatalf("unknown language should fall back to English, got %q", got)
	}
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("unknown ID should be returned as is, got %q", got)
	}
}
