package helpparse

import "testing"

func TestParseFlagTokensLongWithEquals(t *testing.T) {
	opt, ok := parseFlagTokens("--output=FORMAT")
	if !ok {
		t.Fatal("expected ok")
	}
	if opt.Long != "--output" || !opt.TakesValue || opt.ValueName != "FORMAT" {
		t.Errorf("got %+v", opt)
	}
}

func TestParseFlagTokensShortOnly(t *testing.T) {
	opt, ok := parseFlagTokens("-v")
	if !ok {
		t.Fatal("expected ok")
	}
	if opt.Short != "-v" || opt.TakesValue {
		t.Errorf("got %+v", opt)
	}
}

func TestParseFlagTokensBracketPlaceholder(t *testing.T) {
	opt, ok := parseFlagTokens("--level [LEVEL]")
	if !ok {
		t.Fatal("expected ok")
	}
	if !opt.TakesValue || opt.ValueName != "LEVEL" {
		t.Errorf("got %+v", opt)
	}
}

func TestParseFlagTokensRejectsPlainWord(t *testing.T) {
	_, ok := parseFlagTokens("notaflag")
	if ok {
		t.Error("expected rejection of a token without a leading dash")
	}
}

func TestExtractOptionsDefaultValueBrackets(t *testing.T) {
	text := "Options:\n  --color MODE   Colorize output [default: auto]\n"
	got := Parse(text)
	if len(got.Options) != 1 {
		t.Fatalf("expected 1 option, got %+v", got.Options)
	}
	if got.Options[0].Default != "auto" {
		t.Errorf("Default = %q, want auto", got.Options[0].Default)
	}
}
