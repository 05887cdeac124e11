package render

import (
	"strings"
	"testing"
)

func TestPlainText_StripsMarkdownSyntax(t *testing.T) {
	in := "# Reactions\n\nSome **bold** and _emphasis_ here.\n\n- first\n- second"
	got := PlainText(in)

	for _, want := range []string{"Reactions", "Some bold and emphasis here.", "first", "second"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got %q", want, got)
		}
	}
	for _, bad := range []string{"#", "**", "<"} {
		if strings.Contains(got, bad) {
			t.Errorf("markdown/html artifact %q left in output %q", bad, got)
		}
	}
}

func TestPlainText_KeepsBlockBoundaries(t *testing.T) {
	got := PlainText("para one\n\npara two")
	if !strings.Contains(got, "para one\n") {
		t.Errorf("expected newline after first block, got %q", got)
	}
	if !strings.Contains(got, "para two") {
		t.Errorf("missing second block in %q", got)
	}
}

func TestPlainText_PlainInputUnchangedContent(t *testing.T) {
	got := PlainText("6NaOH + 3I2 → NaIO3 + 5NaI + 3H2O")
	if !strings.Contains(got, "6NaOH + 3I2 → NaIO3 + 5NaI + 3H2O") {
		t.Errorf("plain content altered: %q", got)
	}
}
