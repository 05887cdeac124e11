package render

import (
	"strings"
	"testing"
)

func TestParse_InlineFormulaSplitting(t *testing.T) {
	segs := Parse("Dissolve $H_2O$ carefully")
	want := []Segment{
		{SegmentText, "Dissolve "},
		{SegmentInlineFormula, "H_2O"},
		{SegmentText, " carefully"},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i, w := range want {
		if segs[i] != w {
			t.Errorf("segment[%d]: expected %+v, got %+v", i, w, segs[i])
		}
	}
}

func TestParse_BlockFormula(t *testing.T) {
	segs := Parse("before\n$$ 2H_2 + O_2 \\to 2H_2O $$\nafter")
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segs), segs)
	}
	if segs[1].Kind != SegmentBlockFormula {
		t.Errorf("expected block formula kind, got %v", segs[1].Kind)
	}
	if segs[1].Content != "2H_2 + O_2 → 2H_2O" {
		t.Errorf("unexpected block content %q", segs[1].Content)
	}
}

func TestParse_BlockFormulaMultilineSplit(t *testing.T) {
	// LaTeX \\ inside a block produces one segment per line.
	segs := Parse("$$A=B\\\\C=D$$")
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	for i, want := range []string{"A=B", "C=D"} {
		if segs[i].Kind != SegmentBlockFormula {
			t.Errorf("segment[%d]: expected block formula, got %v", i, segs[i].Kind)
		}
		if segs[i].Content != want {
			t.Errorf("segment[%d]: expected %q, got %q", i, want, segs[i].Content)
		}
	}
}

func TestParse_UnterminatedBlockIsLiteralText(t *testing.T) {
	segs := Parse("$$A = B")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d: %+v", len(segs), segs)
	}
	if segs[0].Kind != SegmentText || segs[0].Content != "$$A = B" {
		t.Errorf("expected literal text segment, got %+v", segs[0])
	}
}

func TestParse_DropsWhitespaceOnlyText(t *testing.T) {
	segs := Parse("$A$   $B$")
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	for _, s := range segs {
		if s.Kind != SegmentInlineFormula {
			t.Errorf("expected inline formula, got %+v", s)
		}
	}
}

func TestParse_RoundTripCoverage(t *testing.T) {
	// For inputs whose formulas are fixed points of ConvertLatex,
	// concatenating all segment contents recovers every non-delimiter char.
	inputs := []string{
		"a $X$ b",
		"start $$E = mc^2$$ end",
		"no formulas at all",
	}
	for _, in := range inputs {
		var sb strings.Builder
		for _, s := range Parse(in) {
			sb.WriteString(s.Content)
		}
		got := sb.String()
		stripped := strings.ReplaceAll(in, "$", "")
		// Segmentation trims formula bodies; compare ignoring spaces.
		if despace(got) != despace(stripped) {
			t.Errorf("round trip for %q: expected %q, got %q", in, stripped, got)
		}
	}
}

func despace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

func TestParse_EmptyDocument(t *testing.T) {
	if segs := Parse(""); len(segs) != 0 {
		t.Errorf("expected no segments, got %+v", segs)
	}
}
