// Package render turns recognized chemistry text (a hybrid of Markdown and a
// restricted LaTeX-like markup) into styled runs grouped into paragraphs,
// ready for document serialization.
package render

// SegmentKind classifies a span of the source document.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentInlineFormula
	SegmentBlockFormula
)

// Segment is a classified span of the source document.
type Segment struct {
	Kind    SegmentKind
	Content string
}

// Run is a maximal span of text sharing one style. Subscript and Superscript
// are never both true.
type Run struct {
	Text        string
	Subscript   bool
	Superscript bool
}

// Paragraph is an ordered sequence of runs. Center is set for block formulas.
type Paragraph struct {
	Runs   []Run
	Center bool
}
