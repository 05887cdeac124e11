package render

import (
	"regexp"
	"strings"
)

var (
	blockFormulaRe  = regexp.MustCompile(`\$\$[\s\S]*?\$\$`)
	inlineFormulaRe = regexp.MustCompile(`\$[^$]+\$`)
)

// Parse splits a document string into text, inline formula ($...$) and block
// formula ($$...$$) segments. Formula bodies are passed through ConvertLatex;
// a block body with internal line breaks is split into one segment per
// non-empty line so each renders as its own centered paragraph. Unterminated
// delimiters are left as literal text — Parse never fails.
func Parse(document string) []Segment {
	var segments []Segment

	last := 0
	for _, loc := range blockFormulaRe.FindAllStringIndex(document, -1) {
		if loc[0] > last {
			segments = appendTextSegments(segments, document[last:loc[0]])
		}
		body := strings.TrimSpace(document[loc[0]+2 : loc[1]-2])
		converted := ConvertLatex(body)
		for _, line := range strings.Split(converted, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				segments = append(segments, Segment{Kind: SegmentBlockFormula, Content: line})
			}
		}
		last = loc[1]
	}
	if last < len(document) {
		segments = appendTextSegments(segments, document[last:])
	}
	return segments
}

// appendTextSegments splits a non-block span on $...$ inline delimiters.
func appendTextSegments(segments []Segment, text string) []Segment {
	last := 0
	for _, loc := range inlineFormulaRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = appendPlainText(segments, text[last:loc[0]])
		}
		body := text[loc[0]+1 : loc[1]-1]
		segments = append(segments, Segment{Kind: SegmentInlineFormula, Content: ConvertLatex(body)})
		last = loc[1]
	}
	if last < len(text) {
		segments = appendPlainText(segments, text[last:])
	}
	return segments
}

func appendPlainText(segments []Segment, text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return segments
	}
	return append(segments, Segment{Kind: SegmentText, Content: text})
}
