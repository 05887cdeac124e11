package render

import "strings"

// Assemble groups segments into paragraphs, driving normalization and
// tokenization per segment. Block formulas get their own centered paragraph
// and close the currently open one; inline formulas and text lines share the
// open paragraph; a blank source line closes it. Paragraph state is threaded
// explicitly as an index into the result slice.
func Assemble(segments []Segment) []Paragraph {
	var paras []Paragraph
	cur := -1          // index of the open paragraph, -1 if none
	lineBreak := false // a source line break precedes the next same-paragraph content

	appendRuns := func(content string) {
		runs := Tokenize(NormalizeChemSpacing(content))
		if len(runs) == 0 {
			return
		}
		if cur == -1 {
			paras = append(paras, Paragraph{})
			cur = len(paras) - 1
			lineBreak = false
		}
		if lineBreak && len(paras[cur].Runs) > 0 {
			// Lines merged into one paragraph are separated by a soft space.
			paras[cur].Runs = append(paras[cur].Runs, Run{Text: " "})
		}
		lineBreak = false
		paras[cur].Runs = append(paras[cur].Runs, runs...)
	}

	for _, seg := range segments {
		switch seg.Kind {
		case SegmentBlockFormula:
			paras = append(paras, Paragraph{
				Runs:   Tokenize(NormalizeChemSpacing(seg.Content)),
				Center: true,
			})
			cur = -1
		case SegmentInlineFormula:
			appendRuns(seg.Content)
		case SegmentText:
			lines := strings.Split(seg.Content, "\n")
			for li, line := range lines {
				line = strings.TrimSpace(line)
				if line == "" {
					// A leading empty element means the segment starts right
					// after a newline, and a trailing one that it ends with
					// one; neither is a blank source line. Only an interior
					// empty line closes the open paragraph.
					switch {
					case li == 0:
						lineBreak = true
					case li < len(lines)-1:
						cur = -1
					}
					continue
				}
				appendRuns(line)
				if li < len(lines)-1 {
					lineBreak = true
				}
			}
		}
	}
	return paras
}
