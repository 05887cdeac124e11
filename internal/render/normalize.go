package render

import (
	"regexp"
	"strings"
)

// Spacing rules are applied in order; later rules see the output of earlier
// ones (e.g. "H 2 O" needs the letter-digit join before the digit-letter one).
var (
	letterDigitRe  = regexp.MustCompile(`([A-Za-z])\s+(\d)`)
	digitLetterRe  = regexp.MustCompile(`(\d)\s+([A-Za-z(\[{])`)
	lowerUpperRe   = regexp.MustCompile(`([a-z])\s+([A-Z])`)
	bracketDigitRe = regexp.MustCompile(`([)\]}])\s+(\d)`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
)

// NormalizeChemSpacing fixes typical OCR spacing artifacts in chemical
// formulas ("H 2 O" -> "H2O", "Si Cl4" -> "SiCl4"). Purely heuristic: it can
// join unrelated words and performs no chemical validation.
func NormalizeChemSpacing(text string) string {
	s := text
	s = letterDigitRe.ReplaceAllString(s, "$1$2")
	s = digitLetterRe.ReplaceAllString(s, "$1$2")
	s = lowerUpperRe.ReplaceAllString(s, "$1$2")
	s = bracketDigitRe.ReplaceAllString(s, "$1$2")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
