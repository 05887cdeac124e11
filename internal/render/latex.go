package render

import (
	"regexp"
	"strings"
)

// Rewrite passes for ConvertLatex, in application order. Later passes assume
// earlier ones already stripped the outer wrappers.
var (
	mathrmRe     = regexp.MustCompile(`\\mathrm\{([^}]+)\}`)
	textCmdRe    = regexp.MustCompile(`\\text\{([^}]+)\}`)
	upArrowRe    = regexp.MustCompile(`\\uparrow`)
	downArrowRe  = regexp.MustCompile(`\\downarrow`)
	rightArrowRe = regexp.MustCompile(`\\to|\\longrightarrow|-{1,2}>`)
	bothArrowRe  = regexp.MustCompile(`\\leftrightarrow|<->|<=>`)
	xArrowRe     = regexp.MustCompile(`\\xrightarrow\[[^]]*\]\{[^}]*\}`)
	environRe    = regexp.MustCompile(`\\begin\{[^}]+\}|\\end\{[^}]+\}`)
	lineBreakRe  = regexp.MustCompile(`\\\\`)
	ampersandRe  = regexp.MustCompile(`\s*&\s*`)
	equalsOCRRe  = regexp.MustCompile(`\{\s*[^}]*\s*\}\s*\{=\}`)
	cmdArgRe     = regexp.MustCompile(`\\[a-zA-Z]+\*?\{([^}]*)\}`)
	bareCmdRe    = regexp.MustCompile(`\\[a-zA-Z]+\*?`)
	hspaceRe     = regexp.MustCompile(`[\t ]+`)
	lineEdgeRe   = regexp.MustCompile(` *\n *`)
)

// ConvertLatex rewrites a restricted LaTeX command subset into plain glyphs.
// It never fails: unrecognized commands degrade to stripping the backslash
// token, so literal content is always preserved.
func ConvertLatex(latex string) string {
	s := latex
	s = mathrmRe.ReplaceAllString(s, "$1")
	s = textCmdRe.ReplaceAllString(s, "$1")
	s = upArrowRe.ReplaceAllString(s, "↑")
	s = downArrowRe.ReplaceAllString(s, "↓")
	// Bidirectional arrows first so "-{1,2}>" cannot eat the tail of "<->".
	s = bothArrowRe.ReplaceAllString(s, "↔")
	s = rightArrowRe.ReplaceAllString(s, "→")
	s = xArrowRe.ReplaceAllString(s, "→")
	s = environRe.ReplaceAllString(s, "")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = ampersandRe.ReplaceAllString(s, " ")
	// OCR artifact: an equals sign read as two brace groups, e.g. "{ i }{=}".
	s = equalsOCRRe.ReplaceAllString(s, " = ")
	s = cmdArgRe.ReplaceAllString(s, "$1")
	s = bareCmdRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "{", "")
	s = strings.ReplaceAll(s, "}", "")
	s = hspaceRe.ReplaceAllString(s, " ")
	s = lineEdgeRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
