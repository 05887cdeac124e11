package render

import (
	"regexp"
	"strings"
	"unicode"
)

// Reaction-conditions relocation: a secondary heuristic that enforces one
// reaction per line and moves inline condition markers (light, temperature,
// solvent) into a trailing "conditions: ..." clause. No token is ever
// dropped: every extracted condition is re-appended.

var (
	reactionDelimRe = regexp.MustCompile(`→|->|=`)
	delimSplitRe    = regexp.MustCompile(`\s*(→|->|=)\s*`)
	gluedCondRe     = regexp.MustCompile(`(?i)(\S)(conditions:)`)
	condTailRe      = regexp.MustCompile(`(?i)^(.*?)\s*conditions:\s*(.*)$`)
	condItemRe      = regexp.MustCompile(`[,;]`)
	lightRe         = regexp.MustCompile(`\[?\s*[hH][νv]\s*\]?`)
	// Temperatures like "0 °C" or "-78°С"; the trailing letter may be the
	// Cyrillic С that OCR often produces.
	temperatureRe = regexp.MustCompile(`[±+\-]?\d+\s*°\s*[CС]`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

// Solvent and catalyst words relocated to the conditions clause. Both Latin
// and Cyrillic spellings, matching what the recognizer produces.
var solventWords = []string{
	"бензол", "benzol", "benzene", "гексан", "hexane", "meCN", "acetonitrile",
	"толуол", "toluene", "ацетон", "acetone", "этанол", "ethanol",
}

// NormalizeConditions rewrites recognized reaction text so each line holds a
// single reaction with its conditions collected in a trailing clause.
func NormalizeConditions(text string) string {
	var fixed []string
	for _, original := range strings.Split(text, "\n") {
		if strings.TrimSpace(original) == "" {
			fixed = append(fixed, "")
			continue
		}
		for _, part := range strings.Split(splitConcatenated(original), "\n") {
			base, conds := extractConditions(part)
			if len(conds) > 0 {
				fixed = append(fixed, base+" conditions: "+strings.Join(conds, ", "))
			} else {
				fixed = append(fixed, base)
			}
		}
	}
	result := strings.Join(fixed, "\n")
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result
}

// splitConcatenated inserts a newline before every reaction delimiter after
// the first, so glued reactions land on separate lines.
func splitConcatenated(line string) string {
	loc := reactionDelimRe.FindStringIndex(line)
	if loc == nil {
		return line
	}
	head := line[:loc[1]]
	rest := delimSplitRe.ReplaceAllString(line[loc[1]:], "\n$1 ")
	return head + rest
}

// extractConditions strips inline condition markers from a reaction line and
// returns the cleaned line plus the deduplicated, order-preserving condition
// list (existing "conditions:" tail items first, then extracted markers).
func extractConditions(raw string) (string, []string) {
	base := gluedCondRe.ReplaceAllString(raw, "$1 $2")

	var existing []string
	if m := condTailRe.FindStringSubmatch(base); m != nil {
		base = m[1]
		for _, item := range condItemRe.Split(m[2], -1) {
			if item = strings.TrimSpace(item); item != "" {
				existing = append(existing, item)
			}
		}
	}

	var added []string
	if containsLightMarker(base) {
		added = append(added, "hν")
		base = lightRe.ReplaceAllString(base, "")
	}
	if temps := temperatureRe.FindAllString(base, -1); len(temps) > 0 {
		added = append(added, temps...)
		base = temperatureRe.ReplaceAllString(base, "")
	}
	for _, w := range solventWords {
		if hasWord(base, w) {
			added = append(added, w)
			base = removeWord(base, w)
		}
	}

	seen := make(map[string]bool)
	var conds []string
	for _, c := range append(existing, added...) {
		if c != "" && !seen[c] {
			seen[c] = true
			conds = append(conds, c)
		}
	}
	base = strings.TrimSpace(spaceRunRe.ReplaceAllString(base, " "))
	return base, conds
}

// containsLightMarker reports an hν/hv photolysis marker. The Latin "hv"
// spelling needs surrounding non-letters so it is not found inside words.
func containsLightMarker(s string) bool {
	if strings.Contains(strings.ToLower(s), "hν") {
		return true
	}
	return hasWord(s, "hv")
}

// hasWord does a case-insensitive whole-word search with letter boundaries.
// regexp \b is ASCII-only, which breaks on the Cyrillic solvent names.
func hasWord(s, word string) bool {
	return wordIndex(s, word) >= 0
}

// removeWord deletes every whole-word occurrence. Case folding of the word
// list (ASCII and basic Cyrillic) preserves byte offsets, so slicing by the
// lowercase length is safe.
func removeWord(s, word string) string {
	for {
		idx := wordIndex(s, word)
		if idx < 0 {
			return s
		}
		s = s[:idx] + s[idx+len(word):]
	}
}

func wordIndex(s, word string) int {
	lower := strings.ToLower(s)
	target := strings.ToLower(word)
	from := 0
	for {
		i := strings.Index(lower[from:], target)
		if i < 0 {
			return -1
		}
		idx := from + i
		before, _ := lastRune(s[:idx])
		after, _ := firstRune(s[idx+len(target):])
		if !unicode.IsLetter(before) && !unicode.IsLetter(after) {
			return idx
		}
		from = idx + len(target)
	}
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	rs := []rune(s)
	return rs[len(rs)-1], true
}

func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	return []rune(s)[0], true
}
