package render

import "unicode"

// Tokenize converts a normalized string into an ordered sequence of styled
// runs. Explicit ^/_ markup is scanned first; bare-digit chemical subscript
// inference is then applied to the unstyled runs only, so explicit markup
// always wins over inference.
func Tokenize(text string) []Run {
	var out []Run
	for _, r := range scanMarkup(text) {
		if r.Subscript || r.Superscript {
			out = append(out, r)
			continue
		}
		out = append(out, inferSubscripts(r.Text)...)
	}
	return out
}

// scanMarkup handles explicit ^{...}/_{...} markup. Braced content is matched
// by depth; a marker with no matching closing brace is kept as a literal
// character. Bare superscript content is an optional sign followed by digits
// ([+-±∓]?\d+), bare subscript content a run of digits; otherwise a single
// character.
func scanMarkup(s string) []Run {
	rs := []rune(s)
	n := len(rs)
	var runs []Run
	var buf []rune

	flush := func() {
		if len(buf) > 0 {
			runs = append(runs, Run{Text: string(buf)})
			buf = buf[:0]
		}
	}

	i := 0
	for i < n {
		ch := rs[i]
		if ch != '^' && ch != '_' {
			buf = append(buf, ch)
			i++
			continue
		}
		super := ch == '^'
		j := i + 1
		if j >= n {
			buf = append(buf, ch)
			i++
			continue
		}

		var content string
		if rs[j] == '{' {
			end := matchingBrace(rs, j)
			if end == -1 {
				// No closing brace: the marker is literal text.
				buf = append(buf, ch)
				i++
				continue
			}
			content = string(rs[j+1 : end])
			i = end + 1
		} else {
			k := j
			if super && isSignRune(rs[k]) {
				k++
			}
			d := k
			for d < n && isASCIIDigit(rs[d]) {
				d++
			}
			if d > k {
				content = string(rs[j:d])
				i = d
			} else {
				content = string(rs[j])
				i = j + 1
			}
		}

		flush()
		runs = append(runs, Run{Text: content, Subscript: !super, Superscript: super})
	}
	flush()
	return runs
}

// matchingBrace returns the index of the brace matching rs[open], or -1.
func matchingBrace(rs []rune, open int) int {
	depth := 0
	for i := open; i < len(rs); i++ {
		switch rs[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// inferSubscripts splits unstyled text so that digits immediately following a
// letter or closing bracket become subscript runs ("H2O" -> H, sub 2, O).
// Heuristic only: page numbers or years adjacent to letters subscript too.
func inferSubscripts(text string) []Run {
	rs := []rune(text)
	n := len(rs)
	var runs []Run
	i := 0
	for i < n {
		if isASCIIDigit(rs[i]) && i > 0 && isSubscriptAnchor(rs[i-1]) {
			j := i
			for j < n && isASCIIDigit(rs[j]) {
				j++
			}
			runs = append(runs, Run{Text: string(rs[i:j]), Subscript: true})
			i = j
			continue
		}
		start := i
		i++
		for i < n && !(isASCIIDigit(rs[i]) && isSubscriptAnchor(rs[i-1])) {
			i++
		}
		runs = append(runs, Run{Text: string(rs[start:i])})
	}
	return runs
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSignRune(r rune) bool {
	return r == '+' || r == '-' || r == '±' || r == '∓'
}

func isSubscriptAnchor(r rune) bool {
	return unicode.IsLetter(r) || r == ')' || r == ']' || r == '}'
}
