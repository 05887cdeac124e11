package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// PlainText strips markdown syntax from recognized text, keeping block
// boundaries as newlines. The markdown is rendered to HTML with goldmark and
// the text content collected from the node tree; if either stage fails the
// input is returned unchanged.
func PlainText(markdown string) string {
	var rendered bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &rendered); err != nil {
		return markdown
	}
	doc, err := html.Parse(&rendered)
	if err != nil {
		return markdown
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "br":
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "tr", "div":
				sb.WriteString("\n")
			}
		}
	}
	walk(doc)

	out := blankLinesRe.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out)
}
