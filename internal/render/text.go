// Package render turns chat messages and transcripts into terminal text,
// JSON and Markdown.
package render

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText converts an HTML answer fragment to plain text. Line breaks and
// block elements become newlines and entities are decoded. Input that fails
// to parse is returned unchanged.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				buf.WriteString("\n")
			case "li":
				buf.WriteString("\n- ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "ul", "ol":
				buf.WriteString("\n")
			}
		}
	}
	walk(doc)

	return tidyLines(buf.String())
}

// tidyLines collapses runs of spaces and trims every line
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
