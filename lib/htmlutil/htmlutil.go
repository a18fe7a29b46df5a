// Package htmlutil holds the small goquery helpers shared by the page
// parsers.
package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenated text content of a node and its
// descendants, without any cleanup.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, buffer)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText trims a scraped string and collapses runs of inner
// whitespace, dropping non-printable characters on the way.
func CleanText(s string) string {
	var cleaned strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) || c == ' ' || c == '\t' || c == '\n' {
			cleaned.WriteRune(c)
		}
	}
	out := strings.TrimSpace(cleaned.String())
	return innerWhitespace.ReplaceAllString(out, " ")
}

// Anchor is one <a> element reduced to its cleaned text and href.
type Anchor struct {
	Name string
	Href string
}

// Anchors extracts every anchor in the selection, in document order.
// Anchors without an href are kept with an empty Href so callers can
// rely on positional information.
func Anchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	sel.Each(func(_ int, a *goquery.Selection) {
		name := ""
		if len(a.Nodes) > 0 {
			name = CleanText(GetText(a.Nodes[0]))
		}
		anchors = append(anchors, Anchor{
			Name: name,
			Href: a.AttrOr("href", ""),
		})
	})
	return anchors
}
