package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// TextContent concatenates the text of every node in sel, like the DOM's
// textContent. Hidden and collapsed elements are included.
func TextContent(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	return buffer.String()
}

// Strip trims unicode whitespace (&nbsp; included) from both ends.
func Strip(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}

// Normalize collapses every whitespace run (&nbsp; included) into one space,
// drops non-printable runes and trims both ends.
func Normalize(s string) string {
	var out strings.Builder
	pendingSpace := false
	for _, c := range s {
		if unicode.IsSpace(c) {
			pendingSpace = true
			continue
		}
		if !unicode.IsPrint(c) {
			continue
		}
		if pendingSpace && out.Len() > 0 {
			out.WriteByte(' ')
		}
		pendingSpace = false
		out.WriteRune(c)
	}
	return out.String()
}
