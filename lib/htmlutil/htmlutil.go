// Package htmlutil has small helpers over goquery documents that the site
// scrapers share.
package htmlutil

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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

// MetaContent returns the content attribute of the first <meta> tag whose
// given attribute matches, e.g. MetaContent(doc, "property", "og:title").
func MetaContent(doc *goquery.Document, attr, value string) string {
	sel := doc.Find(fmt.Sprintf(`meta[%s=%q]`, attr, value))
	return strings.TrimSpace(sel.AttrOr("content", ""))
}

// SelectText returns the trimmed text of the first node matching any of the
// given selectors, trying them in order.
func SelectText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		match := sel.Find(s).First()
		if match.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(GetText(match.Nodes[0]))
		if text != "" {
			return text
		}
	}
	return ""
}
