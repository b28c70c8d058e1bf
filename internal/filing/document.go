package filing

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockTags are elements that terminate a line of text when rendering a
// document to plain text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "tr": true, "table": true,
	"li": true, "ul": true, "ol": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "section": true,
	"article": true, "hr": true, "blockquote": true,
}

// DocumentText renders a filing's HTML body to plain text suitable for
// section extraction. Script, style and head content is dropped, block
// elements produce line breaks, and cell boundaries inside table rows
// become single spaces so row text stays on one line.
func DocumentText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, head").Remove()

	var r textRenderer
	for _, n := range doc.Nodes {
		r.walk(n)
	}
	return tidy(r.b.String()), nil
}

type textRenderer struct {
	b    strings.Builder
	last byte
}

func (r *textRenderer) write(s string) {
	r.b.WriteString(s)
	r.last = s[len(s)-1]
}

func (r *textRenderer) walk(n *html.Node) {
	if n.Type == html.TextNode {
		text := strings.Join(strings.Fields(n.Data), " ")
		if text != "" {
			if r.b.Len() > 0 && r.last != '\n' {
				r.write(" ")
			}
			r.write(text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] && r.last != '\n' {
		r.write("\n")
	}
}
