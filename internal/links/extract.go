// Package links extracts hyperlinks from course content HTML,
// classifies them relative to a course, and checks external ones for
// reachability.
package links

import (
	"strings"

	"golang.org/x/net/html"
)

// Link is one reference found in an HTML body.
type Link struct {
	Tag  string // "a", "img", or "iframe"
	Attr string // "href" or "src"
	URL  string
}

// attrFor maps the tags we scan to the attribute holding the target.
var attrFor = map[string]string{
	"a":      "href",
	"img":    "src",
	"iframe": "src",
}

// Extract returns every anchor href, image src, and iframe src in
// body, in document order. Empty body yields nil. Malformed HTML is
// tolerated; the tokenizer recovers what it can.
func Extract(body string) []Link {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	// html.Parse never fails on string input; it inserts error nodes
	// instead.
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var found []Link
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := attrFor[n.Data]; ok {
				for _, a := range n.Attr {
					if a.Key == attr {
						found = append(found, Link{Tag: n.Data, Attr: attr, URL: a.Val})
						break
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return found
}
