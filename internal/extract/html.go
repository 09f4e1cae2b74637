package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// scriptContent pulls the scriptable parts out of an HTML candidate:
// inline <script> bodies plus on* event-handler attributes. Claims hide in
// template files too (an inline fetch('/api/...') is still a claim).
func scriptContent(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// Unparseable HTML falls back to raw text so extraction still runs
		return htmlContent
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if strings.HasPrefix(strings.ToLower(attr.Key), "on") {
					buf.WriteString(attr.Val)
					buf.WriteString("\n")
				}
			}
			if n.Data == "script" {
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode {
						buf.WriteString(c.Data)
						buf.WriteString("\n")
					}
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}
