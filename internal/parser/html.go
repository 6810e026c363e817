package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/awinkler/bgblwatch/internal/xmldec"
)

// ParseHTMLBody lifts an HTML body variant into the decoded-tree shape the
// XML decoder would have produced: h1/h2 become primary/secondary headings,
// p becomes a paragraph, table becomes a table node. Used for publications
// whose feed entry carries no XML variant.
func ParseHTMLBody(r io.Reader) (*xmldec.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	root := xmldec.NewNode("abschnitt", "", "")

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1":
				root.Append(xmldec.NewNode(HeadingElement, typePrimary, textContent(n)))
				return
			case "h2":
				root.Append(xmldec.NewNode(HeadingElement, typeSecondary, textContent(n)))
				return
			case "p":
				typ := htmlClass(n)
				root.Append(xmldec.NewNode(ParagraphElement, typ, textContent(n)))
				return
			case "table":
				root.Append(xmldec.NewNode(TableElement, "", ""))
				return
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return root, nil
}

// htmlClass maps the RIS HTML class attribute back onto the XML type marker;
// the HTML renderer of the gazette carries the same codes as CSS classes.
func htmlClass(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, cls := range strings.Fields(strings.ToLower(a.Val)) {
			if changeStartTypes[cls] || cls == typePrimary || cls == typeSecondary {
				return cls
			}
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
