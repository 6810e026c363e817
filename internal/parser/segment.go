// Package parser turns a decoded gazette tree into articles and changes.
package parser

import (
	"github.com/awinkler/bgblwatch/internal/gazette"
	"github.com/awinkler/bgblwatch/internal/xmldec"
)

const (
	// HeadingElement is the gazette element carrying section headings.
	HeadingElement = "ueberschrift"
	// ParagraphElement carries body paragraphs.
	ParagraphElement = "absatz"
	// TableElement carries tabular content.
	TableElement = "table"

	typePrimary   = "g1"
	typeSecondary = "g2"
)

// SegmentArticles walks the heading stream in order. A primary (g1) heading
// starts a new article; a secondary (g2) heading immediately following it
// becomes that article's subtitle. Non-adjacent secondary headings are
// ignored for subtitle purposes. Zero primary headings yields an empty list
// and the caller falls back to a flat change list.
func SegmentArticles(headings []*xmldec.Node) []gazette.Article {
	var articles []gazette.Article
	for i, h := range headings {
		if h.Type() != typePrimary {
			continue
		}
		a := gazette.Article{
			ID:    len(articles) + 1,
			Title: h.Text(),
		}
		if i+1 < len(headings) && headings[i+1].Type() == typeSecondary {
			a.Subtitle = headings[i+1].Text()
		}
		articles = append(articles, a)
	}
	return articles
}
