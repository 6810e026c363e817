package parser

import (
	"github.com/awinkler/bgblwatch/internal/gazette"
	"github.com/awinkler/bgblwatch/internal/xmldec"
)

// Content is the parsed body of one publication. Either Articles (each
// owning its changes) or the flat Changes list is populated, never both.
type Content struct {
	Articles    []gazette.Article
	Changes     []gazette.Change
	NeedsReview bool
	FullText    string
}

// BuildContent segments the decoded tree into articles and attributes
// extracted changes to them by position: paragraphs are partitioned into
// contiguous sections bounded by primary headings, and section i feeds
// article i. Change groups in excess of the article count are dropped and
// articles without a section keep an empty change list; either case flags
// the notification for review.
func BuildContent(root *xmldec.Node) Content {
	stream := root.FindFunc(func(n *xmldec.Node) bool {
		switch n.Name {
		case HeadingElement, ParagraphElement, TableElement:
			return true
		}
		return false
	})

	var headings []*xmldec.Node
	for _, n := range stream {
		if n.Name == HeadingElement {
			headings = append(headings, n)
		}
	}

	c := Content{
		Articles: SegmentArticles(headings),
		FullText: root.FlatText(),
	}

	if len(c.Articles) == 0 {
		c.Changes = ExtractChanges(withoutHeadings(stream))
		return c
	}

	// Partition the stream on primary headings. Section 0 is preamble
	// before the first article heading.
	sections := make([][]*xmldec.Node, 1)
	for _, n := range stream {
		if n.Name == HeadingElement {
			if n.Type() == typePrimary {
				sections = append(sections, nil)
			}
			continue
		}
		sections[len(sections)-1] = append(sections[len(sections)-1], n)
	}

	if len(ExtractChanges(sections[0])) > 0 {
		// Changes before the first article heading have no owner.
		c.NeedsReview = true
	}

	groups := sections[1:]
	for i := range groups {
		if i >= len(c.Articles) {
			c.NeedsReview = true
			break
		}
		changes := ExtractChanges(groups[i])
		for j := range changes {
			changes[j].ID = j + 1
		}
		c.Articles[i].Changes = changes
	}
	if len(groups) < len(c.Articles) {
		c.NeedsReview = true
	}
	return c
}

func withoutHeadings(stream []*xmldec.Node) []*xmldec.Node {
	var out []*xmldec.Node
	for _, n := range stream {
		if n.Name != HeadingElement {
			out = append(out, n)
		}
	}
	return out
}
