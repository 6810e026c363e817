package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHTMLBody_LiftsHeadingsAndParagraphs(t *testing.T) {
	input := `<html><body>
	  <h1>Artikel 1</h1>
	  <h2>Änderung des Meldegesetzes</h2>
	  <p class="novao1">§ 2 Abs. 1</p>
	  <p>Inhalt des Absatzes.</p>
	  <table><tr><td>Zelle</td></tr></table>
	</body></html>`

	root, err := ParseHTMLBody(strings.NewReader(input))
	require.NoError(t, err)

	headings := root.Find(HeadingElement)
	require.Len(t, headings, 2)
	assert.Equal(t, "g1", headings[0].Type())
	assert.Equal(t, "Artikel 1", headings[0].Text())
	assert.Equal(t, "g2", headings[1].Type())

	paras := root.Find(ParagraphElement)
	require.Len(t, paras, 2)
	assert.Equal(t, "novao1", paras[0].Type())
	assert.Equal(t, "§ 2 Abs. 1", paras[0].Text())

	require.Len(t, root.Find(TableElement), 1)
}

func TestParseHTMLBody_FeedsSamePipeline(t *testing.T) {
	input := `<html><body>
	  <h1>Artikel 1</h1>
	  <p class="novao1">§ 10 lautet:</p>
	  <p>Neuer Wortlaut.</p>
	</body></html>`

	root, err := ParseHTMLBody(strings.NewReader(input))
	require.NoError(t, err)

	c := BuildContent(root)
	require.Len(t, c.Articles, 1)
	require.Len(t, c.Articles[0].Changes, 1)
	assert.Equal(t, "§ 10 lautet:", c.Articles[0].Changes[0].Number)
	assert.Equal(t, "Neuer Wortlaut.", c.Articles[0].Changes[0].Text)
}

func TestParseBody_UnsupportedFormat(t *testing.T) {
	_, err := ParseBody("docx", []byte("x"))
	require.Error(t, err)
}
