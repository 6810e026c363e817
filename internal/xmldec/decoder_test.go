package xmldec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<abschnitt>
  <ueberschrift typ="g1">Artikel 1</ueberschrift>
  <ueberschrift typ="g2">Änderung des Einkommensteuergesetzes</ueberschrift>
  <absatz typ="novao1">1.</absatz>
  <absatz typ="abs">Der erste   Satz.</absatz>
  <meta>only once</meta>
</abschnitt>`

func TestDecode_BuildsTree(t *testing.T) {
	root, err := Decode([]byte(sampleXML), DefaultOptions())
	require.NoError(t, err)

	abschnitt := root.Child("abschnitt")
	require.NotNil(t, abschnitt)

	headings := abschnitt.Children("ueberschrift")
	require.Len(t, headings, 2)
	assert.Equal(t, "g1", headings[0].Type())
	assert.Equal(t, "Artikel 1", headings[0].Text())
	assert.Equal(t, "g2", headings[1].Type())

	paras := abschnitt.Children("absatz")
	require.Len(t, paras, 2)
	assert.Equal(t, "novao1", paras[0].Type())
	// Internal whitespace runs collapse to single spaces.
	assert.Equal(t, "Der erste Satz.", paras[1].Text())
}

func TestDecode_AttributesAreSeparateFromChildren(t *testing.T) {
	// A child element literally named "typ" must not collide with the typ
	// attribute.
	input := `<absatz typ="abs"><typ>child element</typ></absatz>`
	root, err := Decode([]byte(input), DefaultOptions())
	require.NoError(t, err)

	p := root.Child("absatz")
	require.NotNil(t, p)
	assert.Equal(t, "abs", p.Attr("typ"))
	require.NotNil(t, p.Child("typ"))
	assert.Equal(t, "child element", p.Child("typ").Text())
}

func TestDecode_ListElementsAlwaysSequences(t *testing.T) {
	// A single absatz still renders as a sequence in the map view; a
	// non-listed element renders as a single node.
	input := `<doc><absatz>einzig</absatz><meta>m</meta></doc>`
	root, err := Decode([]byte(input), DefaultOptions())
	require.NoError(t, err)

	m := root.Child("doc").AsMap()
	paras, ok := m["absatz"].([]*Node)
	require.True(t, ok, "absatz should decode as a sequence even when single")
	require.Len(t, paras, 1)
	assert.Equal(t, "einzig", paras[0].Text())

	meta, ok := m["meta"].(*Node)
	require.True(t, ok, "meta should decode as a single node")
	assert.Equal(t, "m", meta.Text())
}

func TestDecode_MalformedYieldsParseError(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unclosed element", `<doc><absatz>text`},
		{"mismatched tags", `<doc><a>text</b></doc>`},
		{"empty input", ``},
		{"not xml", `just some text`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.input), DefaultOptions())
			require.Error(t, err)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestFind_DocumentOrder(t *testing.T) {
	input := `<doc>
	  <teil><absatz>eins</absatz></teil>
	  <absatz>zwei</absatz>
	  <teil><unter><absatz>drei</absatz></unter></teil>
	</doc>`
	root, err := Decode([]byte(input), DefaultOptions())
	require.NoError(t, err)

	paras := root.Find("absatz")
	require.Len(t, paras, 3)
	assert.Equal(t, "eins", paras[0].Text())
	assert.Equal(t, "zwei", paras[1].Text())
	assert.Equal(t, "drei", paras[2].Text())
}

func TestFlatText_NoDoubledBlankLines(t *testing.T) {
	input := `<doc><absatz>eins</absatz><absatz>  </absatz><absatz>zwei</absatz></doc>`
	root, err := Decode([]byte(input), DefaultOptions())
	require.NoError(t, err)

	text := root.FlatText()
	assert.Equal(t, "eins\nzwei", text)
	assert.NotContains(t, text, "\n\n")
}
