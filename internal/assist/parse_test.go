package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLawReply_PrimaryFormat(t *testing.T) {
	reply := `Gesetz 1: Einkommensteuergesetz
Kundmachungsnummer 1: 400/1988

Gesetz 2: Umsatzsteuergesetz 1994
Kundmachungsnummer 2: 663/1994`

	laws := ParseLawReply(reply)
	require.Len(t, laws, 2)
	assert.Equal(t, "Einkommensteuergesetz", laws[0].Title)
	assert.Equal(t, "400/1988", laws[0].Number)
	assert.Equal(t, "Umsatzsteuergesetz 1994", laws[1].Title)
	assert.Equal(t, "663/1994", laws[1].Number)
}

func TestParseLawReply_UnknownNumber(t *testing.T) {
	reply := `Gesetz 1: Meldegesetz
Kundmachungsnummer 1: unbekannt`

	laws := ParseLawReply(reply)
	require.Len(t, laws, 1)
	assert.Equal(t, "Meldegesetz", laws[0].Title)
	assert.Empty(t, laws[0].Number)
}

func TestParseLawReply_LaxFallback(t *testing.T) {
	// The assistant ignored the format; the laxer pattern still recovers
	// title/number pairs.
	reply := `Die Kundmachung betrifft folgende Gesetze:
- Einkommensteuergesetz, BGBl. Nr. 400/1988
- Umsatzsteuergesetz (663/1994)`

	laws := ParseLawReply(reply)
	require.Len(t, laws, 2)
	assert.Equal(t, "Einkommensteuergesetz", laws[0].Title)
	assert.Equal(t, "400/1988", laws[0].Number)
	assert.Equal(t, "663/1994", laws[1].Number)
}

func TestParseLawReply_Empty(t *testing.T) {
	assert.Empty(t, ParseLawReply("Ich konnte keine Gesetze finden."))
}

func TestParseDateReply_Pairs(t *testing.T) {
	reply := `Paragraph: § 124b Einkommensteuergesetz
Inkrafttreten: 2025-07-01

Paragraph: Umsatzsteuergesetz
Inkrafttreten: 2026-01-01`

	pairs := ParseDateReply(reply)
	require.Len(t, pairs, 2)
	assert.Equal(t, "§ 124b Einkommensteuergesetz", pairs[0].Paragraph)
	assert.Equal(t, "2025-07-01", pairs[0].Date)
	assert.Equal(t, "2026-01-01", pairs[1].Date)
}

func TestParseDateReply_DanglingDateDropped(t *testing.T) {
	reply := `Inkrafttreten: 2025-07-01`
	assert.Empty(t, ParseDateReply(reply))
}

func TestParseDateReply_MalformedDateIgnored(t *testing.T) {
	reply := `Paragraph: § 1
Inkrafttreten: 1. Juli 2025`
	assert.Empty(t, ParseDateReply(reply))
}

func TestParseSummaryReply_CategoryAndSummary(t *testing.T) {
	reply := `Kategorie: Steuern

Die Kundmachung ändert das **Einkommensteuergesetz**.`

	summary, category := ParseSummaryReply(reply)
	assert.Equal(t, "Steuern", category)
	assert.Equal(t, "Die Kundmachung ändert das **Einkommensteuergesetz**.", summary)
}

func TestParseSummaryReply_UnknownCategoryFallsBack(t *testing.T) {
	summary, category := ParseSummaryReply("Kategorie: Quatsch\n\nText.")
	assert.Equal(t, FallbackCategory, category)
	assert.Equal(t, "Text.", summary)
}

func TestParseSummaryReply_EmptyReply(t *testing.T) {
	summary, category := ParseSummaryReply("")
	assert.Equal(t, FallbackCategory, category)
	assert.Equal(t, FallbackSummary, summary)
}

func TestStripCodeBlock(t *testing.T) {
	assert.Equal(t, "inhalt", stripCodeBlock("```\ninhalt\n```"))
	assert.Equal(t, "inhalt", stripCodeBlock("```markdown\ninhalt\n```"))
	assert.Equal(t, "kein block", stripCodeBlock("kein block"))
}
