package assist

import (
	"fmt"
	"strings"
)

const lawPromptFederal = `Der folgende Text ist eine Kundmachung aus dem Bundesgesetzblatt. Nenne alle Bundesgesetze, die durch diese Kundmachung geändert oder neu erlassen werden, mit ihrer Kundmachungsnummer im Format Nummer/Jahr.

Antworte ausschließlich in diesem Format, ein Gesetz pro Block:

Gesetz 1: <Titel des Gesetzes>
Kundmachungsnummer 1: <Nummer/Jahr>

Gesetz 2: <Titel des Gesetzes>
Kundmachungsnummer 2: <Nummer/Jahr>

Wenn keine Kundmachungsnummer im Text steht, schreibe "unbekannt". Kein weiterer Text.`

const lawPromptState = `Der folgende Text ist eine Kundmachung aus einem Landesgesetzblatt. Nenne alle Landesgesetze, die durch diese Kundmachung geändert oder neu erlassen werden, mit ihrer Kundmachungsnummer im Format Nummer/Jahr.

Antworte ausschließlich in diesem Format, ein Gesetz pro Block:

Gesetz 1: <Titel des Gesetzes>
Kundmachungsnummer 1: <Nummer/Jahr>

Wenn keine Kundmachungsnummer im Text steht, schreibe "unbekannt". Kein weiterer Text.`

// BuildLawPrompt asks for the laws affected by a publication. The federal
// flag switches between Bundes- and Landesgesetzblatt phrasing.
func BuildLawPrompt(text string, federal bool) string {
	tmpl := lawPromptState
	if federal {
		tmpl = lawPromptFederal
	}
	var sb strings.Builder
	sb.WriteString(tmpl)
	sb.WriteString("\n\n---\n")
	sb.WriteString(text)
	return sb.String()
}

const datePrompt = `Der folgende Text ist eine Kundmachung aus einem Gesetzblatt. Finde alle Inkrafttretensbestimmungen und gib für jede den betroffenen Paragraphen oder Gesetzestitel und das Datum an.

Antworte ausschließlich in diesem Format, eine Bestimmung pro Block:

Paragraph: <Paragraph oder Gesetzestitel>
Inkrafttreten: <JJJJ-MM-TT>

Kein weiterer Text.`

// BuildDatePrompt asks for effective-date provisions. The publication date
// anchors relative phrasings like "mit dem der Kundmachung folgenden Tag".
func BuildDatePrompt(text, publishedAt string) string {
	var sb strings.Builder
	sb.WriteString(datePrompt)
	sb.WriteString(fmt.Sprintf("\n\nKundmachungsdatum: %s\n\n---\n", publishedAt))
	sb.WriteString(text)
	return sb.String()
}

const summaryPrompt = `Fasse die folgende Kundmachung in drei bis fünf Sätzen auf Deutsch zusammen (Markdown erlaubt) und ordne sie einer Kategorie zu.

Antworte in diesem Format:

Kategorie: <eine aus: Steuern, Soziales, Wirtschaft, Gesundheit, Umwelt, Justiz, Bildung, Verkehr, Inneres, Sonstiges>

<Zusammenfassung>`

// BuildSummaryPrompt asks for a short summary plus a category label.
func BuildSummaryPrompt(title, text string) string {
	var sb strings.Builder
	sb.WriteString(summaryPrompt)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Titel: %s\n\n", title))
	sb.WriteString(text)
	return sb.String()
}
