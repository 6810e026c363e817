package assist

import (
	"regexp"
	"strings"
)

// LawCandidate is one law named in an assistant reply, unvalidated.
type LawCandidate struct {
	Title  string
	Number string
}

// DateCandidate is one effective-date provision from an assistant reply.
type DateCandidate struct {
	Paragraph string
	Date      string // YYYY-MM-DD
}

var (
	lawLineRe = regexp.MustCompile(`(?m)^\s*Gesetz\s*(\d+)\s*:\s*(.+?)\s*$`)
	numLineRe = regexp.MustCompile(`(?m)^\s*Kundmachungsnummer\s*(\d+)\s*:\s*(.+?)\s*$`)

	// Lax fallback: "Einkommensteuergesetz, BGBl. Nr. 400/1988" or
	// "Einkommensteuergesetz (400/1988)" anywhere in the reply.
	laxLawRe = regexp.MustCompile(`(?m)^\s*(?:[-*]|\d+\.)?\s*([A-ZÄÖÜ][^\n,(]{4,120}?)\s*[,(]\s*(?:[A-Za-z]*BGBl\.?[^0-9\n]{0,20})?(\d+/\d{4})\)?`)
)

// ParseLawReply parses the "Gesetz N: ... / Kundmachungsnummer N: ..." block
// format, pairing entries by index. If the primary format yields nothing, a
// laxer pattern scans for "title, number/year" lines.
func ParseLawReply(reply string) []LawCandidate {
	titles := make(map[string]string)
	for _, m := range lawLineRe.FindAllStringSubmatch(reply, -1) {
		titles[m[1]] = strings.TrimSpace(m[2])
	}
	numbers := make(map[string]string)
	for _, m := range numLineRe.FindAllStringSubmatch(reply, -1) {
		numbers[m[1]] = strings.TrimSpace(m[2])
	}

	var out []LawCandidate
	for _, m := range lawLineRe.FindAllStringSubmatch(reply, -1) {
		idx := m[1]
		title := titles[idx]
		if title == "" {
			continue
		}
		num := numbers[idx]
		if strings.EqualFold(num, "unbekannt") {
			num = ""
		}
		out = append(out, LawCandidate{Title: title, Number: num})
	}
	if len(out) > 0 {
		return out
	}

	for _, m := range laxLawRe.FindAllStringSubmatch(reply, -1) {
		out = append(out, LawCandidate{
			Title:  strings.TrimSpace(m[1]),
			Number: m[2],
		})
	}
	return out
}

var (
	paraLineRe = regexp.MustCompile(`^\s*Paragraph\s*:\s*(.+?)\s*$`)
	dateLineRe = regexp.MustCompile(`^\s*Inkrafttreten\s*:\s*(\d{4}-\d{2}-\d{2})\s*$`)
)

// ParseDateReply parses "Paragraph: ... / Inkrafttreten: YYYY-MM-DD" pairs in
// order of appearance. A date line without a preceding paragraph line is
// dropped.
func ParseDateReply(reply string) []DateCandidate {
	var out []DateCandidate
	var pending string
	havePending := false
	for line := range strings.Lines(reply) {
		if m := paraLineRe.FindStringSubmatch(line); m != nil {
			pending = m[1]
			havePending = true
			continue
		}
		if m := dateLineRe.FindStringSubmatch(line); m != nil && havePending {
			out = append(out, DateCandidate{Paragraph: pending, Date: m[1]})
			havePending = false
		}
	}
	return out
}

// FallbackCategory is used whenever the assistant's category is missing or
// not one of the known labels.
const FallbackCategory = "Sonstiges"

// FallbackSummary is stored when summarization failed outright.
const FallbackSummary = "Für diese Kundmachung konnte keine Zusammenfassung erstellt werden."

var validCategories = map[string]bool{
	"Steuern":    true,
	"Soziales":   true,
	"Wirtschaft": true,
	"Gesundheit": true,
	"Umwelt":     true,
	"Justiz":     true,
	"Bildung":    true,
	"Verkehr":    true,
	"Inneres":    true,
	"Sonstiges":  true,
}

var categoryLineRe = regexp.MustCompile(`(?m)^\s*Kategorie\s*:\s*(\S+)\s*$`)

// ParseSummaryReply splits a summary reply into summary text and category.
// An unknown or missing category falls back to FallbackCategory; an empty
// summary falls back to FallbackSummary.
func ParseSummaryReply(reply string) (summary, category string) {
	category = FallbackCategory
	if m := categoryLineRe.FindStringSubmatch(reply); m != nil {
		if validCategories[m[1]] {
			category = m[1]
		}
		reply = strings.Replace(reply, m[0], "", 1)
	}
	summary = strings.TrimSpace(reply)
	if summary == "" {
		summary = FallbackSummary
	}
	return summary, category
}
