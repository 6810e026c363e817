package resolve

import (
	"regexp"
	"strings"
)

// Gazette titles follow fixed phrasings like "Bundesgesetz, mit dem das
// Einkommensteuergesetz 1988 und das Umsatzsteuergesetz 1994 geändert
// werden". The templates below lift the law names back out.
var (
	amendClauseRe = regexp.MustCompile(`mit de[mr] (?:das|die|der) (.+?) geändert (?:wird|werden)`)
	clauseSplitRe = regexp.MustCompile(`(?:,\s*(?:das|die|der)\s+|\s+und\s+(?:das|die|der)\s+|\s+sowie\s+(?:das|die|der)\s+)`)

	titleAmendRe = regexp.MustCompile(`(?:Änderung|Aenderung) des ([A-ZÄÖÜ][\wäöüßÄÖÜ./ -]{3,100}?)(?:$|,|;|\()`)
)

// ParseTitleLaws heuristically extracts law names from a publication title.
// An empty result means the title carries no recognizable law names and the
// caller falls back to full-text extraction.
func ParseTitleLaws(title string) []string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		name = strings.TrimSpace(strings.Trim(name, ",;."))
		if len(name) < 4 {
			return
		}
		key := normalizeTitle(name)
		if seen[key] {
			return
		}
		seen[key] = true
		names = append(names, name)
	}

	if m := amendClauseRe.FindStringSubmatch(title); m != nil {
		for _, part := range clauseSplitRe.Split(m[1], -1) {
			add(part)
		}
	}
	for _, m := range titleAmendRe.FindAllStringSubmatch(title, -1) {
		add(m[1])
	}
	return names
}
