// Package resolve reconciles heterogeneous evidence about affected laws and
// effective dates into one validated, de-duplicated result set.
package resolve

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/awinkler/bgblwatch/internal/assist"
	"github.com/awinkler/bgblwatch/internal/gazette"
	"github.com/awinkler/bgblwatch/internal/ris"
)

// Assistant is the generative-text capability the resolvers consume.
type Assistant interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Registry is the legal-registry search capability.
type Registry interface {
	SearchLaw(ctx context.Context, title string) ([]ris.RegistryDoc, error)
}

// publicationNumberRe is the only valid stored form: digits, slash, 4-digit year.
var publicationNumberRe = regexp.MustCompile(`^\d+/\d{4}$`)

// looseNumberRe recovers a number/year pair from sloppier strings like
// "BGBl. Nr. 400/1988" or "400 / 1988".
var looseNumberRe = regexp.MustCompile(`(\d+)\s*/\s*(\d{4})`)

// directPatterns are tried in order over the full text. Each captures a law
// title and a publication number. State-law gazettes (LGBl.) use the same
// phrasings as the federal one.
var directPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:Änderung|Aenderung) des ([A-ZÄÖÜ][\wäöüßÄÖÜ./ -]{3,100}?), ?(?:zuletzt geändert durch )?BGBl\.(?: [IVX]+)? Nr\. (\d+/\d{4})`),
	regexp.MustCompile(`(?:Änderung|Aenderung) des ([A-ZÄÖÜ][\wäöüßÄÖÜ./ -]{3,100}?), ?LGBl\. Nr\. (\d+/\d{4})`),
	regexp.MustCompile(`([A-ZÄÖÜ][\wäöüßÄÖÜ./-]*gesetz(?:es)?(?: \d{4})?) \(BGBl\.(?: [IVX]+)? Nr\. (\d+/\d{4})\)`),
	regexp.MustCompile(`([A-ZÄÖÜ][\wäöüßÄÖÜ./-]*gesetz(?:es)?(?: \d{4})?) \(LGBl\. Nr\. (\d+/\d{4})\)`),
}

// corrections maps known historical misspellings of law short titles to
// their canonical forms, applied before keying.
var corrections = map[string]string{
	"einkommenssteuergesetz":                 "Einkommensteuergesetz",
	"umsatzsteuer gesetz":                    "Umsatzsteuergesetz",
	"allgemeines sozialversicherungs-gesetz": "Allgemeines Sozialversicherungsgesetz",
	"strassenverkehrsordnung":                "Straßenverkehrsordnung",
}

// genitiveRe folds the genitive ending: "Einkommensteuergesetzes 1988" and
// "Einkommensteuergesetz 1988" name the same law.
var genitiveRe = regexp.MustCompile(`([Gg]esetz)es\b`)

// normalizeTitle canonicalizes a law title for keying: corrections applied,
// genitive endings folded, lowercased, whitespace collapsed.
func normalizeTitle(title string) string {
	return strings.ToLower(canonicalTitle(title))
}

// canonicalTitle returns the display form: corrected spelling, genitive folded.
func canonicalTitle(title string) string {
	t := strings.Join(strings.Fields(strings.TrimSpace(title)), " ")
	t = genitiveRe.ReplaceAllString(t, "$1")
	if canonical, ok := corrections[strings.ToLower(t)]; ok {
		t = canonical
	}
	return t
}

// validNumber returns the publication number in its valid form, correcting
// via the loose pattern where possible, or "" when nothing can be recovered.
func validNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if publicationNumberRe.MatchString(raw) {
		return raw
	}
	if m := looseNumberRe.FindStringSubmatch(raw); m != nil {
		return m[1] + "/" + m[2]
	}
	return ""
}

// lawKey identifies a law for merge purposes.
type lawKey struct {
	title  string
	number string
}

// evidence ranks merge precedence: direct extraction is grounded in literal
// text and always wins over assistant output.
type evidence int

const (
	fromAssistant evidence = iota
	fromRegistry
	fromDirect
)

type mergeSet struct {
	order []lawKey
	laws  map[lawKey]gazette.AffectedLaw
	rank  map[lawKey]evidence
}

func newMergeSet() *mergeSet {
	return &mergeSet{
		laws: make(map[lawKey]gazette.AffectedLaw),
		rank: make(map[lawKey]evidence),
	}
}

func (m *mergeSet) add(law gazette.AffectedLaw, source evidence) {
	key := lawKey{title: normalizeTitle(law.Title), number: law.PublicationNumber}
	if existing, ok := m.rank[key]; ok && existing >= source {
		return
	}
	if _, ok := m.laws[key]; !ok {
		m.order = append(m.order, key)
	}
	m.laws[key] = law
	m.rank[key] = source
}

func (m *mergeSet) result() []gazette.AffectedLaw {
	out := make([]gazette.AffectedLaw, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.laws[k])
	}
	return out
}

// LawResolver produces the de-duplicated affected-law list for a publication.
type LawResolver struct {
	assistant Assistant
	registry  Registry
	log       *slog.Logger
}

func NewLawResolver(assistant Assistant, registry Registry, log *slog.Logger) *LawResolver {
	return &LawResolver{assistant: assistant, registry: registry, log: log}
}

// Resolve combines title parsing with a registry lookup when the title names
// laws, and otherwise falls back to assistant extraction over the full text
// merged with direct pattern extraction.
func (r *LawResolver) Resolve(ctx context.Context, title, fullText string, federal bool) []gazette.AffectedLaw {
	if names := ParseTitleLaws(title); len(names) > 0 {
		return r.resolveByRegistry(ctx, names)
	}
	return r.resolveByText(ctx, fullText, federal)
}

// ExtractDirect runs the fixed pattern list over the full text. Every result
// carries a validly formatted publication number.
func ExtractDirect(fullText string) []gazette.AffectedLaw {
	set := newMergeSet()
	for _, re := range directPatterns {
		for _, m := range re.FindAllStringSubmatch(fullText, -1) {
			num := validNumber(m[2])
			if num == "" {
				continue
			}
			set.add(gazette.AffectedLaw{
				Title:             canonicalTitle(m[1]),
				PublicationNumber: num,
			}, fromDirect)
		}
	}
	return set.result()
}

// resolveByText merges direct extraction with assistant extraction; on equal
// keys the direct record wins. Assistant records that cannot produce a valid
// publication number are discarded.
func (r *LawResolver) resolveByText(ctx context.Context, fullText string, federal bool) []gazette.AffectedLaw {
	set := newMergeSet()

	for _, law := range ExtractDirect(fullText) {
		set.add(law, fromDirect)
	}

	reply, err := r.assistant.Complete(ctx, assist.BuildLawPrompt(fullText, federal), 1024)
	if err != nil {
		r.log.Warn("assistant law extraction failed", "error", err)
		return set.result()
	}
	for _, cand := range assist.ParseLawReply(reply) {
		num := validNumber(cand.Number)
		if num == "" {
			continue
		}
		set.add(gazette.AffectedLaw{
			Title:             canonicalTitle(cand.Title),
			PublicationNumber: num,
		}, fromAssistant)
	}
	return set.result()
}

// resolveByRegistry looks each parsed law name up in the registry, preferring
// an exact short-title match, then a substring match, then the first result.
// A failed or empty lookup degrades to a title-only record.
func (r *LawResolver) resolveByRegistry(ctx context.Context, names []string) []gazette.AffectedLaw {
	set := newMergeSet()
	for _, name := range names {
		name = canonicalTitle(name)
		var docs []ris.RegistryDoc
		if r.registry != nil {
			var err error
			docs, err = r.registry.SearchLaw(ctx, name)
			if err != nil {
				r.log.Warn("registry lookup failed", "law", name, "error", err)
				docs = nil
			}
		}
		doc := pickRegistryDoc(name, docs)
		if doc == nil {
			set.add(gazette.AffectedLaw{Title: name}, fromRegistry)
			continue
		}
		set.add(gazette.AffectedLaw{
			Title:             name,
			PublicationOrgan:  doc.Organ,
			PublicationNumber: validNumber(doc.Number),
			ConsolidatedURL:   doc.ConsolidatedURL,
		}, fromRegistry)
	}
	return set.result()
}

func pickRegistryDoc(name string, docs []ris.RegistryDoc) *ris.RegistryDoc {
	if len(docs) == 0 {
		return nil
	}
	lower := strings.ToLower(name)
	for i := range docs {
		if strings.ToLower(docs[i].ShortTitle) == lower {
			return &docs[i]
		}
	}
	for i := range docs {
		if strings.Contains(strings.ToLower(docs[i].ShortTitle), lower) {
			return &docs[i]
		}
	}
	return &docs[0]
}
