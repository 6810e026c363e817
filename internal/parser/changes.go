package parser

import (
	"regexp"
	"strings"

	"github.com/awinkler/bgblwatch/internal/gazette"
	"github.com/awinkler/bgblwatch/internal/xmldec"
)

// Strategy extracts ordered change records from a paragraph stream. The
// stream may contain table nodes; those always produce a placeholder change
// so tabular content is never silently dropped.
type Strategy interface {
	Name() string
	Extract(paras []*xmldec.Node) []gazette.Change
}

// Strategies returns the extraction strategies in their fixed fallback
// order: typed markers first, numeric prefixes only if markers found nothing.
func Strategies() []Strategy {
	return []Strategy{TypedMarkerStrategy{}, NumericStrategy{}}
}

// ExtractChanges runs the strategies in order and returns the first
// non-empty result. If neither strategy finds changes but the stream holds
// tables, their placeholders are still emitted.
func ExtractChanges(paras []*xmldec.Node) []gazette.Change {
	for _, s := range Strategies() {
		if changes := s.Extract(paras); len(changes) > 0 {
			return changes
		}
	}
	var placeholders []gazette.Change
	for _, p := range paras {
		if p.Name == TableElement {
			placeholders = append(placeholders, tablePlaceholder(len(placeholders)+1))
		}
	}
	return placeholders
}

// changeStartTypes mark a paragraph that begins a new change instruction.
var changeStartTypes = map[string]bool{
	"novao1": true,
	"novao2": true,
	"nova1":  true,
	"nova2":  true,
}

// TypedMarkerStrategy groups paragraphs by their type markers: a change-start
// typed paragraph opens a change whose instruction is that paragraph's text;
// following content paragraphs up to the next marker become the change body.
type TypedMarkerStrategy struct{}

func (TypedMarkerStrategy) Name() string { return "typed-marker" }

func (TypedMarkerStrategy) Extract(paras []*xmldec.Node) []gazette.Change {
	var changes []gazette.Change
	var body []string
	current := -1 // index of the change the last marker opened

	// Placeholders interleave with marker-opened changes, so the body always
	// flushes into the current marker change, never into a placeholder.
	flush := func() {
		if current >= 0 && len(body) > 0 {
			changes[current].Text = appendBody(changes[current].Text, body)
		}
		body = nil
	}

	for _, p := range paras {
		if p.Name == TableElement {
			flush()
			changes = append(changes, tablePlaceholder(len(changes)+1))
			continue
		}
		if changeStartTypes[p.Type()] {
			flush()
			changes = append(changes, gazette.Change{
				ID:     len(changes) + 1,
				Number: p.Text(),
			})
			current = len(changes) - 1
			continue
		}
		if current < 0 {
			continue // preamble before the first marker
		}
		if t := strings.TrimSpace(p.Text()); t != "" {
			body = append(body, t)
		}
	}
	flush()

	// A result consisting only of table placeholders means the typed markers
	// never appeared; let the numeric strategy have a look first.
	if onlyPlaceholders(changes) {
		return nil
	}
	return changes
}

var numericPrefix = regexp.MustCompile(`^(\d+)[.)]\s*(.*)$`)

// NumericStrategy groups paragraphs by leading numerals: "1. ..." or "2) ..."
// begins a change, anything else extends the current change's body. Used only
// when the typed-marker strategy yields nothing.
type NumericStrategy struct{}

func (NumericStrategy) Name() string { return "numeric" }

func (NumericStrategy) Extract(paras []*xmldec.Node) []gazette.Change {
	var changes []gazette.Change
	var body []string
	current := -1

	flush := func() {
		if current >= 0 && len(body) > 0 {
			changes[current].Text = appendBody(changes[current].Text, body)
		}
		body = nil
	}

	for _, p := range paras {
		if p.Name == TableElement {
			flush()
			changes = append(changes, tablePlaceholder(len(changes)+1))
			continue
		}
		text := strings.TrimSpace(p.Text())
		if m := numericPrefix.FindStringSubmatch(text); m != nil {
			flush()
			changes = append(changes, gazette.Change{
				ID:     len(changes) + 1,
				Number: m[1],
				Title:  strings.TrimSpace(m[2]),
			})
			current = len(changes) - 1
			continue
		}
		if current < 0 {
			continue
		}
		if text != "" {
			body = append(body, text)
		}
	}
	flush()

	if onlyPlaceholders(changes) {
		return nil
	}
	return changes
}

func tablePlaceholder(id int) gazette.Change {
	return gazette.Change{
		ID:    id,
		Title: "Tabelle",
		Text:  "Die Kundmachung enthält an dieser Stelle eine Tabelle, die nicht als Fließtext darstellbar ist.",
	}
}

func onlyPlaceholders(changes []gazette.Change) bool {
	if len(changes) == 0 {
		return true
	}
	for _, c := range changes {
		if c.Title != "Tabelle" || c.Number != "" {
			return false
		}
	}
	return true
}

// appendBody newline-joins trimmed paragraphs onto an existing body. Inputs
// are pre-trimmed and non-empty, so the result never contains doubled blank
// lines. A change's body can arrive in several flushes when a table splits it.
func appendBody(existing string, parts []string) string {
	joined := strings.Join(parts, "\n")
	if existing == "" {
		return joined
	}
	return existing + "\n" + joined
}
