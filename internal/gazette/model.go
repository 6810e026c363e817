// Package gazette defines the normalized document model produced by the
// ingestion pipeline and consumed by storage and the API surface.
package gazette

import "time"

// ContentURL is one body variant of a publication, tagged by format.
type ContentURL struct {
	Format string `json:"format"` // "xml", "html" or "pdf"
	URL    string `json:"url"`
}

// RawDocument is the feed's reference to one publication. Immutable once fetched.
type RawDocument struct {
	NaturalID    string       `json:"naturalId"` // e.g. "BGBl. I Nr. 10/2025"
	Title        string       `json:"title"`
	PublishedAt  time.Time    `json:"publishedAt"`
	Jurisdiction string       `json:"jurisdiction"` // "BgblAuth" for federal, state code otherwise
	ContentURLs  []ContentURL `json:"contentUrls"`
}

// URLFor returns the body variant with the given format tag, or "".
func (d RawDocument) URLFor(format string) string {
	for _, c := range d.ContentURLs {
		if c.Format == format {
			return c.URL
		}
	}
	return ""
}

// Federal reports whether the publication belongs to the federal gazette.
// State gazettes carry their state application code instead.
func (d RawDocument) Federal() bool {
	return d.Jurisdiction == "" || d.Jurisdiction == "BgblAuth"
}

// Change is one atomic legislative edit instruction.
type Change struct {
	ID     int    `json:"id"`     // 1-based, scoped to the owning article or notification
	Number string `json:"number"` // instruction text or leading numeral
	Title  string `json:"title"`  // title or new-text seed
	Text   string `json:"text"`   // newline-joined body paragraphs
}

// Article is one titled amendment section within a publication. Articles own
// their changes; a notification without articles owns a flat change list instead.
type Article struct {
	ID       int      `json:"id"` // 1-based, source order
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Changes  []Change `json:"changes"`
}

// AffectedLaw is a law referenced or amended by a publication.
// PublicationNumber, when set, always matches digits "/" four-digit-year.
type AffectedLaw struct {
	Title             string `json:"title"`
	PublicationOrgan  string `json:"publicationOrgan,omitempty"`
	PublicationNumber string `json:"publicationNumber,omitempty"`
	ConsolidatedURL   string `json:"consolidatedVersionUrl,omitempty"`
	EffectiveDate     string `json:"effectiveDate,omitempty"` // YYYY-MM-DD
}

// Notification is the canonical stored record of one publication.
type Notification struct {
	ID           string        `json:"id"`          // canonical storage key
	OriginalID   string        `json:"original_id"` // natural identifier as given by the feed
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	PublishedAt  time.Time     `json:"publicationDate"`
	Category     string        `json:"category,omitempty"`
	Jurisdiction string        `json:"jurisdiction,omitempty"`
	Articles     []Article     `json:"articles"`
	Changes      []Change      `json:"changes,omitempty"` // only when Articles is empty
	AffectedLaws []AffectedLaw `json:"affectedLaws"`
	AISummary    string        `json:"aiSummary,omitempty"`

	Error       bool `json:"error,omitempty"`       // degraded parse
	NeedsReview bool `json:"needsReview,omitempty"` // change-group/article count mismatch
	FromCache   bool `json:"fromCache,omitempty"`   // loaded from the store, not reparsed

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// ChangeCount returns the total number of changes across articles, or the
// flat list when no articles were detected.
func (n *Notification) ChangeCount() int {
	if len(n.Articles) == 0 {
		return len(n.Changes)
	}
	total := 0
	for _, a := range n.Articles {
		total += len(a.Changes)
	}
	return total
}
