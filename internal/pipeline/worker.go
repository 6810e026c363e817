package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/awinkler/bgblwatch/internal/assist"
	"github.com/awinkler/bgblwatch/internal/gazette"
	"github.com/awinkler/bgblwatch/internal/parser"
	"github.com/awinkler/bgblwatch/internal/resolve"
	"github.com/awinkler/bgblwatch/internal/store"
	"github.com/awinkler/bgblwatch/internal/xmldec"
)

// BodyFetcher downloads one publication body by URL.
type BodyFetcher interface {
	FetchBody(ctx context.Context, url string) ([]byte, error)
}

// errSkip wraps errors that skip a document without degrading the pass.
var errSkip = errors.New("document skipped")

// worker builds one notification from one raw document.
type worker struct {
	fetcher   BodyFetcher
	assistant resolve.Assistant
	laws      *resolve.LawResolver
	dates     *resolve.DateResolver
	log       *slog.Logger
}

// build runs the whole per-document pipeline: fetch, decode, segment,
// extract changes, resolve laws and dates, summarize, assemble. Fetch
// failures skip the document; parse failures degrade it.
func (w *worker) build(ctx context.Context, doc gazette.RawDocument) (*gazette.Notification, error) {
	log := w.log.With("publication", doc.NaturalID)

	format, body, err := w.fetch(ctx, doc)
	if err != nil {
		log.Warn("body fetch failed, skipping", "error", err)
		return nil, fmt.Errorf("%w: %v", errSkip, err)
	}

	root, err := parser.ParseBody(format, body)
	if err != nil {
		var parseErr *xmldec.ParseError
		if errors.As(err, &parseErr) {
			log.Warn("malformed body, storing degraded record", "error", parseErr)
			return w.degraded(doc, parseErr), nil
		}
		log.Warn("body parse failed, skipping", "error", err)
		return nil, fmt.Errorf("%w: %v", errSkip, err)
	}

	content := parser.BuildContent(root)

	laws := w.laws.Resolve(ctx, doc.Title, content.FullText, doc.Federal())
	laws = w.dates.Resolve(ctx, content.FullText, doc.PublishedAt, laws)

	summary, category := w.summarize(ctx, doc, content.FullText, log)

	n := &gazette.Notification{
		ID:           store.CanonicalKey(doc.NaturalID),
		OriginalID:   doc.NaturalID,
		Title:        doc.Title,
		PublishedAt:  doc.PublishedAt,
		Category:     category,
		Jurisdiction: doc.Jurisdiction,
		Articles:     content.Articles,
		Changes:      content.Changes,
		AffectedLaws: laws,
		AISummary:    summary,
		NeedsReview:  content.NeedsReview,
	}
	normalize(n)
	return n, nil
}

// fetch selects the best supported body variant and downloads it.
func (w *worker) fetch(ctx context.Context, doc gazette.RawDocument) (format string, body []byte, err error) {
	for _, f := range parser.SupportedFormats {
		url := doc.URLFor(f)
		if url == "" {
			continue
		}
		body, err = w.fetcher.FetchBody(ctx, url)
		if err != nil {
			return "", nil, err
		}
		return f, body, nil
	}
	return "", nil, fmt.Errorf("no supported body format for %s", doc.NaturalID)
}

func (w *worker) summarize(ctx context.Context, doc gazette.RawDocument, fullText string, log *slog.Logger) (summary, category string) {
	reply, err := w.assistant.Complete(ctx, assist.BuildSummaryPrompt(doc.Title, fullText), 2048)
	if err != nil {
		log.Warn("summarization failed", "error", err)
		return assist.FallbackSummary, assist.FallbackCategory
	}
	return assist.ParseSummaryReply(reply)
}

// degraded produces the record stored for a publication whose body could not
// be decoded: original metadata, error flag, and one placeholder article
// explaining the failure.
func (w *worker) degraded(doc gazette.RawDocument, parseErr *xmldec.ParseError) *gazette.Notification {
	n := &gazette.Notification{
		ID:           store.CanonicalKey(doc.NaturalID),
		OriginalID:   doc.NaturalID,
		Title:        doc.Title,
		PublishedAt:  doc.PublishedAt,
		Jurisdiction: doc.Jurisdiction,
		Category:     assist.FallbackCategory,
		Error:        true,
		Articles: []gazette.Article{{
			ID:    1,
			Title: "Dokument konnte nicht verarbeitet werden",
			Changes: []gazette.Change{{
				ID:    1,
				Title: "Fehlerhafte Quelldaten",
				Text:  fmt.Sprintf("Der Kundmachungstext konnte nicht gelesen werden: %v", parseErr),
			}},
		}},
	}
	normalize(n)
	return n
}

// normalize enforces the ownership invariant: either articles own all
// changes or the flat list does, and slices marshal as [] rather than null.
func normalize(n *gazette.Notification) {
	if len(n.Articles) > 0 {
		n.Changes = nil
		for i := range n.Articles {
			if n.Articles[i].Changes == nil {
				n.Articles[i].Changes = []gazette.Change{}
			}
		}
	} else {
		n.Articles = []gazette.Article{}
	}
	if n.AffectedLaws == nil {
		n.AffectedLaws = []gazette.AffectedLaw{}
	}
	if n.PublishedAt.IsZero() {
		n.PublishedAt = time.Now().UTC()
	}
}
