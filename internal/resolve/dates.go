package resolve

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/awinkler/bgblwatch/internal/assist"
	"github.com/awinkler/bgblwatch/internal/gazette"
)

// The two phrasings whose dates follow directly from the publication date.
// No assistant call is needed for either.
const (
	phraseDayAfter = "mit dem der kundmachung folgenden tag"
	phraseEndOfDay = "mit ablauf des tages der kundmachung"
)

// DateResolver assigns an effective date to every affected law.
type DateResolver struct {
	assistant Assistant
	log       *slog.Logger
}

func NewDateResolver(assistant Assistant, log *slog.Logger) *DateResolver {
	return &DateResolver{assistant: assistant, log: log}
}

// Resolve fills in EffectiveDate for every law. It never fails: any
// assistant error leaves every law with the deterministic default, the day
// after publication.
func (r *DateResolver) Resolve(ctx context.Context, fullText string, publishedAt time.Time, laws []gazette.AffectedLaw) []gazette.AffectedLaw {
	if len(laws) == 0 {
		return laws
	}

	defaultDate := publishedAt.AddDate(0, 0, 1).Format("2006-01-02")

	lower := strings.ToLower(fullText)
	if strings.Contains(lower, phraseDayAfter) {
		return withDate(laws, defaultDate)
	}
	if strings.Contains(lower, phraseEndOfDay) {
		// Effective with the end of the publication day: the provisions
		// apply from that day, so the publication date itself is stored.
		return withDate(laws, publishedAt.Format("2006-01-02"))
	}

	reply, err := r.assistant.Complete(ctx, assist.BuildDatePrompt(fullText, publishedAt.Format("2006-01-02")), 1024)
	if err != nil {
		r.log.Warn("assistant date extraction failed", "error", err)
		return withDate(laws, defaultDate)
	}
	pairs := assist.ParseDateReply(reply)
	if len(pairs) == 0 {
		return withDate(laws, defaultDate)
	}

	out := make([]gazette.AffectedLaw, len(laws))
	for i, law := range laws {
		out[i] = law
		out[i].EffectiveDate = matchDate(law.Title, pairs, pairs[0].Date)
	}
	return out
}

// matchDate pairs a law with the first parsed provision whose paragraph key
// contains any title token longer than three runes. With no match the first
// parsed pair applies.
func matchDate(lawTitle string, pairs []assist.DateCandidate, fallback string) string {
	tokens := strings.Fields(normalizeTitle(lawTitle))
	for _, p := range pairs {
		key := strings.ToLower(p.Paragraph)
		for _, tok := range tokens {
			if len([]rune(tok)) <= 3 {
				continue
			}
			if strings.Contains(key, tok) {
				return p.Date
			}
		}
	}
	return fallback
}

func withDate(laws []gazette.AffectedLaw, date string) []gazette.AffectedLaw {
	out := make([]gazette.AffectedLaw, len(laws))
	for i, law := range laws {
		out[i] = law
		out[i].EffectiveDate = date
	}
	return out
}
