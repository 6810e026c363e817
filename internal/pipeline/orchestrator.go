// Package pipeline runs ingestion passes: poll the feed, process each
// publication once, and persist the new batch idempotently.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/awinkler/bgblwatch/internal/config"
	"github.com/awinkler/bgblwatch/internal/gazette"
	"github.com/awinkler/bgblwatch/internal/resolve"
	"github.com/awinkler/bgblwatch/internal/ris"
	"github.com/awinkler/bgblwatch/internal/store"
)

// Feed yields publication references and their bodies.
type Feed interface {
	QueryPublications(ctx context.Context, q ris.Query) ([]gazette.RawDocument, error)
	FetchBody(ctx context.Context, url string) ([]byte, error)
}

// Store is the persistence adapter the orchestrator writes through.
type Store interface {
	Exists(ctx context.Context, naturalID string) (bool, error)
	Get(ctx context.Context, naturalID string) (*gazette.Notification, error)
	SaveAll(ctx context.Context, notifications []gazette.Notification) error
	ListRecent(ctx context.Context, limit int) ([]gazette.Notification, error)
}

// PassResult summarizes one ingestion pass for the API consumer.
type PassResult struct {
	Count         int                    `json:"count"`
	New           int                    `json:"new"`
	Errors        []string               `json:"errors,omitempty"`
	Notifications []gazette.Notification `json:"notifications"`
}

// Orchestrator coordinates ingestion passes.
type Orchestrator struct {
	feed      Feed
	store     Store
	assistant resolve.Assistant
	laws      *resolve.LawResolver
	dates     *resolve.DateResolver
	locks     *store.KeyLocks
	log       *slog.Logger
	cfg       config.Config

	passMu sync.Mutex // one pass at a time
}

func NewOrchestrator(cfg config.Config, feed Feed, registry resolve.Registry, st Store, assistant resolve.Assistant, log *slog.Logger) *Orchestrator {
	retrying := retryAssistant{inner: assistant, log: log}
	return &Orchestrator{
		feed:      feed,
		store:     st,
		assistant: retrying,
		laws:      resolve.NewLawResolver(retrying, registry, log),
		dates:     resolve.NewDateResolver(retrying, log),
		locks:     store.NewKeyLocks(),
		log:       log,
		cfg:       cfg,
	}
}

// RunPass executes one full ingestion pass. Per-document failures are
// contained; a feed failure or a failed batch write fails the pass, but the
// returned result still carries whatever was loaded from cache.
func (o *Orchestrator) RunPass(ctx context.Context) (*PassResult, error) {
	o.passMu.Lock()
	defer o.passMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.PassTimeout)
	defer cancel()

	started := time.Now()
	docs, err := o.feed.QueryPublications(ctx, ris.Query{
		Jurisdiction: o.cfg.Jurisdiction,
		From:         time.Now().AddDate(0, 0, -o.cfg.FeedWindowDays),
		Limit:        o.cfg.FeedLimit,
	})
	if err != nil {
		return &PassResult{Errors: []string{err.Error()}}, fmt.Errorf("query feed: %w", err)
	}
	o.log.Info("pass started", "documents", len(docs))

	var mu sync.Mutex
	var newBatch, cached []gazette.Notification
	var passErrs []string

	w := &worker{
		fetcher:   o.feed,
		assistant: o.assistant,
		laws:      o.laws,
		dates:     o.dates,
		log:       o.log,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxConcurrentDocs)

	for _, doc := range docs {
		g.Go(func() error {
			n, fromCache, err := o.processOne(gctx, w, doc)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				passErrs = append(passErrs, fmt.Sprintf("%s: %v", doc.NaturalID, err))
			case fromCache:
				cached = append(cached, *n)
			default:
				newBatch = append(newBatch, *n)
			}
			return nil
		})
	}
	g.Wait()

	if ctx.Err() != nil {
		// Timed-out passes leave the new batch unwritten rather than
		// persist a half-populated batch.
		return &PassResult{
			Count:         len(cached),
			Errors:        append(passErrs, ctx.Err().Error()),
			Notifications: cached,
		}, fmt.Errorf("pass aborted: %w", ctx.Err())
	}

	if err := o.store.SaveAll(ctx, newBatch); err != nil {
		return &PassResult{
			Count:         len(cached),
			Errors:        append(passErrs, err.Error()),
			Notifications: cached,
		}, fmt.Errorf("persist batch: %w", err)
	}

	all := append(cached, newBatch...)
	o.log.Info("pass finished",
		"documents", len(docs),
		"new", len(newBatch),
		"cached", len(cached),
		"errors", len(passErrs),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return &PassResult{
		Count:         len(all),
		New:           len(newBatch),
		Errors:        passErrs,
		Notifications: all,
	}, nil
}

// processOne handles one document reference. The exists-check-then-build
// sequence runs under the per-key lock, so overlapping passes can never
// build divergent records for the same publication.
func (o *Orchestrator) processOne(ctx context.Context, w *worker, doc gazette.RawDocument) (n *gazette.Notification, fromCache bool, err error) {
	unlock := o.locks.Lock(doc.NaturalID)
	defer unlock()

	exists, err := o.store.Exists(ctx, doc.NaturalID)
	if err != nil {
		return nil, false, fmt.Errorf("existence check: %w", err)
	}
	if exists {
		// Cache hit: the expensive assistant and registry calls are skipped
		// entirely.
		stored, err := o.store.Get(ctx, doc.NaturalID)
		if err != nil {
			return nil, false, fmt.Errorf("load cached: %w", err)
		}
		if stored != nil {
			stored.FromCache = true
			return stored, true, nil
		}
	}

	built, err := w.build(ctx, doc)
	if err != nil {
		return nil, false, err
	}
	return built, false, nil
}

// ListRecent exposes stored notifications for the API layer.
func (o *Orchestrator) ListRecent(ctx context.Context, limit int) ([]gazette.Notification, error) {
	return o.store.ListRecent(ctx, limit)
}

// Get exposes one stored notification for the API layer.
func (o *Orchestrator) Get(ctx context.Context, naturalID string) (*gazette.Notification, error) {
	return o.store.Get(ctx, naturalID)
}
