package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"book-discovery-service/internal/domain"
	"book-discovery-service/pkg/supersede"
)

// Suggestion defaults.
const (
	DefaultSuggestionDelay     = 80 * time.Millisecond
	DefaultSuggestionLimit     = 8
	DefaultSuggestionFetchSize = 15
)

// SuggesterConfig tunes the title suggester.
type SuggesterConfig struct {
	Delay     time.Duration // quiet period before a lookup
	Limit     int           // titles kept
	FetchSize int           // docs requested per lookup
}

func (c SuggesterConfig) withDefaults() SuggesterConfig {
	if c.Delay <= 0 {
		c.Delay = DefaultSuggestionDelay
	}
	if c.Limit <= 0 {
		c.Limit = DefaultSuggestionLimit
	}
	if c.FetchSize <= 0 {
		c.FetchSize = DefaultSuggestionFetchSize
	}
	return c
}

// Suggester turns a stream of partial queries into a short list of distinct
// titles. A lookup runs only after the input has been quiet for Delay and
// its result is applied only if no newer input arrived meanwhile. Lookup
// failures leave the list empty and are never reported.
type Suggester struct {
	catalog domain.Catalog
	logger  *zap.Logger
	cfg     SuggesterConfig
	guard   supersede.Guard
	ctx     context.Context
	cancel  context.CancelFunc

	mu          sync.Mutex
	suggestions []string
	loading     bool
	timer       *time.Timer
	pending     *pendingLookup
	onUpdate    func([]string)
	closed      bool

	notifyMu sync.Mutex
	notified uint64
}

// pendingLookup tracks one debounced input until it is applied or superseded.
type pendingLookup struct {
	ticket supersede.Ticket
	query  string
	done   chan struct{}
	once   sync.Once
}

func (p *pendingLookup) finish() {
	p.once.Do(func() { close(p.done) })
}

// NewSuggester creates a suggester. Zero config fields take the defaults.
func NewSuggester(catalog domain.Catalog, cfg SuggesterConfig, logger *zap.Logger) *Suggester {
	ctx, cancel := context.WithCancel(context.Background())

	return &Suggester{
		catalog: catalog,
		logger:  logger,
		cfg:     cfg.withDefaults(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetOnUpdate registers fn to be called each time the suggestion list
// changes. fn never runs on the goroutine that called Input, calls are
// serialized, and an update older than one already delivered is dropped.
func (s *Suggester) SetOnUpdate(fn func([]string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onUpdate = fn
}

// Input records a new partial query. The returned channel is closed once
// this input has been applied or superseded by a later one.
func (s *Suggester) Input(query string) <-chan struct{} {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return closedChan()
	}

	ticket := s.guard.Issue()
	s.stopPendingLocked()

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < domain.MinQueryLength {
		changed := len(s.suggestions) > 0 || s.loading
		s.suggestions = nil
		s.loading = false
		notify := s.onUpdate
		s.mu.Unlock()

		if !changed || notify == nil {
			return closedChan()
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			s.deliver(notify, ticket.Seq(), nil)
		}()
		return done
	}

	p := &pendingLookup{ticket: ticket, query: trimmed, done: make(chan struct{})}
	s.pending = p
	s.loading = true
	s.timer = time.AfterFunc(s.cfg.Delay, func() { s.lookup(p) })
	s.mu.Unlock()

	return p.done
}

// Await records query and blocks until it settles, then returns the current
// suggestions. It returns ctx.Err() if ctx ends first.
func (s *Suggester) Await(ctx context.Context, query string) ([]string, error) {
	select {
	case <-s.Input(query):
		return s.Suggestions(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Suggestions returns a copy of the current list.
func (s *Suggester) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.suggestions) == 0 {
		return nil
	}

	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Loading reports whether a lookup is scheduled or in flight.
func (s *Suggester) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// Close stops the pending timer and discards any lookup in flight.
// Later inputs are ignored.
func (s *Suggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.guard.Invalidate()
	s.stopPendingLocked()
	s.loading = false
	s.cancel()
}

func (s *Suggester) stopPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pending != nil {
		s.pending.finish()
		s.pending = nil
	}
}

func (s *Suggester) lookup(p *pendingLookup) {
	if !p.ticket.Current() {
		return
	}

	var titles []string

	req, err := domain.BuildSearchRequest(p.query, 1, s.cfg.FetchSize, nil)
	if err == nil {
		var payload *domain.SearchPayload
		payload, err = s.catalog.Search(s.ctx, req)
		if err == nil && payload != nil {
			titles = distinctTitles(payload.Docs, s.cfg.Limit)
		}
	}

	s.mu.Lock()
	if !p.ticket.Current() {
		s.mu.Unlock()
		s.logger.Debug("stale suggestions discarded", zap.String("query", p.query))
		return
	}

	if err != nil {
		s.logger.Debug("suggestion lookup failed", zap.String("query", p.query), zap.Error(err))
	}

	s.suggestions = titles
	s.loading = false
	s.pending = nil
	s.timer = nil
	notify := s.onUpdate
	snapshot := append([]string(nil), titles...)
	s.mu.Unlock()

	if notify != nil {
		s.deliver(notify, p.ticket.Seq(), snapshot)
	}
	p.finish()
}

// deliver hands titles to notify unless a newer update already went out.
func (s *Suggester) deliver(notify func([]string), seq uint64, titles []string) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if seq <= s.notified {
		s.logger.Debug("stale suggestion update dropped", zap.Uint64("seq", seq))
		return
	}
	s.notified = seq
	notify(titles)
}

// distinctTitles keeps the first occurrence of each non-empty title, in
// order, up to limit entries. Comparison is case-sensitive.
func distinctTitles(docs []domain.SearchDoc, limit int) []string {
	seen := make(map[string]struct{}, len(docs))
	titles := make([]string, 0, limit)

	for _, doc := range docs {
		if len(titles) == limit {
			break
		}
		title := strings.TrimSpace(doc.Title)
		if title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}

	return titles
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
