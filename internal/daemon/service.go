// Package daemon provides the long-running rate watcher: it polls the
// USD/BRL quote, keeps the quote cache fresh, and serves the recomputed
// breakdown over HTTP.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/rateio/internal/export"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/pipeline"

	"go.uber.org/zap"
)

// Fetcher fetches the current USD/BRL quote.
type Fetcher interface {
	FetchRate(ctx context.Context) (model.Quote, error)
}

// QuoteSaver remembers the last successful quote.
type QuoteSaver interface {
	SaveQuote(q model.Quote) error
}

// Config controls the daemon runtime behavior.
type Config struct {
	Interval     time.Duration
	Addr         string
	EventsBuffer int

	// The worksheet the breakdown is computed from. Fixed for the
	// lifetime of the service.
	Entries     []model.CostEntry
	Allocation  model.AllocationSettings
	InitialRate float64
	RateSource  string
}

// Snapshot is the computed state published in status and event payloads.
type Snapshot struct {
	At      time.Time `json:"at"`
	Rate    float64   `json:"rate"`
	Total   float64   `json:"total_brl"`
	PerUser float64   `json:"per_user_brl"`
	Entries int       `json:"entries"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	Rate    float64 `json:"rate"`
	Total   float64 `json:"total_brl"`
	PerUser float64 `json:"per_user_brl"`
}

const deltaEpsilon = 1e-9

func (d Delta) isZero() bool {
	return math.Abs(d.Rate) < deltaEpsilon &&
		math.Abs(d.Total) < deltaEpsilon &&
		math.Abs(d.PerUser) < deltaEpsilon
}

// Event is emitted whenever the rate, and so the breakdown, changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time    `json:"started_at"`
	LastPollAt      time.Time    `json:"last_poll_at"`
	PollIntervalSec int          `json:"poll_interval_sec"`
	PollCount       int64        `json:"poll_count"`
	RateSource      string       `json:"rate_source"`
	Quote           *model.Quote `json:"quote,omitempty"`
	Summary         Snapshot     `json:"summary"`
	LastError       string       `json:"last_error,omitempty"`
	EventCount      int          `json:"event_count"`
	SubscriberCount int          `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	fetcher Fetcher
	cache   QuoteSaver
	log     *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	rateSource  string
	quote       *model.Quote
	breakdown   model.Breakdown
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service. cache and log may be nil.
func New(cfg Config, fetcher Fetcher, cache QuoteSaver, log *zap.Logger) *Service {
	if cfg.Interval < time.Minute {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 50
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if log == nil {
		log = zap.NewNop()
	}

	now := time.Now()
	bd := pipeline.Compute(cfg.Entries, cfg.InitialRate, cfg.Allocation.Active())
	return &Service{
		cfg:        cfg,
		fetcher:    fetcher,
		cache:      cache,
		log:        log,
		startedAt:  now,
		rateSource: cfg.RateSource,
		breakdown:  bd,
		snapshot:   snapshotOf(bd, now),
		subs:       make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/breakdown", s.handleBreakdown)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("rate watcher started", zap.String("addr", s.cfg.Addr), zap.Duration("interval", s.cfg.Interval))

	// Seed so status is current immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce fetches a quote and publishes an event when the rate moved.
// A failed fetch keeps the current rate.
func (s *Service) pollOnce(ctx context.Context) {
	q, err := s.fetcher.FetchRate(ctx)
	now := time.Now()
	if err == nil && !(q.Rate > 0) {
		err = fmt.Errorf("non-positive rate %v", q.Rate)
	}
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("rate poll failed", zap.Error(err))
		return
	}

	if s.cache != nil {
		if err := s.cache.SaveQuote(q); err != nil {
			s.log.Warn("cache quote", zap.Error(err))
		}
	}

	bd := pipeline.Compute(s.cfg.Entries, q.Rate, s.cfg.Allocation.Active())
	snap := snapshotOf(bd, now)

	s.mu.Lock()
	prev := s.snapshot
	first := s.quote == nil

	s.breakdown = bd
	s.snapshot = snap
	s.quote = &q
	s.rateSource = "live"
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	var (
		ev      Event
		publish bool
	)
	delta := diffSnapshots(prev, snap)
	if first || !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "rate_change",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.Info("rate changed", zap.Float64("rate", snap.Rate), zap.Float64("delta", delta.Rate))
		s.publishEvent(ev)
	}
}

func snapshotOf(bd model.Breakdown, at time.Time) Snapshot {
	return Snapshot{
		At:      at,
		Rate:    bd.Rate,
		Total:   bd.Total,
		PerUser: bd.PerUser,
		Entries: len(bd.Entries),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Rate:    curr.Rate - prev.Rate,
		Total:   curr.Total - prev.Total,
		PerUser: curr.PerUser - prev.PerUser,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		RateSource:      s.rateSource,
		Quote:           s.quote,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

// handleBreakdown serves the current breakdown as the JSON report, or as
// any export format named by ?format=.
func (s *Service) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	format := export.FormatJSON
	if name := r.URL.Query().Get("format"); name != "" {
		f, err := export.ParseFormat(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	s.mu.RLock()
	report := export.NewReport(s.breakdown)
	s.mu.RUnlock()

	switch format {
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case export.FormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	case export.FormatXLS:
		w.Header().Set("Content-Type", "application/vnd.ms-excel")
	case export.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
	}
	if err := export.Write(w, report, format); err != nil {
		s.log.Error("serve breakdown", zap.Error(err))
	}
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
