// Package poller keeps a local conversation store in sync with the backend by
// polling full snapshots on a fixed interval.
package poller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/logging"
)

const (
	DefaultInterval = 4 * time.Second
	MinInterval     = 100 * time.Millisecond
)

var ErrAlreadyStarted = errors.New("scheduler already started")

// StalePolicy decides what happens to a successful result that completes after
// a newer one has already been applied.
type StalePolicy string

const (
	// DiscardStale drops results whose sequence number is below the highest applied one.
	DiscardStale StalePolicy = "discard-stale"
	// LastWriteWins applies every successful result in completion order.
	LastWriteWins StalePolicy = "last-write-wins"
)

func ParseStalePolicy(raw string) (StalePolicy, error) {
	switch StalePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DiscardStale:
		return DiscardStale, nil
	case LastWriteWins:
		return LastWriteWins, nil
	default:
		return "", fmt.Errorf("invalid stale policy %q (want %s|%s)", raw, DiscardStale, LastWriteWins)
	}
}

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeStale     Outcome = "stale"
	OutcomeFailed    Outcome = "failed"
	OutcomeMalformed Outcome = "malformed"
	// OutcomeDiscarded marks a result that arrived after Stop.
	OutcomeDiscarded Outcome = "discarded"
)

// Result is one settled fetch, tagged with the sequence number assigned at dispatch.
type Result struct {
	Seq           uint64
	Conversations []data.Conversation
	Err           error
	Started       time.Time
	Finished      time.Time
}

func (r Result) OK() bool { return r.Err == nil }

func (r Result) Duration() time.Duration {
	if r.Finished.Before(r.Started) {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Observer receives every settled result. Implementations must not block.
type Observer interface {
	ObserveResult(res Result, outcome Outcome)
}

// Update notifies readers that a fetch settled and the store may have changed.
type Update struct {
	Seq     uint64
	Outcome Outcome
	Version uint64
	Err     error
}

type Options struct {
	Interval    time.Duration
	Clock       Clock
	StalePolicy StalePolicy
	Observer    Observer
	Logger      *zerolog.Logger
}

// Scheduler drives a SnapshotFetcher on a fixed cadence and reconciles
// results into a Store.
type Scheduler struct {
	fetcher  data.SnapshotFetcher
	store    *Store
	interval time.Duration
	clock    Clock
	policy   StalePolicy
	observer Observer
	log      zerolog.Logger

	updates chan Update
	kick    chan struct{}

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// Owned by the loop goroutine. Loops never overlap: Stop waits for done.
	nextSeq     uint64
	lastApplied uint64
}

func New(fetcher data.SnapshotFetcher, store *Store, opts Options) *Scheduler {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clock := opts.Clock
	if clock == nil {
		clock = RealClock{}
	}
	policy := opts.StalePolicy
	if policy == "" {
		policy = DiscardStale
	}
	if store == nil {
		store = NewStore()
	}
	log := logging.Component("poller")
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Scheduler{
		fetcher:  fetcher,
		store:    store,
		interval: interval,
		clock:    clock,
		policy:   policy,
		observer: opts.Observer,
		log:      log,
		updates:  make(chan Update, 1),
		kick:     make(chan struct{}, 1),
	}
}

func (s *Scheduler) Store() *Store { return s.store }

func (s *Scheduler) Policy() StalePolicy { return s.policy }

// Updates delivers a notification after every settled fetch. A slow reader
// sees only the latest one.
func (s *Scheduler) Updates() <-chan Update { return s.updates }

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start fetches immediately and then once per interval until Stop or ctx ends.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.fetcher == nil {
		return fmt.Errorf("fetcher required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.running = true
	s.cancel = cancel
	s.done = done

	ticker := s.clock.NewTicker(s.interval)
	s.log.Info().Dur("interval", s.interval).Str("stale_policy", string(s.policy)).Msg("polling started")
	go s.loop(loopCtx, ticker, done)
	return nil
}

// Stop cancels future ticks and waits for the loop to exit. Fetches still in
// flight finish on their own and their results are discarded.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	<-done
	s.log.Info().Msg("polling stopped")
}

// RefreshNow requests an out-of-schedule fetch. It is a no-op when stopped.
func (s *Scheduler) RefreshNow() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer s.release(done)
	defer ticker.Stop()

	select {
	case <-s.kick:
	default:
	}

	results := make(chan Result)
	s.dispatch(ctx, results)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.dispatch(ctx, results)
		case <-s.kick:
			s.dispatch(ctx, results)
		case res := <-results:
			s.settle(ctx, res)
		}
	}
}

// release clears the running state when the loop exits because its parent
// context ended. Stop has already cleared it otherwise.
func (s *Scheduler) release(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != done {
		return
	}
	cancel := s.cancel
	s.running = false
	s.cancel = nil
	s.done = nil
	cancel()
	s.log.Info().Msg("polling stopped: context done")
}

// dispatch fires one fetch regardless of whether earlier ones are still in flight.
func (s *Scheduler) dispatch(ctx context.Context, results chan<- Result) {
	s.nextSeq++
	seq := s.nextSeq
	fetchCtx := context.WithoutCancel(ctx)

	go func() {
		res := Result{Seq: seq, Started: s.clock.Now()}
		res.Conversations, res.Err = s.fetcher.FetchConversations(fetchCtx)
		res.Finished = s.clock.Now()

		select {
		case results <- res:
		case <-ctx.Done():
			s.log.Debug().Uint64("seq", seq).Msg("result discarded after stop")
			s.observe(res, OutcomeDiscarded)
		}
	}()
}

func (s *Scheduler) settle(ctx context.Context, res Result) {
	if ctx.Err() != nil {
		s.observe(res, OutcomeDiscarded)
		return
	}
	s.store.MarkSettled()

	outcome := s.apply(res)
	s.observe(res, outcome)

	s.publish(Update{Seq: res.Seq, Outcome: outcome, Version: s.store.Version(), Err: res.Err})
}

// publish replaces any update the reader has not picked up yet, so the
// buffered value is always the latest outcome.
func (s *Scheduler) publish(u Update) {
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- u:
	default:
	}
}

func (s *Scheduler) apply(res Result) Outcome {
	if res.Err != nil {
		if data.IsMalformed(res.Err) {
			s.log.Debug().Err(res.Err).Uint64("seq", res.Seq).Msg("snapshot rejected")
			return OutcomeMalformed
		}
		s.log.Debug().Err(res.Err).Uint64("seq", res.Seq).Msg("fetch failed")
		return OutcomeFailed
	}
	if s.policy == DiscardStale && res.Seq < s.lastApplied {
		s.log.Debug().Uint64("seq", res.Seq).Uint64("applied", s.lastApplied).Msg("stale snapshot dropped")
		return OutcomeStale
	}
	if err := s.store.ReplaceWith(res.Conversations); err != nil {
		s.log.Debug().Err(err).Uint64("seq", res.Seq).Msg("snapshot rejected")
		return OutcomeMalformed
	}
	if res.Seq > s.lastApplied {
		s.lastApplied = res.Seq
	}
	return OutcomeApplied
}

func (s *Scheduler) observe(res Result, outcome Outcome) {
	if s.observer != nil {
		s.observer.ObserveResult(res, outcome)
	}
}
