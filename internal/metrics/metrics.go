// Package metrics provides Prometheus instrumentation for the conversation poller.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/poller"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/logging"
)

// PollObserver records every settled fetch. It implements poller.Observer.
type PollObserver struct {
	registry *prometheus.Registry
	store    *poller.Store

	// ResultsTotal counts settled fetches by outcome.
	ResultsTotal *prometheus.CounterVec

	// FetchDuration tracks how long each snapshot fetch took.
	FetchDuration prometheus.Histogram

	// Conversations tracks the size of the last applied snapshot.
	Conversations prometheus.Gauge

	// UnreadMessages tracks the unread total of the last applied snapshot.
	UnreadMessages prometheus.Gauge
}

// NewPollObserver registers the poller metrics on a private registry.
// store may be nil; the gauges then stay at zero.
func NewPollObserver(store *poller.Store) *PollObserver {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	o := &PollObserver{
		registry: reg,
		store:    store,
		ResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inbox_poll_results_total",
				Help: "Settled conversation snapshot fetches by outcome",
			},
			[]string{"outcome"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inbox_poll_fetch_duration_seconds",
				Help:    "Conversation snapshot fetch duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		Conversations: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "inbox_conversations",
				Help: "Conversations in the local store",
			},
		),
		UnreadMessages: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "inbox_unread_messages",
				Help: "Unread messages across all conversations",
			},
		),
	}
	reg.MustRegister(collectors.NewGoCollector())
	return o
}

func (o *PollObserver) ObserveResult(res poller.Result, outcome poller.Outcome) {
	o.ResultsTotal.WithLabelValues(string(outcome)).Inc()
	if outcome != poller.OutcomeDiscarded {
		o.FetchDuration.Observe(res.Duration().Seconds())
	}
	if outcome == poller.OutcomeApplied && o.store != nil {
		o.Conversations.Set(float64(o.store.Len()))
		o.UnreadMessages.Set(float64(o.store.UnreadTotal()))
	}
}

// Handler serves the private registry in the Prometheus text format.
func (o *PollObserver) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{Registry: o.registry})
}

// Serve exposes /metrics on addr until ctx ends.
func (o *PollObserver) Serve(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Handle("/metrics", o.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log := logging.Component("metrics")
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
