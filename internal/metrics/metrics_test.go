package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/poller"
)

func testConversation(id string, unread int) data.Conversation {
	return data.Conversation{
		ID:           id,
		Participants: []string{"me", "peer-" + id},
		UnreadCount:  unread,
		CreatedAt:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPollObserverCountsOutcomes(t *testing.T) {
	store := poller.NewStore()
	obs := NewPollObserver(store)

	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.ReplaceWith([]data.Conversation{testConversation("a", 2), testConversation("b", 5)}))
	obs.ObserveResult(poller.Result{Seq: 1, Started: start, Finished: start.Add(120 * time.Millisecond)}, poller.OutcomeApplied)
	obs.ObserveResult(poller.Result{Seq: 2, Err: errors.New("boom")}, poller.OutcomeFailed)
	obs.ObserveResult(poller.Result{Seq: 3}, poller.OutcomeFailed)
	obs.ObserveResult(poller.Result{Seq: 4}, poller.OutcomeDiscarded)

	require.Equal(t, 1.0, testutil.ToFloat64(obs.ResultsTotal.WithLabelValues("applied")))
	require.Equal(t, 2.0, testutil.ToFloat64(obs.ResultsTotal.WithLabelValues("failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(obs.ResultsTotal.WithLabelValues("discarded")))
	require.Equal(t, 2.0, testutil.ToFloat64(obs.Conversations))
	require.Equal(t, 7.0, testutil.ToFloat64(obs.UnreadMessages))
	require.Equal(t, 1, testutil.CollectAndCount(obs.FetchDuration))
}

func TestPollObserverHandlerExposesMetrics(t *testing.T) {
	obs := NewPollObserver(nil)
	obs.ObserveResult(poller.Result{Seq: 1}, poller.OutcomeStale)

	srv := httptest.NewServer(obs.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `inbox_poll_results_total{outcome="stale"} 1`)
	require.Contains(t, string(body), "inbox_conversations 0")
}
