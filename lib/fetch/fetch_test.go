package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"parly-backend/internal/components/chrono"
	"parly-backend/internal/components/telemetry"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type statusSequence struct {
	statuses []int
	hits     atomic.Int64
}

func (s *statusSequence) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idx := int(s.hits.Add(1)) - 1
	status := s.statuses[len(s.statuses)-1]
	if idx < len(s.statuses) {
		status = s.statuses[idx]
	}
	w.WriteHeader(status)
	if status == http.StatusOK {
		w.Write([]byte("<ArrayOfMemberVote />"))
	}
}

func newTestClient(sleeper chrono.Sleeper, tel telemetry.API) *Client {
	return NewClient(tel, Options{
		MaxRetries: 3,
		Timeout:    time.Second * 5,
		Sleeper:    sleeper,
	})
}

func TestGet(t *testing.T) {
	cases := []struct {
		name           string
		statuses       []int
		expectOutcome  Outcome
		expectAttempts int
		expectWaits    []time.Duration
	}{
		{
			name:           "ok",
			statuses:       []int{200},
			expectOutcome:  OutcomeOK,
			expectAttempts: 1,
		},
		{
			name:           "not found is not retried",
			statuses:       []int{404},
			expectOutcome:  OutcomeNotFound,
			expectAttempts: 1,
		},
		{
			name:           "other client errors are not retried",
			statuses:       []int{403},
			expectOutcome:  OutcomeNoData,
			expectAttempts: 1,
		},
		{
			name:           "server error then ok",
			statuses:       []int{503, 200},
			expectOutcome:  OutcomeOK,
			expectAttempts: 2,
			expectWaits:    []time.Duration{time.Second},
		},
		{
			name:           "server errors exhaust retries",
			statuses:       []int{500, 502, 504},
			expectOutcome:  OutcomeNoData,
			expectAttempts: 3,
			expectWaits:    []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:           "rate limited exhausts retries",
			statuses:       []int{429},
			expectOutcome:  OutcomeNoData,
			expectAttempts: 3,
			expectWaits:    []time.Duration{5 * time.Second, 10 * time.Second},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			handler := &statusSequence{statuses: test.statuses}
			server := httptest.NewServer(handler)
			defer server.Close()

			sleeper := &chrono.FakeSleeper{}
			client := newTestClient(sleeper, &telemetry.Recorder{})

			res, err := client.Get(context.Background(), server.URL+"/Members/en/1/votes/xml")
			require.NoError(t, err)
			require.Equal(t, test.expectOutcome, res.Outcome)
			require.Equal(t, test.expectAttempts, res.Attempts)
			require.Equal(t, int64(test.expectAttempts), handler.hits.Load())
			require.Equal(t, test.expectWaits, res.Waits)
			require.Equal(t, len(test.expectWaits), len(sleeper.Sleeps()))

			if test.expectOutcome == OutcomeOK {
				require.Equal(t, "<ArrayOfMemberVote />", string(res.Body))
			} else {
				require.Empty(t, res.Body)
			}
		})
	}
}

func TestGetRateLimitedBackoffIsNonDecreasing(t *testing.T) {
	handler := &statusSequence{statuses: []int{429}}
	server := httptest.NewServer(handler)
	defer server.Close()

	sleeper := &chrono.FakeSleeper{}
	client := NewClient(&telemetry.Recorder{}, Options{MaxRetries: 6, Sleeper: sleeper})

	res, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, OutcomeNoData, res.Outcome)
	require.Len(t, res.Waits, 5)

	var total time.Duration
	for i, wait := range res.Waits {
		if i > 0 {
			require.GreaterOrEqual(t, wait, res.Waits[i-1])
		}
		total += wait
	}
	require.Equal(t, (5+10+20+40+80)*time.Second, total)
}

func TestGetTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	sleeper := &chrono.FakeSleeper{}
	tel := &telemetry.Recorder{}
	client := newTestClient(sleeper, tel)

	res, err := client.Get(context.Background(), url)
	require.NoError(t, err)
	require.Equal(t, OutcomeNoData, res.Outcome)
	require.Equal(t, 0, res.Status)
	require.Equal(t, 3, res.Attempts)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, res.Waits)

	// every failed attempt is reported
	require.Len(t, tel.Find("warning", report_client_get), 3)
}

func TestGetCancelled(t *testing.T) {
	handler := &statusSequence{statuses: []int{500}}
	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(&chrono.FakeSleeper{}, &telemetry.Recorder{})
	_, err := client.Get(ctx, server.URL)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	require.Equal(t, time.Second, Backoff(0, 500))
	require.Equal(t, 4*time.Second, Backoff(2, 0))
	require.Equal(t, 5*time.Second, Backoff(0, 429))
	require.Equal(t, 20*time.Second, Backoff(2, 429))
}
