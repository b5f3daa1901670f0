package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rateio/internal/model"
)

const sampleBody = `{"USDBRL":{"code":"USD","codein":"BRL","name":"Dólar Americano/Real Brasileiro",` +
	`"high":"5.46","low":"5.39","varBid":"0.01","pctChange":"0.2",` +
	`"bid":"5.4321","ask":"5.4367","timestamp":"1700000000","create_date":"2023-11-14 19:13:20"}}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func TestFetchRate(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(sampleBody))
	})
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	q, err := c.FetchRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/last/USD-BRL", gotPath)
	assert.Equal(t, model.PairUSDBRL, q.Pair)
	assert.Equal(t, 5.44, q.Rate)
	assert.InDelta(t, 5.4367, q.Ask, 1e-9)
	assert.InDelta(t, 5.4321, q.Bid, 1e-9)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), q.QuotedAt)
	assert.Equal(t, fixed, q.FetchedAt)
}

func TestParseQuote_Rounding(t *testing.T) {
	tests := []struct {
		ask  string
		want float64
	}{
		{"5.5", 5.5},
		{"5.555", 5.56},
		{"5.554", 5.55},
		{"4.999", 5},
	}
	for _, tt := range tests {
		q, err := parseQuote([]byte(`{"USDBRL":{"ask":"`+tt.ask+`"}}`), model.PairUSDBRL)
		require.NoError(t, err, tt.ask)
		assert.Equal(t, tt.want, q.Rate, tt.ask)
		assert.True(t, q.QuotedAt.IsZero())
	}
}

func TestParseQuote_Malformed(t *testing.T) {
	bodies := []string{
		`not json`,
		`{}`,
		`{"EURBRL":{"ask":"6.1"}}`,
		`{"USDBRL":{"bid":"5.4"}}`,
		`{"USDBRL":{"ask":"abc"}}`,
		`{"USDBRL":{"ask":"0"}}`,
		`{"USDBRL":{"ask":"-2.5"}}`,
	}
	for _, b := range bodies {
		_, err := parseQuote([]byte(b), model.PairUSDBRL)
		assert.ErrorIs(t, err, ErrMalformedQuote, b)
	}
}

func TestFetchRate_StatusErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.FetchRate(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)

	c = newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err = c.FetchRate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestFetchRate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.FetchRate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchRate_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < breakerTrip; i++ {
		_, err := c.FetchRate(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := c.FetchRate(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(breakerTrip), hits.Load())
}

func TestFetchRate_CanceledDoesNotTrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleBody))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < breakerTrip+1; i++ {
		_, err := c.FetchRate(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	}

	q, err := c.FetchRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5.44, q.Rate)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, defaultTimeout, c.timeout)
}
