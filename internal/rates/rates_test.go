package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_LookupRate(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","base_code":"USD","target_code":"CAD","conversion_rate":1.3642}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL+"/v6/", "secret", time.Second)
	rate, err := p.LookupRate(context.Background(), "USD", "CAD")
	require.NoError(t, err)
	assert.Equal(t, 1.3642, rate)
	assert.Equal(t, "/v6/secret/pair/USD/CAD", gotPath)
}

func TestHTTPProvider_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{name: "missing rate field", status: http.StatusOK, body: `{"result":"success"}`, malformed: true},
		{name: "not json", status: http.StatusOK, body: `<html>`, malformed: true},
		{name: "api error", status: http.StatusOK, body: `{"result":"error","error-type":"invalid-key"}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPProvider(srv.URL, "k", time.Second).LookupRate(context.Background(), "EUR", "CAD")
			require.Error(t, err)
			assert.Equal(t, tt.malformed, errors.Is(err, ErrMalformedResponse))
		})
	}
}

func TestHTTPProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPProvider(url, "k", time.Second).LookupRate(context.Background(), "EUR", "CAD")
	assert.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(map[string]float64{"usd/cad": 1.25})

	rate, err := p.LookupRate(context.Background(), "USD", "CAD")
	require.NoError(t, err)
	assert.Equal(t, 1.25, rate)

	_, err = p.LookupRate(context.Background(), "EUR", "CAD")
	assert.Error(t, err)
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) LookupRate(context.Context, string, string) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return 2, nil
}

func TestCachingProvider_HitsAndExpiry(t *testing.T) {
	src := &countingSource{}
	c := NewCachingProvider(src, time.Minute, 10)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for range 3 {
		rate, err := c.LookupRate(context.Background(), "USD", "CAD")
		require.NoError(t, err)
		assert.Equal(t, 2.0, rate)
	}
	assert.Equal(t, 1, src.calls)

	now = now.Add(2 * time.Minute)
	_, err := c.LookupRate(context.Background(), "USD", "CAD")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "expired entries are fetched again")
}

func TestCachingProvider_DoesNotCacheErrors(t *testing.T) {
	src := &countingSource{err: errors.New("down")}
	c := NewCachingProvider(src, time.Minute, 10)

	_, err := c.LookupRate(context.Background(), "USD", "CAD")
	require.Error(t, err)
	_, err = c.LookupRate(context.Background(), "USD", "CAD")
	require.Error(t, err)
	assert.Equal(t, 2, src.calls)
	assert.Zero(t, c.Size())
}

func TestCachingProvider_EvictsLeastRecentlyUsed(t *testing.T) {
	src := &countingSource{}
	c := NewCachingProvider(src, time.Hour, 2)
	ctx := context.Background()

	c.LookupRate(ctx, "USD", "CAD")
	c.LookupRate(ctx, "EUR", "CAD")
	c.LookupRate(ctx, "USD", "CAD") // refresh USD
	c.LookupRate(ctx, "GBP", "CAD") // evicts EUR
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, 3, src.calls)

	c.LookupRate(ctx, "USD", "CAD")
	assert.Equal(t, 3, src.calls, "USD stayed cached")
	c.LookupRate(ctx, "EUR", "CAD")
	assert.Equal(t, 4, src.calls, "EUR was evicted")
}
