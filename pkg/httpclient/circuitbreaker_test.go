package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBreaker(name string, timeout time.Duration) *CircuitBreakerClient {
	return NewCircuitBreakerClient(New(Config{Timeout: 5 * time.Second}), CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      timeout,
		FailureRatio: 0.5,
		MinRequests:  3,
	}, testLogger())
}

func get(t *testing.T, cb *CircuitBreakerClient, ctx context.Context, url string) (*http.Response, error) {
	t.Helper()
	return cb.Do(ctx, newRequest(t, http.MethodGet, url, ""))
}

func TestCircuitBreaker_ClosedState_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	cb := testBreaker("test-closed", time.Second)

	resp, err := get(t, cb, context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_ServerErrorBodyIsPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"duplicate SKU"}`))
	}))
	defer server.Close()

	cb := testBreaker("test-body", time.Second)

	resp, err := cb.Do(context.Background(), newRequest(t, http.MethodPost, server.URL, `{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"duplicate SKU"}`, string(body))
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	cb := testBreaker("test-4xx", time.Second)
	for range 5 {
		resp, err := get(t, cb, context.Background(), server.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_CanceledCallsDoNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cb := testBreaker("test-canceled", time.Second)
	for range 5 {
		_, err := get(t, cb, ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_TripsOnFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cb := testBreaker("test-trip", time.Second)

	for range 3 {
		resp, err := get(t, cb, context.Background(), server.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := get(t, cb, context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.True(t, IsBreakerError(err))
}

func TestCircuitBreaker_HalfOpenToClosedRecovery(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	cb := testBreaker("test-recovery", 100*time.Millisecond)

	for range 3 {
		if resp, err := get(t, cb, context.Background(), server.URL); err == nil {
			_ = resp.Body.Close()
		}
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	time.Sleep(150 * time.Millisecond)
	failing.Store(false)

	resp, err := get(t, cb, context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestIsBreakerError(t *testing.T) {
	assert.True(t, IsBreakerError(ErrCircuitOpen))
	assert.True(t, IsBreakerError(ErrTooManyRequests))
	assert.False(t, IsBreakerError(context.Canceled))
	assert.False(t, IsBreakerError(nil))
}
