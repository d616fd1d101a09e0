package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retrying(maxRetries int) Config {
	return Config{
		Timeout:      5 * time.Second,
		MaxRetries:   maxRetries,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}
}

func newRequest(t *testing.T, method, url, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	return req
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Zero(t, cfg.MaxRetries)
	assert.Equal(t, 100, cfg.MaxConnsPerHost)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}

func TestDo_SetsUserAgent(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	resp, err := New(Config{Timeout: time.Second}).Do(context.Background(), newRequest(t, http.MethodGet, server.URL, ""))
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, DefaultUserAgent, got.Load())
}

func TestDo_KeepsCallerUserAgent(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	req := newRequest(t, http.MethodGet, server.URL, "")
	req.Header.Set("User-Agent", "custom")
	resp, err := New(DefaultConfig()).Do(context.Background(), req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "custom", got.Load())
}

func TestDo_RetriesGetOn5xx(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := New(retrying(3)).Do(context.Background(), newRequest(t, http.MethodGet, server.URL, ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestDo_ReturnsLastResponseWhenRetriesRunOut(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resp, err := New(retrying(2)).Do(context.Background(), newRequest(t, http.MethodGet, server.URL, ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestDo_NeverRetriesMutations(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			resp, err := New(retrying(3)).Do(context.Background(), newRequest(t, method, server.URL, `{}`))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
			assert.Equal(t, int32(1), attempts.Load())
		})
	}
}

func TestDo_DoesNotRetry501(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotImplemented)
	}))
	defer server.Close()

	resp, err := New(retrying(3)).Do(context.Background(), newRequest(t, http.MethodGet, server.URL, ""))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDo_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(Config{
		Timeout:      5 * time.Second,
		MaxRetries:   10,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 500 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Do(ctx, newRequest(t, http.MethodGet, server.URL, ""))
	require.Error(t, err)
}

func TestDo_TransportErrorNamesRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(Config{Timeout: time.Second}).Do(context.Background(), newRequest(t, http.MethodPost, url+"/products", `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POST /products failed after 1 attempt(s)")
}

func TestBackoff(t *testing.T) {
	c := New(Config{RetryWaitMin: 10 * time.Millisecond, RetryWaitMax: 50 * time.Millisecond})

	assert.Equal(t, 10*time.Millisecond, c.backoff(0))
	assert.Equal(t, 20*time.Millisecond, c.backoff(1))
	assert.Equal(t, 40*time.Millisecond, c.backoff(2))
	assert.Equal(t, 50*time.Millisecond, c.backoff(3))
	assert.Equal(t, 50*time.Millisecond, c.backoff(62))
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(context.Canceled))
	assert.False(t, isRetryableError(context.DeadlineExceeded))
}
