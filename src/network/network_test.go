package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"market-dashboard/src/helpers"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(retries int) *NetworkManager {
	nm := NewNetworkManager(models.MNetworkConfig{
		RequestTimeout:     1,
		MaxRetries:         retries,
		ConcurrentRequests: 2,
		UserAgent:          "dashboard-test",
	}, logger.Nop())
	nm.RetryDelay = time.Millisecond
	return nm
}

func TestGetSendsParamsAndUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "D", r.URL.Query().Get("resolution"))
		assert.Equal(t, "dashboard-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"s":"ok"}`))
	}))
	defer srv.Close()

	body, err := newTestManager(0).Get(context.Background(), srv.URL+"/stock/candle", map[string]string{
		"symbol":     "AAPL",
		"resolution": "D",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"ok"}`, string(body))
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	body, err := newTestManager(2).Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetDoesNotRetryNotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestManager(3).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)

	var netErr *helpers.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := newTestManager(0).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2500*time.Millisecond)
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req models.MChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "s-1", req.SessionID)
		w.Write([]byte(`{"response":{"message":"hi"}}`))
	}))
	defer srv.Close()

	body, err := newTestManager(0).PostJSON(context.Background(), srv.URL+"/chat", models.MChatRequest{SessionID: "s-1", UserInput: "hello"})
	require.NoError(t, err)
	assert.Contains(t, string(body), "hi")
}

func TestPostJSONIsSentOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestManager(3).PostJSON(context.Background(), srv.URL+"/chat", models.MChatRequest{SessionID: "s-1", UserInput: "hello"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetInvalidURL(t *testing.T) {
	_, err := newTestManager(0).Get(context.Background(), "://bad", nil)
	assert.True(t, helpers.IsValidation(err))
}
