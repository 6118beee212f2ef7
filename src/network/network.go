package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"market-dashboard/src/helpers"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// maxBodyBytes caps provider responses.
const maxBodyBytes = 8 << 20

// -----------------------------------------------------------------------------

type NetworkManager struct {
	Config       models.MNetworkConfig
	ProxyManager interfaces.IProxyManager
	Logger       *logger.Logger
	// RetryDelay is the backoff unit; attempt n waits RetryDelay*n*n.
	RetryDelay time.Duration

	mu     sync.RWMutex
	client *http.Client
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg models.MNetworkConfig, log *logger.Logger) *NetworkManager {
	var proxies []string
	if cfg.Enabled {
		proxies = cfg.Proxies
	}

	nm := &NetworkManager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(proxies, cfg.UserAgent),
		Logger:       log,
		RetryDelay:   time.Second,
	}
	nm.client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

// Timeout is the per-request deadline applied on top of the caller's context.
func (nm *NetworkManager) Timeout() time.Duration {
	if nm.Config.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(nm.Config.RequestTimeout) * time.Second
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = nm.Config.ConcurrentRequests

	if nm.ProxyManager.HasProxies() {
		proxyStr, err := nm.ProxyManager.GetCurrentProxy()
		if err == nil && proxyStr != "" {
			if proxyURL, err := url.Parse(proxyStr); err == nil {
				transport.Proxy = http.ProxyURL(proxyURL)
			}
		}
	}

	return &http.Client{Transport: transport}
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) rotateProxy() {
	if !nm.ProxyManager.HasProxies() {
		return
	}

	nm.ProxyManager.RotateProxy()
	nm.mu.Lock()
	nm.client = nm.createClient()
	nm.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries and proxy rotation.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.NewValidationError("invalid url %q: %v", urlStr, err)
	}

	q := reqURL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqURL.RawQuery = q.Encode()
	finalURL := reqURL.String()

	return nm.do(ctx, nm.Config.MaxRetries, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	})
}

// -----------------------------------------------------------------------------

// PostJSON sends payload as JSON once and returns the response body.
// Failed posts are not retried; the receiver may already have applied them.
func (nm *NetworkManager) PostJSON(ctx context.Context, urlStr string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, helpers.NewValidationError("cannot encode request body: %v", err)
	}

	return nm.do(ctx, 0, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) do(ctx context.Context, maxRetries int, build func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	onRetry := func(attempt int, lastErr error) {
		nm.Logger.Info("Request failed (attempt %d/%d): %v", attempt, maxRetries+1, lastErr)
		nm.rotateProxy()
	}

	return helpers.RetryWithBackoff(ctx, maxRetries, nm.RetryDelay, onRetry, func(ctx context.Context) ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(ctx, nm.Timeout())
		defer cancel()

		req, err := build(reqCtx)
		if err != nil {
			return nil, helpers.NewValidationError("cannot build request: %v", err)
		}
		req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
		req.Header.Set("Accept", "application/json")

		nm.mu.RLock()
		client := nm.client
		nm.mu.RUnlock()

		resp, err := client.Do(req)
		if err != nil {
			return nil, helpers.NewNetworkError(fmt.Sprintf("%s %s", req.Method, req.URL.Host), 0, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
			return nil, helpers.NewNetworkError(fmt.Sprintf("blocked by %s", req.URL.Host), resp.StatusCode, nil)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, helpers.NewNetworkError(fmt.Sprintf("bad status %d from %s", resp.StatusCode, req.URL.Host), resp.StatusCode, nil)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, helpers.NewNetworkError(fmt.Sprintf("reading body from %s", req.URL.Host), resp.StatusCode, err)
		}
		return body, nil
	})
}
