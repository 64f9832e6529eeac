package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"transit-reachability-service/internal/logging"
	"transit-reachability-service/internal/ports"
)

type httpStatusError struct {
	Code int
	Body string
}

func (p *BVGTransitProvider) newRequest(
	ctx context.Context,
	endpoint string,
	params url.Values,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.URL.RawQuery = params.Encode()

	return req, nil
}

func (p *BVGTransitProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := p.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx responses)
// using exponential backoff while respecting context cancellation.
func (p *BVGTransitProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := p.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// getCached returns the body of GET path?params, served from the response
// cache when possible. Cache failures never fail the request.
func (p *BVGTransitProvider) getCached(ctx context.Context, path string, params url.Values) ([]byte, error) {
	logger := logging.FromContext(ctx)
	key := path + "?" + params.Encode()

	if p.cache != nil {
		body, err := p.cache.Get(ctx, key)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			logging.LogError(logger, "response cache read failed", err, slog.String("key", key))
		}
	}

	endpoint := p.baseURL + path
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, endpoint, params)
	})
	if err != nil {
		return nil, fmt.Errorf("execute request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, key, body, p.cfg.CacheTTL); err != nil {
			logging.LogError(logger, "response cache write failed", err, slog.String("key", key))
		}
	}

	return body, nil
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}
