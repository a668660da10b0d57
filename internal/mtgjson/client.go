package mtgjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

const (
	baseURL        = "https://mtgjson.com/api/v5"
	rateLimitDelay = 500 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second

	// AllPrintings is a multi-hundred-megabyte download; it gets a much
	// longer timeout than metadata requests.
	downloadTimeout = 30 * time.Minute
)

// Client downloads MTGJSON data with rate limiting and retry.
type Client struct {
	httpClient     *http.Client
	downloadClient *http.Client
	rateLimiter    *rate.Limiter
	userAgent      string
	baseURL        string
}

// NewClient creates a new MTGJSON client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		downloadClient: &http.Client{
			Timeout: downloadTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "booster-sim/1.0",
		baseURL:     baseURL,
	}
}

// GetMeta retrieves the current MTGJSON release metadata. Callers compare
// it against the meta of the local data file to decide whether a download
// is needed.
func (c *Client) GetMeta(ctx context.Context) (*Meta, error) {
	url := fmt.Sprintf("%s/Meta.json", c.baseURL)

	var meta MetaResponse
	if err := c.doRequest(ctx, url, &meta); err != nil {
		return nil, fmt.Errorf("failed to get MTGJSON meta: %w", err)
	}

	return &meta.Data, nil
}

// DownloadAllPrintings downloads AllPrintings.json to destPath. The file is
// streamed to a temporary sibling first and renamed into place only on
// success, so an interrupted download never clobbers existing data. If a
// previous file exists it is kept as a .bak sibling.
func (c *Client) DownloadAllPrintings(ctx context.Context, destPath string) error {
	url := fmt.Sprintf("%s/AllPrintings.json", c.baseURL)
	return c.downloadFile(ctx, url, destPath)
}

func (c *Client) downloadFile(ctx context.Context, url, destPath string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	tempPath := destPath + ".temp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write download: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	// Keep the previous file around in case the new one is broken.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Rename(destPath, destPath+".bak"); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("backup previous data file: %w", err)
		}
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("move download into place: %w", err)
	}

	return nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)

			// Retry on network errors
			if attempt < maxRetries {
				if err := sleepContext(ctx, backoff); err != nil {
					return err
				}
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			lastErr = fmt.Errorf("server busy (HTTP %d)", resp.StatusCode)
			if attempt < maxRetries {
				if err := sleepContext(ctx, backoff); err != nil {
					return err
				}
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		default:
			return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
		}
	}

	return lastErr
}

// sleepContext waits out a retry backoff, returning early if the context is
// canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
