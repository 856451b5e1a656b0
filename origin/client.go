package origin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"romhack-catalog/config"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Client talks to the listing sites the catalog links to.
type Client struct {
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a client using the user agent and timeout from cfg.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("USERAGENT is not configured")
	}
	return &Client{
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: cfg.CheckTimeout,
		},
	}, nil
}

// APIError is returned for non-2xx responses.
type APIError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request to %s failed: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: status %d, body: %s", e.URL, e.StatusCode, e.Body)
}

func (c *Client) makeRequest(ctx context.Context, method, fullURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return resp, &APIError{URL: fullURL, StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}
	return resp, nil
}

// LinkResult is the outcome of checking one URL.
type LinkResult struct {
	URL        string
	StatusCode int
	OK         bool
	Err        error
	Duration   time.Duration
}

// CheckURL reports whether rawURL answers with a 2xx status. It sends HEAD
// first and retries with GET when the server refuses HEAD.
func (c *Client) CheckURL(ctx context.Context, rawURL string) LinkResult {
	start := time.Now()
	res := LinkResult{URL: rawURL}

	resp, err := c.makeRequest(ctx, http.MethodHead, rawURL, "*/*")
	if resp != nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		resp, err = c.makeRequest(ctx, http.MethodGet, rawURL, "*/*")
		if err == nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		}
	}
	if err == nil {
		resp.Body.Close()
	}

	res.Duration = time.Since(start)
	if resp != nil {
		res.StatusCode = resp.StatusCode
	}
	res.Err = err
	res.OK = err == nil
	return res
}

// DownloadCover saves the image at downloadURL to destinationPath. The file
// is written next to the destination first and renamed once complete.
func (c *Client) DownloadCover(ctx context.Context, log *zap.SugaredLogger, destinationPath, downloadURL string) error {
	dir := filepath.Dir(destinationPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Warnw("Target directory for download does not exist, attempting to create", zap.String("directory", dir))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create target directory '%s': %w", dir, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check target directory '%s': %w", dir, err)
	}

	resp, err := c.makeRequest(ctx, http.MethodGet, downloadURL, "image/*")
	if err != nil {
		return fmt.Errorf("failed to start download for '%s' from %s: %w", filepath.Base(destinationPath), downloadURL, err)
	}
	defer resp.Body.Close()

	tmpPath := destinationPath + ".part"
	outFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", tmpPath, err)
	}

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		outFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write downloaded content to '%s': %w", destinationPath, err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close '%s': %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, destinationPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	log.Infow("Downloaded cover", zap.String("file", destinationPath), zap.Int64("bytes", resp.ContentLength))
	return nil
}
