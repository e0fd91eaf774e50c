package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tendant/presign-service/pkg/presign"
)

// ErrBadRequest is returned when the presign service rejects the parameters
var ErrBadRequest = errors.New("presign service rejected the request")

// Client talks to a presign service and moves bytes through the URLs it issues
type Client struct {
	baseURL       string
	httpClient    *http.Client
	retryAttempts int
	retryDelay    time.Duration
	progressFunc  ProgressFunc
}

// ProgressFunc is called during upload to report progress
// It receives the number of bytes uploaded so far
type ProgressFunc func(bytesUploaded int64)

// Option is a functional option for configuring a Client
type Option func(*Client)

// New creates a client for the presign service at baseURL (e.g. "http://localhost:1998")
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Minute, // Long timeout for large uploads
		},
		retryAttempts: 3,
		retryDelay:    1 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRetry configures retry behavior for uploads
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// WithProgress sets a progress callback function
func WithProgress(fn ProgressFunc) Option {
	return func(c *Client) {
		c.progressFunc = fn
	}
}

// PresignedURLs asks the service for a GET/PUT pair
//
// Example:
//
//	pair, err := c.PresignedURLs(ctx, presign.PresignRequest{Key: "tmp/test", ContentLength: size})
func (c *Client) PresignedURLs(ctx context.Context, req presign.PresignRequest) (presign.SignedPair, error) {
	endpoint := c.baseURL + "/presigned-url?" + req.Query().Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return presign.SignedPair{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return presign.SignedPair{}, fmt.Errorf("presign request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return presign.SignedPair{}, ErrBadRequest
	case resp.StatusCode != http.StatusOK:
		return presign.SignedPair{}, fmt.Errorf("presign request failed with status: %s", resp.Status)
	}

	var pair presign.SignedPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return presign.SignedPair{}, fmt.Errorf("failed to decode presign response: %w", err)
	}
	return pair, nil
}

// Upload PUTs size bytes from data to a presigned URL.
// A URL signed with a content-length only accepts a body of exactly that size.
//
// data must be an io.ReadSeeker for retries to resend the body; other
// readers are attempted once.
func (c *Client) Upload(ctx context.Context, presignedURL string, data io.Reader, size int64) error {
	attempts := c.retryAttempts
	seeker, canRewind := data.(io.ReadSeeker)
	if !canRewind {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("failed to rewind upload body: %w", err)
			}
		}

		var body io.Reader = data
		switch {
		case size == 0:
			body = http.NoBody
		case c.progressFunc != nil:
			body = &progressReader{reader: data, callback: c.progressFunc}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, body)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.ContentLength = size

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("upload failed: %w", err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		lastErr = fmt.Errorf("upload failed with status: %s", resp.Status)

		// Don't retry on client errors (4xx)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}
	}

	return fmt.Errorf("upload failed after %d attempts: %w", attempts, lastErr)
}

// Download opens the object behind a presigned GET URL. The caller closes the body.
func (c *Client) Download(ctx context.Context, presignedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, presignedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status: %s", resp.Status)
	}

	return resp.Body, nil
}

// progressReader wraps an io.Reader to track upload progress
type progressReader struct {
	reader    io.Reader
	bytesRead int64
	callback  ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.callback != nil && n > 0 {
		pr.callback(pr.bytesRead)
	}
	return n, err
}
