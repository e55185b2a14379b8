package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/auto-dns/github-host-sync/internal/config"
)

var errBodyTooLarge = errors.New("response body exceeds size limit")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher retrieves the hosts document with a single GET. It never retries.
type HTTPFetcher struct {
	client       httpDoer
	url          string
	userAgent    string
	maxBodyBytes int64
	logger       zerolog.Logger
}

func NewHTTPFetcher(cfg *config.SourceConfig, logger zerolog.Logger) *HTTPFetcher {
	return NewHTTPFetcherWithClient(&http.Client{Timeout: cfg.Timeout}, cfg, logger)
}

func NewHTTPFetcherWithClient(client httpDoer, cfg *config.SourceConfig, logger zerolog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client:       client,
		url:          cfg.URL,
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
	}
}

// Fetch returns the response body decoded to UTF-8 according to the declared
// Content-Type charset. Any non-2xx status or transport error is a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", NewFetchError(f.url, 0, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", NewFetchError(f.url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", NewFetchError(f.url, resp.StatusCode, fmt.Errorf("unexpected status %q", resp.Status))
	}

	body, err := f.readBody(resp)
	if err != nil {
		return "", NewFetchError(f.url, 0, err)
	}

	f.logger.Debug().
		Str("url", f.url).
		Str("size", humanize.Bytes(uint64(len(body)))).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched remote hosts document")
	return body, nil
}

func (f *HTTPFetcher) readBody(resp *http.Response) (string, error) {
	var src io.Reader = resp.Body
	if f.maxBodyBytes > 0 {
		src = &capReader{r: resp.Body, max: f.maxBodyBytes}
	}

	decoded, err := charset.NewReader(src, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	raw, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(raw), nil
}

// capReader fails once more than max bytes have been read from r.
type capReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (c *capReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.max {
		return n, errBodyTooLarge
	}
	return n, err
}
