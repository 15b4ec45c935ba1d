package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/studyprep/internal/util"
)

const (
	// DefaultUserAgent identifies catalog downloads
	DefaultUserAgent = "studyprep/0.1 (+https://github.com/ppiankov/studyprep)"

	// DefaultMaxBytes bounds a downloaded catalog
	DefaultMaxBytes = 1 << 20
)

// ErrDisallowed is returned when robots.txt forbids fetching a catalog
var ErrDisallowed = errors.New("catalog URL disallowed by robots.txt")

// Fetcher downloads shared catalogs over HTTP
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a fetcher on top of client, which carries proxy settings.
// A nil client uses http.DefaultTransport.
func NewFetcher(client *http.Client, timeout time.Duration) *Fetcher {
	var transport http.RoundTripper
	if client != nil {
		transport = client.Transport
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	return &Fetcher{
		httpClient: httpClient,
		robots:     util.NewRobotsChecker(httpClient, DefaultUserAgent),
		userAgent:  DefaultUserAgent,
		maxBytes:   DefaultMaxBytes,
	}
}

// Fetch downloads the catalog document at rawURL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	allowed, err := f.robots.Allowed(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/yaml,text/yaml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	// Read one byte past the limit to detect oversized documents
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("catalog exceeds %d bytes", f.maxBytes)
	}

	return body, nil
}

// IsRemote reports whether source names an HTTP(S) catalog
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Open resolves a catalog source: empty for the built-in catalog, an HTTP(S)
// URL fetched with f, or a file path
func Open(ctx context.Context, source string, f *Fetcher) (*Catalog, error) {
	if !IsRemote(source) {
		return LoadOrDefault(source)
	}

	if f == nil {
		f = NewFetcher(nil, 30*time.Second)
	}
	data, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("download catalog: %w", err)
	}
	return Parse(data)
}
