// Package fetch retrieves candidate URLs and accepts the first one that
// returns JSON.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/kjet-platform/countydata/internal/model"
	"github.com/kjet-platform/countydata/internal/util"
)

// sniffBytes caps how much of a non-JSON body is read for diagnostics.
const sniffBytes = 64 << 10

// Gate decides whether a URL may be requested at all.
type Gate interface {
	Check(ctx context.Context, rawURL string) error
}

// Gates applies each gate in order and stops at the first error.
type Gates []Gate

func (g Gates) Check(ctx context.Context, rawURL string) error {
	for _, gate := range g {
		if gate == nil {
			continue
		}
		if err := gate.Check(ctx, rawURL); err != nil {
			return err
		}
	}
	return nil
}

// Fetcher performs single candidate retrievals and classifies the response.
// It sends no cookies or credentials.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	gate       Gate
}

// NewFetcher creates a Fetcher from the HTTP section of the config.
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed dev buckets
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
	}
}

// WithGate returns a copy of f that consults g before every request.
func (f *Fetcher) WithGate(g Gate) *Fetcher {
	c := *f
	c.gate = g
	return &c
}

// Response is a successful, JSON-typed retrieval.
type Response struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetch retrieves rawURL. It returns an error unless the response has a 2xx
// status and a JSON content type. The body is not parsed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if f.gate != nil {
		if err := f.gate.Check(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !IsJSONContentType(contentType) {
		cterr := &ContentTypeError{ContentType: contentType}
		if isHTML(contentType) {
			cterr.Title = pageTitle(io.LimitReader(resp.Body, sniffBytes))
		}
		return nil, cterr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// IsJSONContentType reports whether a Content-Type header declares JSON,
// including structured suffixes such as application/problem+json.
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
