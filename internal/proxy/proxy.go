package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "portal-gateway/pkg/errors"
)

const contentTypePDF = "application/pdf"

// ValidateURL checks that raw is an absolute http(s) URL. Validation happens
// before any outbound fetch so malformed input never leaves the process.
func ValidateURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.InvalidInput("url is required")
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("not a valid absolute URL: %q", raw))
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported scheme: %q", u.Scheme))
	}

	return u, nil
}

// AllowedImageType accepts any image/* content type.
func AllowedImageType(contentType string) bool {
	return strings.HasPrefix(mediaType(contentType), "image/")
}

// AllowedDocumentType accepts PDF only.
func AllowedDocumentType(contentType string) bool {
	return mediaType(contentType) == contentTypePDF
}

func mediaType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// Result is a streamed upstream response. The caller owns Body.
type Result struct {
	Body        io.ReadCloser
	ContentType string
}

// Fetcher performs the single bounded outbound GET behind the proxy
// endpoints. No retries; a failure is surfaced immediately.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.Upstream("failed to build upstream request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("upstream fetch failed", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, apperrors.NotFound("upstream resource not found")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, apperrors.Upstream(fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
	}

	return &Result{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
