package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultUserAgent = "inbox-sync"

// HTTPProvider fetches the conversation list from the backend read endpoint.
type HTTPProvider struct {
	endpoint  *url.URL
	token     string
	userAgent string
	client    *http.Client
	now       func() time.Time
}

func NewHTTPProvider(cfg HTTPProviderConfig) (*HTTPProvider, error) {
	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPProvider{
		endpoint:  endpoint,
		token:     strings.TrimSpace(cfg.Token),
		userAgent: userAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		now:       time.Now,
	}, nil
}

// Endpoint returns the configured endpoint without the cache-busting parameter.
func (p *HTTPProvider) Endpoint() string {
	return p.endpoint.String()
}

func (p *HTTPProvider) FetchConversations(ctx context.Context) ([]Conversation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.requestURL(), nil)
	if err != nil {
		return nil, fetchErr(FetchTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fetchErr(FetchTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &FetchError{Kind: FetchStatus, Status: resp.StatusCode}
	}

	conversations, err := DecodeSnapshot(resp.Body)
	if err != nil {
		return nil, snapshotErr(err)
	}
	return conversations, nil
}

func (p *HTTPProvider) requestURL() string {
	u := *p.endpoint
	q := u.Query()
	q.Set(cacheBustParam, strconv.FormatInt(p.now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func normalizeEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("endpoint required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q: scheme must be http or https", trimmed)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q: host required", trimmed)
	}
	if u.Path == "" {
		u.Path = defaultSnapshotPath
	}
	return u, nil
}
