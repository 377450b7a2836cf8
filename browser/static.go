package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/chanscout/chanscout/network"
)

// maxDocumentSize caps the body read by the static session.
const maxDocumentSize = 16 << 20

// Static is a script-less session: it fetches the document over a Chrome-fingerprinted client.
// The request log holds the document request and any redirect hops.
type Static struct {
	client    *network.TLSClient
	userAgent string

	mu       sync.Mutex
	markup   string
	loaded   bool
	requests []Request
}

// NewStatic creates a static session.
func NewStatic(opts Options) *Static {
	return &Static{
		client:    network.NewTLSClient(0),
		userAgent: opts.UserAgent,
	}
}

func (s *Static) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.mu.Lock()
	s.requests = nil
	s.markup = ""
	s.loaded = false
	s.mu.Unlock()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("navigate %s: status %d", url, resp.StatusCode)
	}

	now := time.Now()
	var hops []Request
	for r := resp.Request; r != nil; {
		hops = append([]Request{{URL: r.URL.String(), Time: now}}, hops...)
		if r.Response == nil {
			break
		}
		r = r.Response.Request
	}

	s.mu.Lock()
	s.markup = string(body)
	s.loaded = true
	s.requests = hops
	s.mu.Unlock()
	return nil
}

func (s *Static) Markup(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return "", ErrNotNavigated
	}
	return s.markup, nil
}

func (s *Static) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Static) Identity() string {
	return s.userAgent
}

func (s *Static) Close() error {
	return nil
}
