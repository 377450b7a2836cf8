// Package browser exposes the page automation capability the resolver observes: navigation,
// rendered markup and the log of requests issued while a page loads.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Engine names.
const (
	EngineRod  = "rod"
	EngineHTTP = "http"
)

// ErrNotNavigated is returned by Markup before the first successful navigation.
var ErrNotNavigated = errors.New("session has not navigated yet")

// Request is a network request observed after the last navigation.
type Request struct {
	URL  string    `json:"url"`
	Time time.Time `json:"time"`
}

// Session is a single, serially used page. Only one navigation may be in flight at a time.
type Session interface {
	// Navigate loads url, giving up after timeout. It resets the captured request log.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// Markup returns the current rendered document.
	Markup(ctx context.Context) (string, error)
	// Requests returns the requests observed since the last navigation, oldest first.
	Requests() []Request
	// Identity is the User-Agent the session presents.
	Identity() string
	Close() error
}

// Options configure a session.
type Options struct {
	Engine    string
	Bin       string
	Headless  bool
	UserAgent string
	// DownloadDir receives a browser build when no binary is configured or installed.
	DownloadDir string
}

// Open starts a session on the configured engine.
func Open(ctx context.Context, opts Options) (Session, error) {
	switch strings.ToLower(opts.Engine) {
	case "", EngineRod:
		return NewRod(ctx, opts)
	case EngineHTTP:
		return NewStatic(opts), nil
	default:
		return nil, fmt.Errorf("unknown browser engine: %s", opts.Engine)
	}
}

// OpenPool opens n independent sessions. On failure the sessions opened so far are closed.
func OpenPool(ctx context.Context, n int, opts Options) ([]Session, error) {
	if n < 1 {
		n = 1
	}

	sessions := make([]Session, 0, n)
	for i := 0; i < n; i++ {
		s, err := Open(ctx, opts)
		if err != nil {
			ClosePool(sessions)
			return nil, fmt.Errorf("open session %d: %w", i+1, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// ClosePool closes every session, returning the first error.
func ClosePool(sessions []Session) error {
	var first error
	for _, s := range sessions {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Settle waits for the settle window so client scripts can issue their requests.
func Settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
