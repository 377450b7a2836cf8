// Package browsertest provides a scripted browser.Session for tests.
package browsertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chanscout/chanscout/browser"
)

// Page is the scripted outcome of navigating to one URL.
type Page struct {
	Markup   string
	Requests []string
	// Delay holds the navigation until it elapses or the context is done.
	Delay time.Duration
	Err   error
}

// Session replays Pages keyed by URL. Unknown URLs fail to navigate.
type Session struct {
	UserAgent string

	mu          sync.Mutex
	pages       map[string]Page
	current     *Page
	navigations []string
	closed      bool
}

// New creates a session serving pages.
func New(userAgent string, pages map[string]Page) *Session {
	return &Session{UserAgent: userAgent, pages: pages}
}

func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.mu.Lock()
	s.current = nil
	s.navigations = append(s.navigations, url)
	page, ok := s.pages[url]
	s.mu.Unlock()

	if page.Delay > 0 {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		timer := time.NewTimer(page.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("navigate %s: status 404", url)
	}
	if page.Err != nil {
		return page.Err
	}

	s.mu.Lock()
	s.current = &page
	s.mu.Unlock()
	return nil
}

func (s *Session) Markup(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return "", browser.ErrNotNavigated
	}
	return s.current.Markup, nil
}

func (s *Session) Requests() []browser.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}

	requests := make([]browser.Request, len(s.current.Requests))
	now := time.Now()
	for i, u := range s.current.Requests {
		requests[i] = browser.Request{URL: u, Time: now.Add(time.Duration(i) * time.Millisecond)}
	}
	return requests
}

func (s *Session) Identity() string {
	return s.UserAgent
}

func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Navigations returns every URL navigated to, in order.
func (s *Session) Navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigations...)
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
