package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Rod drives a headless Chromium page over the DevTools protocol and records every
// request the page issues.
type Rod struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	page      *rod.Page
	userAgent string
	stop      context.CancelFunc

	mu       sync.Mutex
	requests []Request
	loaded   bool
}

// ResolveBin returns the browser binary to launch: the configured one, a system browser,
// or a build downloaded into downloadDir.
func ResolveBin(bin, downloadDir string) (string, error) {
	if bin != "" {
		return bin, nil
	}
	if found, ok := launcher.LookPath(); ok {
		return found, nil
	}

	b := launcher.NewBrowser()
	if downloadDir != "" {
		b.RootDir = downloadDir
	}
	path, err := b.Get()
	if err != nil {
		return "", fmt.Errorf("download browser: %w", err)
	}
	return path, nil
}

// NewRod launches a browser and opens a blank page.
func NewRod(ctx context.Context, opts Options) (*Rod, error) {
	bin, err := ResolveBin(opts.Bin, opts.DownloadDir)
	if err != nil {
		return nil, err
	}

	l := launcher.New().
		Context(ctx).
		Bin(bin).
		Headless(opts.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("mute-audio")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("open page: %w", err)
	}

	if opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			_ = b.Close()
			l.Kill()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	listenCtx, stop := context.WithCancel(context.Background())
	s := &Rod{
		launcher:  l,
		browser:   b,
		page:      page,
		userAgent: opts.UserAgent,
		stop:      stop,
	}

	wait := page.Context(listenCtx).EachEvent(func(e *proto.NetworkRequestWillBeSent) {
		s.record(e.Request.URL)
	})
	go wait()

	return s, nil
}

func (s *Rod) record(url string) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{URL: url, Time: time.Now()})
	s.mu.Unlock()
}

func (s *Rod) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.mu.Lock()
	s.requests = nil
	s.loaded = false
	s.mu.Unlock()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *Rod) Markup(ctx context.Context) (string, error) {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		return "", ErrNotNavigated
	}

	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("read markup: %w", err)
	}
	return html, nil
}

func (s *Rod) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Rod) Identity() string {
	return s.userAgent
}

func (s *Rod) Close() error {
	s.stop()
	err := s.browser.Close()
	s.launcher.Kill()
	s.launcher.Cleanup()
	return err
}
