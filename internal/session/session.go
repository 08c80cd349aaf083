// Package session owns browser lifetimes: one launched browser per process
// and one isolated context and tab per scenario.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/config"
)

// Session is one scenario's tab. Close releases it and is safe to call more
// than once.
type Session struct {
	Name string
	Tab  browser.Tab

	once     sync.Once
	closeErr error
	release  func() error
}

// New wraps tab as a session. release, when non-nil, runs once on Close
// after the tab itself is closed.
func New(name string, tab browser.Tab, release func() error) *Session {
	return &Session{Name: name, Tab: tab, release: release}
}

func (s *Session) Close() error {
	s.once.Do(func() {
		err := s.Tab.Close()
		if s.release != nil {
			err = errors.Join(err, s.release())
		}
		s.closeErr = err
	})
	return s.closeErr
}

// Launcher starts the playwright driver and a single browser that every
// session is opened in.
type Launcher struct {
	cfg     config.BrowserConfig
	log     *zap.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Install downloads the playwright driver and the named browsers.
func Install(browsers ...string) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

func Launch(cfg config.BrowserConfig, log *zap.Logger) (*Launcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var kind playwright.BrowserType
	switch cfg.Browser {
	case "firefox":
		kind = pw.Firefox
	case "webkit":
		kind = pw.WebKit
	default:
		kind = pw.Chromium
	}

	opts := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(cfg.Headless)}
	if cfg.SlowMo > 0 {
		opts.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}
	b, err := kind.Launch(opts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Browser, err)
	}

	log.Info("browser launched",
		zap.String("browser", cfg.Browser),
		zap.String("version", b.Version()),
		zap.Bool("headless", cfg.Headless))
	return &Launcher{cfg: cfg, log: log, pw: pw, browser: b}, nil
}

// Open creates a fresh browser context and tab for one scenario. Contexts
// share nothing: cookies, storage and cart state start empty.
func (l *Launcher) Open(name string) (*Session, error) {
	bctx, err := l.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context for %s: %w", name, err)
	}
	bctx.SetDefaultTimeout(float64(l.cfg.DefaultTimeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to open page for %s: %w", name, err)
	}

	l.log.Debug("session opened", zap.String("scenario", name))
	return New(name, browser.NewPlaywrightTab(page), func() error { return bctx.Close() }), nil
}

// Close shuts the browser and the driver down.
func (l *Launcher) Close() error {
	err := l.browser.Close()
	if stopErr := l.pw.Stop(); stopErr != nil {
		err = errors.Join(err, stopErr)
	}
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
