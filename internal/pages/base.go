// Package pages models the storefront's screens as page objects built on a
// shared Base. Page objects hold element references and expose the
// business-level actions scenarios are written in.
package pages

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

// Timing defaults for a Base built without options.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultPollInterval     = 100 * time.Millisecond
	DefaultCandidateTimeout = 2 * time.Second
	DefaultTypeDelay        = 50 * time.Millisecond
)

// AssertionError is returned when an observed value never matched the
// expected one within the timeout.
type AssertionError struct {
	What     string
	Expected string
	Observed string
	URL      string
	Visible  bool
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, observed %s (url=%s, visible=%t)",
		e.What, e.Expected, e.Observed, e.URL, e.Visible)
}

// Base carries the browser tab, the storefront base URL and the timing
// policy shared by every page object of one session.
type Base struct {
	tab              browser.Tab
	baseURL          string
	timeout          time.Duration
	poll             time.Duration
	candidateTimeout time.Duration
	typeDelay        time.Duration
	log              *zap.Logger
}

// Option adjusts a Base built by NewBase.
type Option func(*Base)

// WithLogger sets the logger page objects report steps and fallbacks to.
func WithLogger(log *zap.Logger) Option {
	return func(b *Base) { b.log = log }
}

// WithDefaultTimeout bounds every interaction, wait and assertion.
func WithDefaultTimeout(d time.Duration) Option {
	return func(b *Base) { b.timeout = d }
}

// WithPollInterval sets how often assertions re-check the page.
func WithPollInterval(d time.Duration) Option {
	return func(b *Base) { b.poll = d }
}

// WithCandidateTimeout sets how long each fallback candidate may take to
// become visible.
func WithCandidateTimeout(d time.Duration) Option {
	return func(b *Base) { b.candidateTimeout = d }
}

// WithTypeDelay sets the pause between keystrokes in Type.
func WithTypeDelay(d time.Duration) Option {
	return func(b *Base) { b.typeDelay = d }
}

// NewBase returns a Base over tab resolving paths against baseURL.
func NewBase(tab browser.Tab, baseURL string, opts ...Option) *Base {
	b := &Base{
		tab:              tab,
		baseURL:          baseURL,
		timeout:          DefaultTimeout,
		poll:             DefaultPollInterval,
		candidateTimeout: DefaultCandidateTimeout,
		typeDelay:        DefaultTypeDelay,
		log:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithTimeout returns a copy of b whose operations use d as their bound.
func (b *Base) WithTimeout(d time.Duration) *Base {
	c := *b
	c.timeout = d
	return &c
}

func (b *Base) Tab() browser.Tab { return b.tab }

func (b *Base) BaseURL() string { return b.baseURL }

func (b *Base) Timeout() time.Duration { return b.timeout }

func (b *Base) Logger() *zap.Logger { return b.log }

func (b *Base) URL() string { return b.tab.URL() }

func (b *Base) Resolve(r browser.Ref) browser.Element {
	return browser.Resolve(b.tab, r)
}

// URLFor joins path onto the base URL.
func (b *Base) URLFor(path string) string {
	return strings.TrimRight(b.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// target is what interactions act on: the first match of r.
func (b *Base) target(r browser.Ref) browser.Element {
	return b.Resolve(r).First()
}

func (b *Base) orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return b.timeout
	}
	return d
}

// Navigation

func (b *Base) Navigate(url string) error {
	b.log.Debug("navigate", zap.String("url", url))
	if err := b.tab.Goto(url, browser.LoadStateNetworkIdle, b.timeout); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Open navigates to path relative to the base URL.
func (b *Base) Open(path string) error {
	return b.Navigate(b.URLFor(path))
}

func (b *Base) Reload() error {
	if err := b.tab.Reload(b.timeout); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// Interaction

func (b *Base) Click(r browser.Ref) error {
	if err := b.target(r).Click(b.timeout); err != nil {
		return fmt.Errorf("click %s: %w", r, err)
	}
	return nil
}

func (b *Base) Fill(r browser.Ref, value string) error {
	if err := b.target(r).Fill(value, b.timeout); err != nil {
		return fmt.Errorf("fill %s: %w", r, err)
	}
	return nil
}

type field struct {
	ref   browser.Ref
	value string
}

// fillAll fills fields in order, optionally leaving empty values untouched.
func (b *Base) fillAll(fields []field, skipEmpty bool) error {
	for _, f := range fields {
		if skipEmpty && f.value == "" {
			continue
		}
		if err := b.Fill(f.ref, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Type enters text one key at a time with the configured delay.
func (b *Base) Type(r browser.Ref, text string) error {
	if err := b.target(r).Type(text, b.typeDelay, b.timeout); err != nil {
		return fmt.Errorf("type into %s: %w", r, err)
	}
	return nil
}

func (b *Base) Press(r browser.Ref, key string) error {
	if err := b.target(r).Press(key, b.timeout); err != nil {
		return fmt.Errorf("press %s on %s: %w", key, r, err)
	}
	return nil
}

// SelectOption picks the option whose visible label is label.
func (b *Base) SelectOption(r browser.Ref, label string) error {
	if err := b.target(r).SelectOption(label, b.timeout); err != nil {
		return fmt.Errorf("select %q in %s: %w", label, r, err)
	}
	return nil
}

func (b *Base) Check(r browser.Ref) error {
	if err := b.target(r).Check(b.timeout); err != nil {
		return fmt.Errorf("check %s: %w", r, err)
	}
	return nil
}

func (b *Base) Uncheck(r browser.Ref) error {
	if err := b.target(r).Uncheck(b.timeout); err != nil {
		return fmt.Errorf("uncheck %s: %w", r, err)
	}
	return nil
}

func (b *Base) Hover(r browser.Ref) error {
	if err := b.target(r).Hover(b.timeout); err != nil {
		return fmt.Errorf("hover %s: %w", r, err)
	}
	return nil
}

func (b *Base) ScrollTo(r browser.Ref) error {
	if err := b.target(r).ScrollIntoView(b.timeout); err != nil {
		return fmt.Errorf("scroll to %s: %w", r, err)
	}
	return nil
}

// Queries

func (b *Base) Title() (string, error) {
	return b.tab.Title()
}

// Text returns the trimmed text content of the first match of r. An element
// without text yields "".
func (b *Base) Text(r browser.Ref) (string, error) {
	text, err := b.target(r).TextContent(b.timeout)
	if err != nil {
		return "", fmt.Errorf("text of %s: %w", r, err)
	}
	return strings.TrimSpace(text), nil
}

func (b *Base) Attribute(r browser.Ref, name string) (string, error) {
	v, err := b.target(r).Attribute(name, b.timeout)
	if err != nil {
		return "", fmt.Errorf("attribute %s of %s: %w", name, r, err)
	}
	return v, nil
}

func (b *Base) InputValue(r browser.Ref) (string, error) {
	v, err := b.target(r).InputValue(b.timeout)
	if err != nil {
		return "", fmt.Errorf("value of %s: %w", r, err)
	}
	return v, nil
}

// IsVisible reports whether the first match of r is visible right now. It
// does not wait; a missing element is not visible.
func (b *Base) IsVisible(r browser.Ref) (bool, error) {
	return b.target(r).IsVisible()
}

func (b *Base) IsEnabled(r browser.Ref) (bool, error) {
	return b.target(r).IsEnabled(b.timeout)
}

func (b *Base) IsChecked(r browser.Ref) (bool, error) {
	return b.target(r).IsChecked(b.timeout)
}

// Count returns how many elements r matches now.
func (b *Base) Count(r browser.Ref) (int, error) {
	return b.Resolve(r).Count()
}

// Waits

// WaitVisible waits until the first match of r is visible. A zero timeout
// means the base timeout.
func (b *Base) WaitVisible(r browser.Ref, timeout time.Duration) error {
	if err := b.target(r).WaitFor(browser.StateVisible, b.orDefault(timeout)); err != nil {
		return fmt.Errorf("wait for %s: %w", r, err)
	}
	return nil
}

func (b *Base) WaitHidden(r browser.Ref, timeout time.Duration) error {
	if err := b.target(r).WaitFor(browser.StateHidden, b.orDefault(timeout)); err != nil {
		return fmt.Errorf("wait for %s to hide: %w", r, err)
	}
	return nil
}

// WaitForURL waits until the current URL contains fragment.
func (b *Base) WaitForURL(fragment string, timeout time.Duration) error {
	pattern := regexp.MustCompile(regexp.QuoteMeta(fragment))
	if err := b.tab.WaitForURL(pattern, b.orDefault(timeout)); err != nil {
		return fmt.Errorf("wait for url containing %q: %w", fragment, err)
	}
	return nil
}

// WaitForURLMatching waits until pattern matches the current URL.
func (b *Base) WaitForURLMatching(pattern *regexp.Regexp, timeout time.Duration) error {
	if err := b.tab.WaitForURL(pattern, b.orDefault(timeout)); err != nil {
		return fmt.Errorf("wait for url matching %s: %w", pattern, err)
	}
	return nil
}

func (b *Base) WaitForLoadState(state browser.LoadState) error {
	return b.tab.WaitForLoadState(state, b.timeout)
}

// Utility

func (b *Base) Screenshot(path string, fullPage bool) ([]byte, error) {
	return b.tab.Screenshot(path, fullPage)
}

// Assertions

var errNotYet = errors.New("not yet")

func (b *Base) policy() backoff.BackOff {
	if b.timeout <= 0 {
		return &backoff.StopBackOff{}
	}
	p := backoff.NewExponentialBackOff()
	p.InitialInterval = b.poll
	p.MaxInterval = b.poll
	p.Multiplier = 1
	p.RandomizationFactor = 0
	p.MaxElapsedTime = b.timeout
	p.Reset()
	return p
}

// Expect polls probe until it reports success or the timeout elapses. On
// timeout the last observation becomes an AssertionError. subject, when
// non-nil, adds its visibility to the diagnostics.
func (b *Base) Expect(what, expected string, subject *browser.Ref, probe func() (observed string, ok bool)) error {
	var observed string
	err := backoff.Retry(func() error {
		obs, ok := probe()
		observed = obs
		if ok {
			return nil
		}
		return errNotYet
	}, b.policy())
	if err == nil {
		return nil
	}
	ae := &AssertionError{What: what, Expected: expected, Observed: observed, URL: b.tab.URL()}
	if subject != nil {
		ae.Visible, _ = b.IsVisible(*subject)
	}
	b.log.Debug("assertion failed", zap.String("what", what), zap.String("expected", expected), zap.String("observed", observed))
	return ae
}

// quickText reads the text of the first match of r without waiting for it.
func (b *Base) quickText(r browser.Ref) (string, bool) {
	el := b.target(r)
	if n, err := b.Resolve(r).Count(); err != nil || n == 0 {
		return "<absent>", false
	}
	text, err := el.TextContent(b.poll)
	if err != nil {
		return "<unreadable>", false
	}
	return strings.TrimSpace(text), true
}

func (b *Base) AssertVisible(r browser.Ref, what string) error {
	return b.Expect(what, "visible", &r, func() (string, bool) {
		ok, _ := b.IsVisible(r)
		if ok {
			return "visible", true
		}
		return "not visible", false
	})
}

func (b *Base) AssertHidden(r browser.Ref, what string) error {
	return b.Expect(what, "hidden", &r, func() (string, bool) {
		ok, _ := b.IsVisible(r)
		if ok {
			return "visible", false
		}
		return "hidden", true
	})
}

func (b *Base) AssertText(r browser.Ref, expected string) error {
	return b.Expect("text of "+r.String(), fmt.Sprintf("%q", expected), &r, func() (string, bool) {
		text, ok := b.quickText(r)
		return text, ok && text == expected
	})
}

// AssertTextContains ignores case.
func (b *Base) AssertTextContains(r browser.Ref, sub string) error {
	return b.Expect("text of "+r.String(), fmt.Sprintf("containing %q", sub), &r, func() (string, bool) {
		text, ok := b.quickText(r)
		return text, ok && strings.Contains(strings.ToLower(text), strings.ToLower(sub))
	})
}

func (b *Base) AssertCount(r browser.Ref, expected int) error {
	return b.Expect("count of "+r.String(), fmt.Sprint(expected), nil, func() (string, bool) {
		n, err := b.Count(r)
		if err != nil {
			return err.Error(), false
		}
		return fmt.Sprint(n), n == expected
	})
}

func (b *Base) AssertTitle(expected string) error {
	return b.Expect("page title", fmt.Sprintf("%q", expected), nil, func() (string, bool) {
		title, err := b.tab.Title()
		if err != nil {
			return err.Error(), false
		}
		return fmt.Sprintf("%q", title), title == expected
	})
}

func (b *Base) AssertURLContains(fragment string) error {
	return b.Expect("url", fmt.Sprintf("containing %q", fragment), nil, func() (string, bool) {
		url := b.tab.URL()
		return url, strings.Contains(url, fragment)
	})
}
