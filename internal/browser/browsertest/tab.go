// Package browsertest provides an in-process browser.Tab backed by goquery.
// It follows links, submits forms over HTTP with a cookie jar and applies
// input mutations to its document, which is enough to drive page objects
// against the stand-in storefront without launching a real browser.
package browsertest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

const blankPage = "about:blank"

type clickHook struct {
	selector string
	fn       func(*Tab) error
}

// Tab is a fake browser.Tab. The zero value is not usable; call NewTab.
type Tab struct {
	mu     sync.Mutex
	client *http.Client
	routes map[string]string
	hooks  []clickHook
	url    string
	doc    *goquery.Document
	events []string
	closed bool

	// Poll is how often waits re-check the document.
	Poll time.Duration
}

// NewTab returns a tab showing an empty page.
func NewTab() *Tab {
	jar, _ := cookiejar.New(nil)
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader("<html><head></head><body></body></html>"))
	return &Tab{
		client: &http.Client{Jar: jar, Timeout: 10 * time.Second},
		routes: map[string]string{},
		url:    blankPage,
		doc:    doc,
		Poll:   5 * time.Millisecond,
	}
}

var _ browser.Tab = (*Tab)(nil)

// Route serves html for url instead of fetching it.
func (t *Tab) Route(url, html string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[url] = html
}

// SetContent replaces the current document and URL.
func (t *Tab) SetContent(url, html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.url = url
	t.doc = doc
	return nil
}

// OnClick registers fn to run instead of the default activation when an
// element matching selector, or one of its ancestors, is clicked. It stands
// in for page scripts such as onclick handlers.
func (t *Tab) OnClick(selector string, fn func(*Tab) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, clickHook{selector: selector, fn: fn})
}

// Mutate runs fn against the live document.
func (t *Tab) Mutate(fn func(doc *goquery.Document)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.doc)
}

// Events returns the interaction log, e.g. "click #submit".
func (t *Tab) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

// Submit submits the first form matching selector as if by script.
func (t *Tab) Submit(selector string) error {
	t.mu.Lock()
	form := t.doc.Find(selector).First()
	if form.Length() == 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: form %s", browser.ErrNotFound, selector)
	}
	req := t.formRequest(form, nil)
	t.mu.Unlock()
	return req.send(t)
}

func (t *Tab) record(format string, args ...any) {
	t.events = append(t.events, fmt.Sprintf(format, args...))
}

func (t *Tab) Goto(rawURL string, _ browser.LoadState, _ time.Duration) error {
	t.mu.Lock()
	target := t.resolveURL(rawURL)
	html, routed := t.routes[target]
	t.mu.Unlock()
	if routed {
		return t.SetContent(target, html)
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return fmt.Errorf("goto %s: no route", target)
	}
	resp, err := t.client.Get(target)
	if err != nil {
		return fmt.Errorf("goto %s: %w", target, err)
	}
	return t.load(resp)
}

func (t *Tab) load(resp *http.Response) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return t.SetContent(resp.Request.URL.String(), string(body))
}

// resolveURL must be called with t.mu held.
func (t *Tab) resolveURL(ref string) string {
	if t.url == blankPage {
		return ref
	}
	base, err := url.Parse(t.url)
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func (t *Tab) URL() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.url
}

func (t *Tab) Title() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(t.doc.Find("title").First().Text()), nil
}

func (t *Tab) Locator(selector, hasText string) browser.Element {
	return &element{tab: t, steps: []step{{kind: stepFind, selector: selector, text: hasText}}}
}

func (t *Tab) WaitForURL(pattern *regexp.Regexp, timeout time.Duration) error {
	ok := t.poll(timeout, func() bool { return pattern.MatchString(t.url) })
	if !ok {
		return fmt.Errorf("%w: waiting for url %s (at %s)", browser.ErrTimeout, pattern, t.URL())
	}
	return nil
}

// WaitForLoadState returns at once; loads are synchronous here.
func (t *Tab) WaitForLoadState(browser.LoadState, time.Duration) error { return nil }

func (t *Tab) Reload(timeout time.Duration) error {
	return t.Goto(t.URL(), browser.LoadStateLoad, timeout)
}

// Screenshot writes a placeholder image naming the current URL.
func (t *Tab) Screenshot(path string, _ bool) ([]byte, error) {
	data := []byte("\x89PNG\r\n\x1a\n" + t.URL())
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (t *Tab) Content() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return goquery.OuterHtml(t.doc.Selection)
}

func (t *Tab) Evaluate(expression string) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record("evaluate %s", expression)
	return nil, nil
}

func (t *Tab) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Closed reports whether Close was called.
func (t *Tab) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// poll evaluates cond under the lock until it holds or timeout elapses.
// cond is always evaluated at least once.
func (t *Tab) poll(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		t.mu.Lock()
		ok := cond()
		t.mu.Unlock()
		if ok {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(t.Poll)
	}
}
