package browser

import (
	"errors"
	"regexp"
	"time"
)

// Driver-level failures. Adapters wrap their native errors with these so
// callers can use errors.Is without importing the driver.
var (
	ErrTimeout  = errors.New("timed out")
	ErrNotFound = errors.New("element not found")
)

// LoadState is a document lifecycle milestone a tab can wait for.
type LoadState string

const (
	LoadStateLoad             LoadState = "load"
	LoadStateDOMContentLoaded LoadState = "domcontentloaded"
	LoadStateNetworkIdle      LoadState = "networkidle"
)

// State is an element state used by WaitFor.
type State string

const (
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
	StateAttached State = "attached"
	StateDetached State = "detached"
)

// Tab is one browser page owned by a single test.
type Tab interface {
	Goto(url string, waitUntil LoadState, timeout time.Duration) error
	URL() string
	Title() (string, error)
	// Locator returns a lazy element for selector, optionally narrowed to
	// matches containing hasText. Nothing is queried until the element is used.
	Locator(selector, hasText string) Element
	WaitForURL(pattern *regexp.Regexp, timeout time.Duration) error
	WaitForLoadState(state LoadState, timeout time.Duration) error
	Reload(timeout time.Duration) error
	Screenshot(path string, fullPage bool) ([]byte, error)
	Content() (string, error)
	Evaluate(expression string) (any, error)
	Close() error
}

// Element is a lazily evaluated element query. Every call re-runs the query
// against the current document, so an Element survives navigations.
type Element interface {
	Locator(selector, hasText string) Element
	Filter(hasText string) Element
	First() Element
	Nth(index int) Element
	Count() (int, error)

	Click(timeout time.Duration) error
	Fill(value string, timeout time.Duration) error
	Type(text string, delay, timeout time.Duration) error
	Press(key string, timeout time.Duration) error
	SelectOption(label string, timeout time.Duration) error
	Check(timeout time.Duration) error
	Uncheck(timeout time.Duration) error
	Hover(timeout time.Duration) error
	ScrollIntoView(timeout time.Duration) error

	TextContent(timeout time.Duration) (string, error)
	Attribute(name string, timeout time.Duration) (string, error)
	InputValue(timeout time.Duration) (string, error)
	IsVisible() (bool, error)
	IsEnabled(timeout time.Duration) (bool, error)
	IsChecked(timeout time.Duration) (bool, error)
	WaitFor(state State, timeout time.Duration) error
}
