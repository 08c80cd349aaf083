package browser

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightTab struct {
	page playwright.Page
}

// NewPlaywrightTab adapts a playwright page to Tab.
func NewPlaywrightTab(page playwright.Page) Tab {
	return &playwrightTab{page: page}
}

// PlaywrightPage returns the underlying page when tab came from NewPlaywrightTab.
func PlaywrightPage(tab Tab) (playwright.Page, bool) {
	t, ok := tab.(*playwrightTab)
	if !ok {
		return nil, false
	}
	return t.page, true
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func waitUntil(state LoadState) *playwright.WaitUntilState {
	switch state {
	case LoadStateLoad:
		return playwright.WaitUntilStateLoad
	case LoadStateDOMContentLoaded:
		return playwright.WaitUntilStateDomcontentloaded
	default:
		return playwright.WaitUntilStateNetworkidle
	}
}

func loadState(state LoadState) *playwright.LoadState {
	switch state {
	case LoadStateLoad:
		return playwright.LoadStateLoad
	case LoadStateDOMContentLoaded:
		return playwright.LoadStateDomcontentloaded
	default:
		return playwright.LoadStateNetworkidle
	}
}

func (t *playwrightTab) Goto(url string, state LoadState, timeout time.Duration) error {
	_, err := t.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: waitUntil(state),
		Timeout:   ms(timeout),
	})
	return translate(err)
}

func (t *playwrightTab) URL() string { return t.page.URL() }

func (t *playwrightTab) Title() (string, error) {
	title, err := t.page.Title()
	return title, translate(err)
}

func (t *playwrightTab) Locator(selector, hasText string) Element {
	opts := playwright.PageLocatorOptions{}
	if hasText != "" {
		opts.HasText = hasText
	}
	return &playwrightElement{loc: t.page.Locator(selector, opts)}
}

func (t *playwrightTab) WaitForURL(pattern *regexp.Regexp, timeout time.Duration) error {
	return translate(t.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{Timeout: ms(timeout)}))
}

func (t *playwrightTab) WaitForLoadState(state LoadState, timeout time.Duration) error {
	return translate(t.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   loadState(state),
		Timeout: ms(timeout),
	}))
}

func (t *playwrightTab) Reload(timeout time.Duration) error {
	_, err := t.page.Reload(playwright.PageReloadOptions{Timeout: ms(timeout)})
	return translate(err)
}

func (t *playwrightTab) Screenshot(path string, fullPage bool) ([]byte, error) {
	opts := playwright.PageScreenshotOptions{FullPage: playwright.Bool(fullPage)}
	if path != "" {
		opts.Path = playwright.String(path)
	}
	data, err := t.page.Screenshot(opts)
	return data, translate(err)
}

func (t *playwrightTab) Content() (string, error) {
	html, err := t.page.Content()
	return html, translate(err)
}

func (t *playwrightTab) Evaluate(expression string) (any, error) {
	v, err := t.page.Evaluate(expression)
	return v, translate(err)
}

func (t *playwrightTab) Close() error {
	return t.page.Close()
}

type playwrightElement struct {
	loc playwright.Locator
}

func (e *playwrightElement) wrap(loc playwright.Locator) Element {
	return &playwrightElement{loc: loc}
}

func (e *playwrightElement) Locator(selector, hasText string) Element {
	opts := playwright.LocatorLocatorOptions{}
	if hasText != "" {
		opts.HasText = hasText
	}
	return e.wrap(e.loc.Locator(selector, opts))
}

func (e *playwrightElement) Filter(hasText string) Element {
	return e.wrap(e.loc.Filter(playwright.LocatorFilterOptions{HasText: hasText}))
}

func (e *playwrightElement) First() Element        { return e.wrap(e.loc.First()) }
func (e *playwrightElement) Nth(index int) Element { return e.wrap(e.loc.Nth(index)) }

func (e *playwrightElement) Count() (int, error) {
	n, err := e.loc.Count()
	return n, translate(err)
}

func (e *playwrightElement) Click(timeout time.Duration) error {
	return translate(e.loc.Click(playwright.LocatorClickOptions{Timeout: ms(timeout)}))
}

func (e *playwrightElement) Fill(value string, timeout time.Duration) error {
	return translate(e.loc.Fill(value, playwright.LocatorFillOptions{Timeout: ms(timeout)}))
}

func (e *playwrightElement) Type(text string, delay, timeout time.Duration) error {
	return translate(e.loc.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay:   ms(delay),
		Timeout: ms(timeout),
	}))
}

func (e *playwrightElement) Press(key string, timeout time.Duration) error {
	return translate(e.loc.Press(key, playwright.LocatorPressOptions{Timeout: ms(timeout)}))
}

func (e *playwrightElement) SelectOption(label string, timeout time.Duration) error {
	_, err := e.loc.SelectOption(
		playwright.SelectOptionValues{Labels: &[]string{label}},
		playwright.LocatorSelectOptionOptions{Timeout: ms(timeout)},
	)
	return translate(err)
}

func (e *playwrightElement) Check(timeout time.Duration) error {
	return translate(e.loc.Check(playwright.LocatorCheckOptions{Timeout: ms(timeout)}))
}

func (e *playwrightElement) Uncheck(timeout time.Duration) error {
	return translate(e.loc.Uncheck(playwright.LocatorUncheckOptions{Timeout: ms(timeout)}))
}

func (e *playwrightElement) Hover(timeout time.Duration) error {
	return translate(e.loc.Hover(playwright.LocatorHoverOptions{Timeout: ms(timeout)}))
}

func (e *playwrightElement) ScrollIntoView(timeout time.Duration) error {
	return translate(e.loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{Timeout: ms(timeout)}))
}

func (e *playwrightElement) TextContent(timeout time.Duration) (string, error) {
	s, err := e.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: ms(timeout)})
	return s, translate(err)
}

func (e *playwrightElement) Attribute(name string, timeout time.Duration) (string, error) {
	s, err := e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: ms(timeout)})
	return s, translate(err)
}

func (e *playwrightElement) InputValue(timeout time.Duration) (string, error) {
	s, err := e.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: ms(timeout)})
	return s, translate(err)
}

func (e *playwrightElement) IsVisible() (bool, error) {
	v, err := e.loc.IsVisible()
	return v, translate(err)
}

func (e *playwrightElement) IsEnabled(timeout time.Duration) (bool, error) {
	v, err := e.loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: ms(timeout)})
	return v, translate(err)
}

func (e *playwrightElement) IsChecked(timeout time.Duration) (bool, error) {
	v, err := e.loc.IsChecked(playwright.LocatorIsCheckedOptions{Timeout: ms(timeout)})
	return v, translate(err)
}

func (e *playwrightElement) WaitFor(state State, timeout time.Duration) error {
	var s *playwright.WaitForSelectorState
	switch state {
	case StateHidden:
		s = playwright.WaitForSelectorStateHidden
	case StateAttached:
		s = playwright.WaitForSelectorStateAttached
	case StateDetached:
		s = playwright.WaitForSelectorStateDetached
	default:
		s = playwright.WaitForSelectorStateVisible
	}
	return translate(e.loc.WaitFor(playwright.LocatorWaitForOptions{State: s, Timeout: ms(timeout)}))
}
