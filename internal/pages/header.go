package pages

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

var (
	headerLogo        = browser.Sel("a.logo img, #logo img")
	headerSearchInput = browser.Sel("input[name='filter_keyword']")
	headerNavLinks    = browser.Sel("nav.subnav ul.nav-pills > li > a")
	headerLoginLink   = browser.Sel("a[href*='account/login']")
	headerAccountLink = browser.Sel("a[href*='account/account']")
	headerCartLink    = browser.Sel("ul.topcart a.dropdown-toggle")
	headerCartCount   = browser.Sel("ul.topcart span.label")
)

var headerSearchButtons = []browser.Ref{
	browser.Sel("div.button-in-input i.fa-search"),
	browser.Sel("#search_form button[type='submit']"),
}

// Header is the site-wide top bar: logo, search, category menu, account and
// cart links. It shares its Base with the page it sits on.
type Header struct {
	b *Base
}

func NewHeader(b *Base) *Header {
	return &Header{b: b}
}

func (h *Header) IsLogoVisible() (bool, error) {
	return h.b.IsVisible(headerLogo)
}

func (h *Header) ClickLogo() error {
	if err := h.b.Click(headerLogo); err != nil {
		return err
	}
	return h.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

// Search types term into the search box and submits it with the search
// button, or with Enter when no button is visible.
func (h *Header) Search(term string) error {
	if err := h.b.Fill(headerSearchInput, term); err != nil {
		return err
	}
	err := h.b.ClickFirst(headerSearchButtons, func() error {
		return h.b.Press(headerSearchInput, "Enter")
	})
	if err != nil {
		return fmt.Errorf("search %q: %w", term, err)
	}
	return h.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (h *Header) SearchWithEnter(term string) error {
	if err := h.b.Fill(headerSearchInput, term); err != nil {
		return err
	}
	if err := h.b.Press(headerSearchInput, "Enter"); err != nil {
		return err
	}
	return h.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (h *Header) NavigateToCategory(name string) error {
	if err := h.b.Click(headerNavLinks.WithText(name)); err != nil {
		return err
	}
	return h.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (h *Header) NavLinkCount() (int, error) {
	return h.b.Count(headerNavLinks)
}

// NavLinkNames returns the trimmed labels of the top-level category links.
func (h *Header) NavLinkNames() ([]string, error) {
	links := h.b.Resolve(headerNavLinks)
	n, err := links.Count()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text, err := h.b.Text(browser.Handle(links.Nth(i)))
		if err != nil {
			return nil, err
		}
		names = append(names, text)
	}
	return names, nil
}

func (h *Header) GoToCart() error {
	if err := h.b.Click(headerCartLink); err != nil {
		return err
	}
	return h.b.WaitForURL(FragmentCart, 0)
}

func (h *Header) OpenLogin() error {
	if err := h.b.Click(headerLoginLink); err != nil {
		return err
	}
	return h.b.WaitForURL(FragmentLogin, 0)
}

func (h *Header) IsAccountLinkVisible() (bool, error) {
	return h.b.IsVisible(headerAccountLink)
}

// CartItemCount reads the badge on the cart link; no badge means zero.
func (h *Header) CartItemCount() (int, error) {
	if n, err := h.b.Count(headerCartCount); err != nil || n == 0 {
		return 0, err
	}
	text, err := h.b.Text(headerCartCount)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}
	return strconv.Atoi(text)
}

func (h *Header) AssertHeaderVisible() error {
	if err := h.b.AssertVisible(headerLogo, "header logo"); err != nil {
		return err
	}
	if err := h.b.AssertVisible(headerSearchInput, "header search box"); err != nil {
		return err
	}
	return h.b.AssertVisible(headerNavLinks, "header category menu")
}

func (h *Header) AssertNavLinkCount(expected int) error {
	if err := h.b.AssertVisible(browser.Sel("nav.subnav"), "category menu"); err != nil {
		return err
	}
	return h.b.AssertCount(headerNavLinks, expected)
}

func (h *Header) AssertCartItemCount(expected int) error {
	return h.b.Expect("cart badge", strconv.Itoa(expected), &headerCartCount, func() (string, bool) {
		n, err := h.CartItemCount()
		if err != nil {
			return err.Error(), false
		}
		return strconv.Itoa(n), n == expected
	})
}

// AssertSearchResults checks that the browser landed on the results page
// for term. The route and keyword are compared decoded, since a submitted
// search form escapes them.
func (h *Header) AssertSearchResults(term string) error {
	return h.b.Expect("search results url", fmt.Sprintf("rt=%s with keyword %q", routeSearch, term), nil, func() (string, bool) {
		raw := h.b.URL()
		u, err := url.Parse(raw)
		if err != nil {
			return raw, false
		}
		q := u.Query()
		return raw, q.Get("rt") == routeSearch && strings.EqualFold(q.Get("filter_keyword"), term)
	})
}
