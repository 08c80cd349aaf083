package pages

import (
	"net/url"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

var (
	searchResults   = browser.Sel("div.thumbnails div.col-md-3")
	searchNames     = browser.Sel("a.prdocutname, a.productname")
	searchNoResults = browser.Sel("div.contentpanel").WithText("There is no product that matches the search criteria")
)

type SearchResults struct {
	b *Base
}

func NewSearchResults(b *Base) *SearchResults {
	return &SearchResults{b: b}
}

// Open runs a search directly through the results URL.
func (p *SearchResults) Open(term string) error {
	return p.b.Open(PathSearch + "&filter_keyword=" + url.QueryEscape(term))
}

func (p *SearchResults) Count() (int, error) {
	return p.b.Count(searchResults)
}

// HasResults waits for the results grid or the empty notice and reports
// which one appeared.
func (p *SearchResults) HasResults() (bool, error) {
	var found bool
	err := p.b.Expect("search outcome", "results or an empty notice", nil, func() (string, bool) {
		if ok, _ := p.b.IsVisible(searchNames); ok {
			found = true
			return "results", true
		}
		if ok, _ := p.b.IsVisible(searchNoResults); ok {
			found = false
			return "empty notice", true
		}
		return "neither", false
	})
	return found, err
}

// Names returns the product names listed, in page order.
func (p *SearchResults) Names() ([]string, error) {
	links := p.b.Resolve(searchNames)
	n, err := links.Count()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text, err := p.b.Text(browser.Handle(links.Nth(i)))
		if err != nil {
			return nil, err
		}
		names = append(names, text)
	}
	return names, nil
}

func (p *SearchResults) OpenFirst() error {
	if err := p.b.Click(searchNames); err != nil {
		return err
	}
	return p.b.WaitForURL(FragmentProduct, 0)
}

func (p *SearchResults) OpenProduct(name string) error {
	if err := p.b.Click(searchNames.WithText(name)); err != nil {
		return err
	}
	return p.b.WaitForURL(FragmentProduct, 0)
}
