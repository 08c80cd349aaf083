package pages

import (
	"fmt"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

var (
	homeBanner       = browser.Sel("#banner_slides")
	homeFeatured     = browser.Sel("#featured")
	homeProductCards = browser.Sel("div.thumbnails div.col-md-3")
	homeProductLinks = browser.Sel("a.prdocutname")
)

// HomeTitle is the storefront's home page title.
const HomeTitle = "A place to practice your automation skills!"

type Home struct {
	b      *Base
	Header *Header
	Footer *Footer
}

func NewHome(b *Base) *Home {
	return &Home{b: b, Header: NewHeader(b), Footer: NewFooter(b)}
}

func (p *Home) Open() error {
	return p.b.Navigate(p.b.BaseURL())
}

// IsOnHomePage reports whether the URL is the store root or the home route
// and the banner is showing.
func (p *Home) IsOnHomePage() bool {
	url := strings.TrimRight(p.b.URL(), "/")
	atRoot := url == strings.TrimRight(p.b.BaseURL(), "/") || strings.Contains(url, "rt=index/home")
	if !atRoot {
		return false
	}
	visible, err := p.b.IsVisible(homeBanner)
	return err == nil && visible
}

func (p *Home) ProductCount() (int, error) {
	return p.b.Count(homeProductCards)
}

// ClickProduct opens the first product card whose name contains name.
func (p *Home) ClickProduct(name string) error {
	if err := p.b.Click(homeProductLinks.WithText(name)); err != nil {
		return err
	}
	return p.b.WaitForURL(FragmentProduct, 0)
}

func (p *Home) AssertOnHomePage() error {
	if err := p.b.AssertTitle(HomeTitle); err != nil {
		return err
	}
	if err := p.b.AssertVisible(homeBanner, "home banner"); err != nil {
		return err
	}
	return p.Header.AssertHeaderVisible()
}

// AssertComponents checks every fixed section of the home page.
func (p *Home) AssertComponents() error {
	if err := p.AssertOnHomePage(); err != nil {
		return err
	}
	if err := p.b.AssertVisible(homeFeatured, "featured products"); err != nil {
		return err
	}
	if err := p.b.Expect("product cards", "at least one", nil, func() (string, bool) {
		n, err := p.ProductCount()
		if err != nil {
			return err.Error(), false
		}
		return fmt.Sprintf("%d cards", n), n > 0
	}); err != nil {
		return err
	}
	if err := p.Footer.ScrollToFooter(); err != nil {
		return err
	}
	return p.Footer.AssertFooterLinksVisible()
}
