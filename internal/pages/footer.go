package pages

import "github.com/themizzi/storefront-e2e/internal/browser"

var (
	footerRoot      = browser.Sel("footer")
	footerAboutUs   = browser.Sel("footer a").WithText("About Us")
	footerContactUs = browser.Sel("footer a").WithText("Contact Us")
	footerPrivacy   = browser.Sel("footer a").WithText("Privacy Policy")
)

type Footer struct {
	b *Base
}

func NewFooter(b *Base) *Footer {
	return &Footer{b: b}
}

func (f *Footer) ScrollToFooter() error {
	return f.b.ScrollTo(footerRoot)
}

func (f *Footer) AssertFooterLinksVisible() error {
	if err := f.b.AssertVisible(footerAboutUs, "footer About Us link"); err != nil {
		return err
	}
	if err := f.b.AssertVisible(footerContactUs, "footer Contact Us link"); err != nil {
		return err
	}
	return f.b.AssertVisible(footerPrivacy, "footer Privacy Policy link")
}

func (f *Footer) ClickContactUs() error {
	if err := f.b.Click(footerContactUs); err != nil {
		return err
	}
	return f.b.WaitForURL(FragmentContact, 0)
}
