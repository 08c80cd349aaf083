package pages

// Site bundles every page object of one browser session around a single
// Base, so header, footer and pages all drive the same tab.
type Site struct {
	Base     *Base
	Header   *Header
	Footer   *Footer
	Home     *Home
	Search   *SearchResults
	Product  *Product
	Cart     *Cart
	Checkout *Checkout
	Login    *Login
	Account  *Account
	Register *Register
	Contact  *Contact
}

func NewSite(b *Base) *Site {
	return &Site{
		Base:     b,
		Header:   NewHeader(b),
		Footer:   NewFooter(b),
		Home:     NewHome(b),
		Search:   NewSearchResults(b),
		Product:  NewProduct(b),
		Cart:     NewCart(b),
		Checkout: NewCheckout(b),
		Login:    NewLogin(b),
		Account:  NewAccount(b),
		Register: NewRegister(b),
		Contact:  NewContact(b),
	}
}
