package pages

import (
	"strconv"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

var (
	productName        = browser.Sel("h1.productname")
	productPrice       = browser.Sel("div.productfilneprice")
	productDescription = browser.Sel("#description")
	productImage       = browser.Sel("a.local_image img")
	productQuantity    = browser.Sel("#product_quantity")
	productAddToCart   = browser.Sel("a.cart")
	productOptionGroup = browser.Sel("#product div.form-group")
)

type Product struct {
	b      *Base
	Header *Header
}

func NewProduct(b *Base) *Product {
	return &Product{b: b, Header: NewHeader(b)}
}

func (p *Product) Open(productID int) error {
	return p.b.Open(PathProduct + "&product_id=" + strconv.Itoa(productID))
}

func (p *Product) Name() (string, error) {
	return p.b.Text(productName)
}

func (p *Product) Price() (string, error) {
	return p.b.Text(productPrice)
}

func (p *Product) Description() (string, error) {
	return p.b.Text(productDescription)
}

func (p *Product) SetQuantity(n int) error {
	return p.b.Fill(productQuantity, strconv.Itoa(n))
}

// CurrentQuantity reads the quantity box; blank counts as one.
func (p *Product) CurrentQuantity() (int, error) {
	v, err := p.b.InputValue(productQuantity)
	if err != nil {
		return 0, err
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return 1, nil
	}
	return strconv.Atoi(v)
}

// SelectOption chooses label in the option dropdown captioned option,
// e.g. SelectOption("Size", "M").
func (p *Product) SelectOption(option, label string) error {
	group := p.b.Resolve(productOptionGroup.WithText(option).First())
	return p.b.SelectOption(browser.Within(group, "select"), label)
}

func (p *Product) AddToCart() error {
	if err := p.b.Click(productAddToCart); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (p *Product) AddToCartWithQuantity(n int) error {
	if err := p.SetQuantity(n); err != nil {
		return err
	}
	return p.AddToCart()
}

func (p *Product) AssertOnProductPage() error {
	if err := p.b.AssertVisible(productName, "product name"); err != nil {
		return err
	}
	if err := p.b.AssertVisible(productImage, "product image"); err != nil {
		return err
	}
	return p.b.AssertVisible(productAddToCart, "add to cart button")
}
