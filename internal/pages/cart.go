package pages

import (
	"strconv"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

const cartRowSelector = "table.table-striped tr:has(input[name^='quantity'])"

var (
	cartRows             = browser.Sel(cartRowSelector)
	cartUpdate           = browser.Sel("#cart_update")
	cartCheckout         = browser.Sel("#cart_checkout1")
	cartContinueShopping = browser.Sel("a").WithText("Continue Shopping")
	cartEmpty            = browser.Sel("div.contentpanel").WithText("shopping cart is empty")
)

type Cart struct {
	b      *Base
	Header *Header
}

func NewCart(b *Base) *Cart {
	return &Cart{b: b, Header: NewHeader(b)}
}

func (p *Cart) Open() error {
	return p.b.Open(PathCart)
}

func (p *Cart) row(name string) browser.Element {
	return p.b.Resolve(browser.Sel(cartRowSelector).WithText(name).First())
}

func (p *Cart) IsEmpty() bool {
	visible, err := p.b.IsVisible(cartEmpty)
	return err == nil && visible
}

// ItemCount is the number of product rows; zero when the empty-cart notice
// is showing.
func (p *Cart) ItemCount() (int, error) {
	if p.IsEmpty() {
		return 0, nil
	}
	return p.b.Count(cartRows)
}

// IsProductInCart reports whether a row names the product. A missing row is
// false, never an error.
func (p *Cart) IsProductInCart(name string) bool {
	n, err := p.b.Count(cartRows.WithText(name))
	return err == nil && n > 0
}

func (p *Cart) QuantityFor(name string) (int, error) {
	v, err := p.b.InputValue(browser.Within(p.row(name), "input[name^='quantity']"))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func (p *Cart) UpdateQuantity(name string, n int) error {
	if err := p.b.Fill(browser.Within(p.row(name), "input[name^='quantity']"), strconv.Itoa(n)); err != nil {
		return err
	}
	if err := p.b.Click(cartUpdate); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (p *Cart) Remove(name string) error {
	if err := p.b.Click(browser.Within(p.row(name), "a[href*='remove']")); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

// ProceedToCheckout goes straight to the checkout entry route.
func (p *Cart) ProceedToCheckout() error {
	return p.b.Open(PathCheckout)
}

// ClickCheckout uses the cart's own checkout button.
func (p *Cart) ClickCheckout() error {
	if err := p.b.Click(cartCheckout); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (p *Cart) ContinueShopping() error {
	if err := p.b.Click(cartContinueShopping); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (p *Cart) AssertNotEmpty() error {
	return p.b.Expect("cart", "at least one item", nil, func() (string, bool) {
		n, err := p.ItemCount()
		if err != nil {
			return err.Error(), false
		}
		return strconv.Itoa(n) + " items", n > 0
	})
}

func (p *Cart) AssertEmpty() error {
	return p.b.AssertVisible(cartEmpty, "empty cart notice")
}

func (p *Cart) AssertProductInCart(name string) error {
	return p.b.Expect("cart row for "+name, "present", nil, func() (string, bool) {
		if p.IsProductInCart(name) {
			return "present", true
		}
		return "absent", false
	})
}

func (p *Cart) AssertProductNotInCart(name string) error {
	return p.b.Expect("cart row for "+name, "absent", nil, func() (string, bool) {
		if p.IsProductInCart(name) {
			return "present", false
		}
		return "absent", true
	})
}

func (p *Cart) AssertQuantity(name string, expected int) error {
	input := browser.Within(p.row(name), "input[name^='quantity']")
	return p.b.Expect("quantity of "+name, strconv.Itoa(expected), &input, func() (string, bool) {
		if !p.IsProductInCart(name) {
			return "<no row>", false
		}
		v, err := p.row(name).Locator("input[name^='quantity']", "").First().InputValue(p.b.poll)
		if err != nil {
			return err.Error(), false
		}
		return v, strings.TrimSpace(v) == strconv.Itoa(expected)
	})
}
