package scenario

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/fixtures"
)

// checkoutSteps bounds the intermediate shipping and payment steps clicked
// through on the way to the confirm button.
const checkoutSteps = 3

func searchAddToCart(ctx context.Context, env Env) error {
	const term = "shirt"
	f := env.flow(ctx, "search-add-to-cart")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("search", func() error { return s.Header.Search(term) })
	f.step("check results", func() error {
		found, err := s.Search.HasResults()
		if err != nil {
			return err
		}
		return check(found, "no results for %q", term)
	})
	f.step("add first result", func() error { return addFirstResult(s) })
	f.step("open cart", s.Cart.Open)
	f.step("check one item", func() error {
		n, err := s.Cart.ItemCount()
		if err != nil {
			return err
		}
		return check(n == 1, "cart has %d items, want 1", n)
	})
	f.step("check product in cart", func() error {
		return check(s.Cart.IsProductInCart(term), "no cart row mentions %q", term)
	})
	return f.err
}

// completeOrder confirms the order from wherever checkout left off and
// waits for the success page.
func completeOrder(f *flow) {
	s := f.site
	f.step("reach confirmation", func() error { return s.Checkout.ReachConfirmation(checkoutSteps) })
	f.step("confirm order", s.Checkout.ConfirmOrder)
	f.step("wait for confirmation", func() error { return s.Checkout.WaitForOrderConfirmation(0) })
	f.step("check order confirmed", s.Checkout.AssertOrderConfirmed)
	f.step("read order number", func() error {
		number, err := s.Checkout.OrderNumber()
		if err != nil {
			return err
		}
		f.log.Info("order placed", zap.String("order", number))
		return check(fixtures.ValidOrderNumber(number), "order number %q is not valid", number)
	})
}

func addAndCheckout(f *flow, term string) {
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("check home page", s.Home.AssertOnHomePage)
	f.step("add "+term, func() error {
		_, err := SearchAndAddProduct(s, term)
		return err
	})
	f.step("check cart", s.Cart.AssertNotEmpty)
	f.step("check product in cart", func() error { return s.Cart.AssertProductInCart(term) })
	f.step("proceed to checkout", s.Cart.ProceedToCheckout)
	f.step("check checkout page", s.Checkout.AssertOnCheckoutPage)
}

func guestCheckout(ctx context.Context, env Env) error {
	data := fixtures.GuestCheckoutData()
	f := env.flow(ctx, "guest-checkout")
	s := f.site
	addAndCheckout(f, data.Product)
	f.step("choose guest checkout", s.Checkout.SelectGuestCheckout)
	f.step("fill guest details", func() error { return s.Checkout.FillGuestInformation(data) })
	completeOrder(f)
	return f.err
}

func registeredCheckout(ctx context.Context, env Env) error {
	if !env.Target.HasCredentials() {
		return Skip("VALID_LOGIN_NAME and VALID_PASSWORD are not set")
	}
	data := fixtures.RegisteredCheckoutData()
	f := env.flow(ctx, "registered-checkout")
	s := f.site
	addAndCheckout(f, data.Product)
	f.step("log in", func() error {
		return s.Checkout.LoginDuringCheckout(env.Target.LoginName, env.Target.Password)
	})
	completeOrder(f)
	return f.err
}

func multipleProductsCart(ctx context.Context, env Env) error {
	data := fixtures.MultipleProductsData()
	f := env.flow(ctx, "multiple-products-cart")
	s := f.site

	var first, second string
	f.step("open home page", s.Home.Open)
	f.step("add first product", func() error {
		var err error
		first, err = SearchAndAddProduct(s, data.Products[0].Terms()...)
		return err
	})
	f.step("continue shopping", s.Home.Open)
	f.step("add second product", func() error {
		var err error
		second, err = SearchAndAddProduct(s, data.Products[1].Terms()...)
		if errors.Is(err, ErrNoProduct) {
			f.log.Warn("second product not found, continuing with one", zap.Error(err))
			return nil
		}
		return err
	})
	f.step("open cart", s.Cart.Open)
	f.step("check cart", s.Cart.AssertNotEmpty)
	f.step("check products in cart", func() error {
		if err := s.Cart.AssertProductInCart(first); err != nil {
			return err
		}
		if second == "" {
			return nil
		}
		return s.Cart.AssertProductInCart(second)
	})
	f.step("increase first quantity", func() error {
		qty, err := s.Cart.QuantityFor(first)
		if err != nil {
			return err
		}
		if err := s.Cart.UpdateQuantity(first, qty+1); err != nil {
			return err
		}
		updated, err := s.Cart.QuantityFor(first)
		if err != nil {
			return err
		}
		return check(updated == qty+1, "quantity for %s is %d, want %d", first, updated, qty+1)
	})
	f.step("remove second product", func() error {
		if second == "" {
			return nil
		}
		if err := s.Cart.Remove(second); err != nil {
			return err
		}
		return s.Cart.AssertProductNotInCart(second)
	})
	f.step("proceed to checkout", s.Cart.ProceedToCheckout)
	f.step("check checkout page", s.Checkout.AssertOnCheckoutPage)
	f.step("choose guest checkout", s.Checkout.SelectGuestCheckout)
	f.step("fill guest details", func() error { return s.Checkout.FillGuestInformation(data.Guest) })
	completeOrder(f)
	return f.err
}
