package scenario

import (
	"context"

	"github.com/themizzi/storefront-e2e/internal/fixtures"
)

func homepageComponents(ctx context.Context, env Env) error {
	f := env.flow(ctx, "homepage-components")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("check components", s.Home.AssertComponents)
	return f.err
}

func logoNavigation(ctx context.Context, env Env) error {
	f := env.flow(ctx, "logo-navigation")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("click logo", s.Header.ClickLogo)
	f.step("check home page", s.Home.AssertOnHomePage)
	return f.err
}

func searchExistingProduct(ctx context.Context, env Env) error {
	const term = "shirt"
	f := env.flow(ctx, "search-existing-product")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("search with enter", func() error { return s.Header.SearchWithEnter(term) })
	f.step("check results page", func() error { return s.Header.AssertSearchResults(term) })
	return f.err
}

func contactUs(ctx context.Context, env Env) error {
	f := env.flow(ctx, "contact-us")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("open contact us", s.Footer.ClickContactUs)
	f.step("send enquiry", func() error { return s.Contact.FillAndSubmit(fixtures.ContactInquiryData()) })
	f.step("check enquiry sent", s.Contact.AssertSent)
	return f.err
}

func searchOpenProduct(ctx context.Context, env Env) error {
	f := env.flow(ctx, "search-open-product")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("search with enter", func() error { return s.Header.SearchWithEnter("shirt") })
	f.step("open first result", s.Search.OpenFirst)
	f.step("check product page", s.Product.AssertOnProductPage)
	return f.err
}

func addToCart(ctx context.Context, env Env) error {
	f := env.flow(ctx, "add-to-cart")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("search", func() error { return s.Header.Search("shoes") })
	f.step("add first result", func() error { return addFirstResult(s) })
	f.step("check cart", s.Cart.AssertNotEmpty)
	return f.err
}

func addMultipleQuantities(ctx context.Context, env Env) error {
	const term, qty = "cream", 3
	f := env.flow(ctx, "add-multiple-quantities")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("search", func() error { return s.Header.Search(term) })
	f.step("open first result", s.Search.OpenFirst)
	f.step("add three", func() error { return s.Product.AddToCartWithQuantity(qty) })
	f.step("check cart", s.Cart.AssertNotEmpty)
	f.step("check quantity", func() error { return s.Cart.AssertQuantity(term, qty) })
	return f.err
}

func updateQuantity(ctx context.Context, env Env) error {
	const term, qty = "shirt", 5
	f := env.flow(ctx, "update-quantity")
	s := f.site
	f.step("open home page", s.Home.Open)
	f.step("add product", func() error {
		_, err := SearchAndAddProduct(s, term)
		return err
	})
	f.step("open cart", s.Cart.Open)
	f.step("update quantity", func() error { return s.Cart.UpdateQuantity(term, qty) })
	f.step("read quantity back", func() error {
		n, err := s.Cart.QuantityFor(term)
		if err != nil {
			return err
		}
		return check(n == qty, "quantity for %s is %d, want %d", term, n, qty)
	})
	return f.err
}

func removeProducts(ctx context.Context, env Env) error {
	f := env.flow(ctx, "remove-products")
	s := f.site
	f.step("open home page", s.Home.Open)
	for _, term := range []string{"shampoo", "perfume"} {
		f.step("add "+term, func() error {
			_, err := SearchAndAddProduct(s, term)
			return err
		})
	}
	for _, term := range []string{"shampoo", "perfume"} {
		f.step("remove "+term, func() error { return s.Cart.Remove(term) })
	}
	f.step("check cart empty", s.Cart.AssertEmpty)
	return f.err
}

func registerExistingEmail(ctx context.Context, env Env) error {
	f := env.flow(ctx, "register-existing-email")
	s := f.site
	reg := env.data().Registration()
	again := reg
	again.LoginName += "_new"

	f.step("open registration", s.Register.Open)
	f.step("register "+reg.LoginName, func() error { return s.Register.RegisterUser(reg) })
	f.step("check account created", s.Register.AssertRegistrationSuccessful)
	f.step("log out", s.Register.Logout)
	f.step("open registration again", s.Register.Open)
	f.step("register same email", func() error { return s.Register.RegisterUser(again) })
	f.step("check error shown", func() error { return s.Register.AssertErrorDisplayed() })
	f.step("check not registered", s.Register.AssertNotRegistered)
	return f.err
}
