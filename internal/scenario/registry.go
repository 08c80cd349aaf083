package scenario

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var registry = []Scenario{
	{"home-loads", "Home page loads with its title and logo", []string{TagSmoke}, homeLoads},
	{"main-navigation", "Category menu shows Home and every top-level category", []string{TagSmoke}, mainNavigation},
	{"register-success", "Registration with every field succeeds", []string{TagSmoke}, registerSuccess},
	{"register-missing-mandatory", "Registration with only optional fields is rejected", []string{TagSmoke}, registerMissingMandatory},
	{"register-without-privacy", "Registration without the privacy agreement is rejected", []string{TagSmoke}, registerWithoutPrivacy},
	{"register-mismatched-passwords", "Registration with mismatched passwords is rejected", []string{TagSmoke}, registerMismatchedPasswords},
	{"login", "A registered customer logs in from the header", []string{TagSmoke}, login},
	{"homepage-components", "Home page shows header, banner, featured products and footer", []string{TagRegression}, homepageComponents},
	{"logo-navigation", "The header logo leads home", []string{TagRegression}, logoNavigation},
	{"search-existing-product", "Searching a known product lands on its results", []string{TagRegression}, searchExistingProduct},
	{"contact-us", "The contact form sends an enquiry", []string{TagRegression}, contactUs},
	{"search-open-product", "A search result opens its product page", []string{TagRegression}, searchOpenProduct},
	{"add-to-cart", "A product page adds its product to the cart", []string{TagRegression}, addToCart},
	{"add-multiple-quantities", "A quantity above one reaches the cart", []string{TagRegression}, addMultipleQuantities},
	{"update-quantity", "Cart quantity updates round-trip", []string{TagRegression}, updateQuantity},
	{"remove-products", "Removing every product empties the cart", []string{TagRegression}, removeProducts},
	{"register-existing-email", "Registering an already used email is rejected", []string{TagRegression}, registerExistingEmail},
	{"search-add-to-cart", "Search, open the first result and add it to the cart", []string{TagE2E}, searchAddToCart},
	{"guest-checkout", "A guest buys a product", []string{TagE2E}, guestCheckout},
	{"registered-checkout", "A registered customer buys a product", []string{TagE2E}, registeredCheckout},
	{"multiple-products-cart", "Two products are managed in the cart and one is bought as a guest", []string{TagE2E}, multipleProductsCart},
}

// All returns every scenario in registration order.
func All() []Scenario {
	return append([]Scenario(nil), registry...)
}

func Lookup(name string) (Scenario, bool) {
	return lo.Find(registry, func(s Scenario) bool { return s.Name == name })
}

// Select picks scenarios by name and tag. Empty names means every scenario;
// empty tags means no tag filter. Unknown names are an error. The result
// keeps registration order.
func Select(names, tags []string) ([]Scenario, error) {
	if unknown := lo.Reject(names, func(n string, _ int) bool {
		_, ok := Lookup(n)
		return ok
	}); len(unknown) > 0 {
		return nil, fmt.Errorf("unknown scenarios: %s", strings.Join(unknown, ", "))
	}
	return lo.Filter(registry, func(s Scenario, _ int) bool {
		if len(names) > 0 && !lo.Contains(names, s.Name) {
			return false
		}
		return len(tags) == 0 || s.HasTag(tags...)
	}), nil
}
