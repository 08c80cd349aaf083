package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
)

var (
	checkoutGuestOption    = browser.Sel("#accountFrm_accountguest")
	checkoutRegisterOption = browser.Sel("#accountFrm_accountregister")

	guestFirstName = browser.Sel("#guestFrm_firstname")
	guestLastName  = browser.Sel("#guestFrm_lastname")
	guestEmail     = browser.Sel("#guestFrm_email")
	guestTelephone = browser.Sel("#guestFrm_telephone")
	guestAddress   = browser.Sel("#guestFrm_address_1")
	guestCity      = browser.Sel("#guestFrm_city")
	guestPostcode  = browser.Sel("#guestFrm_postcode")
	guestCountry   = browser.Sel("#guestFrm_country_id")
	guestZone      = browser.Sel("#guestFrm_zone_id")

	checkoutLoginName     = browser.Sel("#loginFrm_loginname")
	checkoutLoginPassword = browser.Sel("#loginFrm_password")
	checkoutLoginButton   = browser.Sel("button[title='Login']")

	checkoutConfirmButton = browser.Sel("#checkout_btn")
	checkoutConfirmed     = browser.Sel("h1").WithText("Your Order Has Been Processed!")
	checkoutOrderInfo     = browser.Sel("div.contentpanel p").WithText("order #")
)

// continueCandidates are the shapes a step's Continue control takes across
// storefront themes, in order of preference.
// The bare submit controls come last and stay inside the content panel so
// the header search button never matches.
var continueCandidates = []browser.Ref{
	browser.Sel("button").WithText("Continue"),
	browser.Sel("button[title='Continue']"),
	browser.Sel("input[type='submit'][value*='Continue']"),
	browser.Sel("a.btn").WithText("Continue"),
	browser.Sel("button").WithText("Next"),
	browser.Sel("button").WithText("Checkout"),
	browser.Sel("input[type='submit'][value*='Next']"),
	browser.Sel(".contentpanel button[type='submit']"),
	browser.Sel(".contentpanel input[type='submit']"),
}

type Checkout struct {
	b *Base
}

func NewCheckout(b *Base) *Checkout {
	return &Checkout{b: b}
}

func (p *Checkout) Open() error {
	return p.b.Open(PathCheckout)
}

func (p *Checkout) IsGuestOptionVisible() bool {
	visible, err := p.b.IsVisible(checkoutGuestOption)
	return err == nil && visible
}

func (p *Checkout) clickContinue(step string) error {
	if err := p.b.ClickFirst(continueCandidates, nil); err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

// SelectGuestCheckout picks the guest option and continues to the guest
// details form.
func (p *Checkout) SelectGuestCheckout() error {
	if err := p.b.Check(checkoutGuestOption); err != nil {
		return err
	}
	return p.clickContinue("select guest checkout")
}

func (p *Checkout) SelectRegisterAccount() error {
	if err := p.b.Check(checkoutRegisterOption); err != nil {
		return err
	}
	return p.clickContinue("select register account")
}

// FillGuestInformation completes the guest details form and continues.
func (p *Checkout) FillGuestInformation(g fixtures.GuestCheckout) error {
	err := p.b.fillAll([]field{
		{guestFirstName, g.FirstName},
		{guestLastName, g.LastName},
		{guestEmail, g.Email},
		{guestTelephone, g.Phone},
		{guestAddress, g.Address},
		{guestCity, g.City},
		{guestPostcode, g.Zipcode},
	}, false)
	if err != nil {
		return err
	}
	if g.Country != "" {
		if err := p.b.SelectOption(guestCountry, g.Country); err != nil {
			return err
		}
	}
	if g.State != "" {
		if err := p.b.SelectOption(guestZone, g.State); err != nil {
			return err
		}
	}
	return p.clickContinue("submit guest information")
}

func (p *Checkout) LoginDuringCheckout(loginName, password string) error {
	if err := p.b.Fill(checkoutLoginName, loginName); err != nil {
		return err
	}
	if err := p.b.Fill(checkoutLoginPassword, password); err != nil {
		return err
	}
	if err := p.b.Click(checkoutLoginButton); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

// ReachConfirmation clicks through intermediate shipping and payment steps
// until the confirm button shows, for at most maxSteps steps.
func (p *Checkout) ReachConfirmation(maxSteps int) error {
	for i := 0; i <= maxSteps; i++ {
		if _, ok := FirstVisible(p.b, []browser.Ref{checkoutConfirmButton}, 0); ok {
			return nil
		}
		if i == maxSteps {
			break
		}
		if err := p.clickContinue(fmt.Sprintf("checkout step %d", i+1)); err != nil {
			return err
		}
	}
	return p.b.AssertVisible(checkoutConfirmButton, "confirm order button")
}

func (p *Checkout) ConfirmOrder() error {
	if err := p.b.Click(checkoutConfirmButton); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (p *Checkout) WaitForOrderConfirmation(timeout time.Duration) error {
	if err := p.b.WaitForURL(FragmentSuccess, timeout); err != nil {
		return err
	}
	return p.b.WaitVisible(checkoutConfirmed, timeout)
}

func (p *Checkout) IsOrderConfirmed() bool {
	visible, err := p.b.IsVisible(checkoutConfirmed)
	return err == nil && visible
}

// OrderNumber reads the order number from the success page.
func (p *Checkout) OrderNumber() (string, error) {
	text, err := p.b.Text(checkoutOrderInfo)
	if err != nil {
		return "", err
	}
	number := fixtures.ExtractOrderNumber(text)
	if number == "" {
		return "", fmt.Errorf("no order number in %q", text)
	}
	return number, nil
}

// AssertOnCheckoutPage checks that the browser is somewhere in checkout,
// including the account/guest choice on the login route.
func (p *Checkout) AssertOnCheckoutPage() error {
	return p.b.Expect("checkout page", "url containing rt=checkout or rt=account/login", &checkoutGuestOption, func() (string, bool) {
		url := p.b.URL()
		title, _ := p.b.Title()
		observed := fmt.Sprintf("%s titled %q", url, title)
		return observed, strings.Contains(url, FragmentCheckout) || strings.Contains(url, FragmentLogin)
	})
}

func (p *Checkout) AssertOrderConfirmed() error {
	return p.b.AssertVisible(checkoutConfirmed, "order confirmation heading")
}
