package pages

import (
	"fmt"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
)

var (
	registerFirstName     = browser.Sel("input[name='firstname']")
	registerLastName      = browser.Sel("input[name='lastname']")
	registerEmail         = browser.Sel("input#AccountFrm_email")
	registerTelephone     = browser.Sel("input[name='telephone']")
	registerFax           = browser.Sel("input[name='fax']")
	registerCompany       = browser.Sel("input[name='company']")
	registerAddress1      = browser.Sel("input[name='address_1']")
	registerAddress2      = browser.Sel("input[name='address_2']")
	registerCity          = browser.Sel("input[name='city']")
	registerRegion        = browser.Sel("select[name='zone_id']")
	registerZipcode       = browser.Sel("input[name='postcode']")
	registerCountry       = browser.Sel("select[name='country_id']")
	registerLoginName     = browser.Sel("input[name='loginname']")
	registerPassword      = browser.Sel("input[name='password']")
	registerConfirm       = browser.Sel("input[name='confirm']")
	registerNewsletterYes = browser.Sel("input[name='newsletter'][value='1']")
	registerNewsletterNo  = browser.Sel("input[name='newsletter'][value='0']")
	registerAgree         = browser.Sel("input[name='agree']")
	registerContinue      = browser.Sel("button").WithText("Continue")
	registerHeading       = browser.Sel("h1").WithText("Create Account")
	registerSuccess       = browser.Sel("span.maintext").WithText("Your Account Has Been Created!")
	registerError         = browser.Sel("div.alert.alert-danger")
)

// PrivacyPolicyError is shown when the agreement box was left unticked.
const PrivacyPolicyError = "You must agree to the Privacy Policy"

type Register struct {
	b      *Base
	Header *Header
}

func NewRegister(b *Base) *Register {
	return &Register{b: b, Header: NewHeader(b)}
}

func (p *Register) Open() error {
	if err := p.b.Open(PathRegister); err != nil {
		return err
	}
	return p.b.AssertVisible(registerHeading, "Create Account heading")
}

// FillForm types every non-empty field of r. The country is chosen before
// the region because the region list depends on it.
func (p *Register) FillForm(r fixtures.Registration) error {
	err := p.b.fillAll([]field{
		{registerFirstName, r.FirstName},
		{registerLastName, r.LastName},
		{registerEmail, r.Email},
		{registerTelephone, r.Telephone},
		{registerFax, r.Fax},
		{registerCompany, r.Company},
		{registerAddress1, r.Address1},
		{registerAddress2, r.Address2},
		{registerCity, r.City},
	}, true)
	if err != nil {
		return err
	}
	if r.Country != "" {
		if err := p.b.SelectOption(registerCountry, r.Country); err != nil {
			return err
		}
	}
	if r.Region != "" {
		if err := p.b.SelectOption(registerRegion, r.Region); err != nil {
			return err
		}
	}
	err = p.b.fillAll([]field{
		{registerZipcode, r.Zipcode},
		{registerLoginName, r.LoginName},
		{registerPassword, r.Password},
		{registerConfirm, r.ConfirmPassword},
	}, true)
	if err != nil {
		return err
	}
	if r.Newsletter {
		return p.b.Check(registerNewsletterYes)
	}
	return p.b.Check(registerNewsletterNo)
}

func (p *Register) AgreeToPrivacyPolicy() error {
	return p.b.Check(registerAgree)
}

func (p *Register) Submit() error {
	if err := p.b.Click(registerContinue); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

// RegisterUser fills the form from r, agrees to the policy when r says so
// and submits. The caller is expected to be on the registration page.
func (p *Register) RegisterUser(r fixtures.Registration) error {
	if err := p.FillForm(r); err != nil {
		return err
	}
	if r.AgreePrivacy {
		if err := p.AgreeToPrivacyPolicy(); err != nil {
			return err
		}
	}
	return p.Submit()
}

func (p *Register) IsRegistrationSuccessful() bool {
	visible, err := p.b.IsVisible(registerSuccess)
	return err == nil && visible
}

func (p *Register) IsErrorDisplayed() bool {
	visible, err := p.b.IsVisible(registerError)
	return err == nil && visible
}

func (p *Register) ErrorText() (string, error) {
	return p.b.Text(registerError)
}

func (p *Register) AssertRegistrationSuccessful() error {
	return p.b.AssertVisible(registerSuccess, "registration success message")
}

// AssertErrorDisplayed checks that the error box is showing and, for each
// fragment given, that its text mentions it.
func (p *Register) AssertErrorDisplayed(fragments ...string) error {
	if err := p.b.AssertVisible(registerError, "registration error"); err != nil {
		return err
	}
	for _, f := range fragments {
		if err := p.b.AssertTextContains(registerError, f); err != nil {
			return err
		}
	}
	return nil
}

func (p *Register) AssertPrivacyPolicyErrorDisplayed() error {
	return p.AssertErrorDisplayed(PrivacyPolicyError)
}

// AssertNotRegistered checks that the form was rejected: no success message
// and still on the registration route.
func (p *Register) AssertNotRegistered() error {
	if err := p.b.AssertHidden(registerSuccess, "registration success message"); err != nil {
		return err
	}
	url := p.b.URL()
	if strings.Contains(url, "rt=account/success") {
		return &AssertionError{What: "url", Expected: "not the account success page", Observed: url, URL: url}
	}
	return nil
}

func (p *Register) Logout() error {
	if err := p.b.Open(PathLogout); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
