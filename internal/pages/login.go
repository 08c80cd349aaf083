package pages

import (
	"github.com/themizzi/storefront-e2e/internal/browser"
)

var (
	loginName      = browser.Sel("#loginFrm_loginname")
	loginPassword  = browser.Sel("#loginFrm_password")
	loginButton    = browser.Sel("button[title='Login']")
	loginError     = browser.Sel("div.alert.alert-danger")
	accountHeading = browser.Sel("span.maintext").WithText("My Account")
	logoutHeading  = browser.Sel("span.maintext").WithText("Account Logout")
)

type Login struct {
	b      *Base
	Header *Header
}

func NewLogin(b *Base) *Login {
	return &Login{b: b, Header: NewHeader(b)}
}

func (p *Login) Open() error {
	return p.b.Open(PathLogin)
}

func (p *Login) Login(name, password string) error {
	if err := p.b.Fill(loginName, name); err != nil {
		return err
	}
	if err := p.b.Fill(loginPassword, password); err != nil {
		return err
	}
	if err := p.b.Click(loginButton); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (p *Login) IsMyAccountVisible() bool {
	visible, err := p.b.IsVisible(accountHeading)
	return err == nil && visible
}

func (p *Login) ErrorText() (string, error) {
	return p.b.Text(loginError)
}

func (p *Login) AssertLoggedIn() error {
	if err := p.b.AssertURLContains(FragmentAccount); err != nil {
		return err
	}
	return p.b.AssertVisible(accountHeading, "My Account heading")
}

// Account is the signed-in customer's landing page.
type Account struct {
	b *Base
}

func NewAccount(b *Base) *Account {
	return &Account{b: b}
}

func (p *Account) Open() error {
	return p.b.Open(PathAccount)
}

func (p *Account) AssertOnAccountPage() error {
	return p.b.AssertVisible(accountHeading, "My Account heading")
}

func (p *Account) Logout() error {
	if err := p.b.Open(PathLogout); err != nil {
		return err
	}
	return p.b.AssertVisible(logoutHeading, "logout confirmation")
}
