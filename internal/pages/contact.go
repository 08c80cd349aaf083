package pages

import (
	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
)

var (
	contactFirstName = browser.Sel("#ContactUsFrm_first_name")
	contactEmail     = browser.Sel("#ContactUsFrm_email")
	contactEnquiry   = browser.Sel("#ContactUsFrm_enquiry")
	contactSubmit    = browser.Sel("button[title='Submit']")
	contactSent      = browser.Sel("div.contentpanel").WithText("Your enquiry has been successfully sent to the store owner!")
)

type Contact struct {
	b *Base
}

func NewContact(b *Base) *Contact {
	return &Contact{b: b}
}

func (p *Contact) Open() error {
	return p.b.Open(PathContact)
}

func (p *Contact) FillAndSubmit(c fixtures.ContactInquiry) error {
	if err := p.b.Fill(contactFirstName, c.FirstName); err != nil {
		return err
	}
	if err := p.b.Fill(contactEmail, c.Email); err != nil {
		return err
	}
	if err := p.b.Fill(contactEnquiry, c.Enquiry); err != nil {
		return err
	}
	if err := p.b.Click(contactSubmit); err != nil {
		return err
	}
	return p.b.WaitForLoadState(browser.LoadStateNetworkIdle)
}

func (p *Contact) AssertSent() error {
	return p.b.AssertVisible(contactSent, "enquiry sent message")
}
