package models

import (
	"net/mail"
	"strings"
)

// Contact is who an order ships to.
type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Address1  string `json:"address_1"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Zone      string `json:"zone"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Problems lists the validation messages for c, in form order. An empty
// result means c is acceptable.
func (c Contact) Problems() []string {
	var problems []string
	if !lengthBetween(c.FirstName, 1, 32) {
		problems = append(problems, MsgFirstName)
	}
	if !lengthBetween(c.LastName, 1, 32) {
		problems = append(problems, MsgLastName)
	}
	if !ValidEmail(c.Email) {
		problems = append(problems, MsgEmail)
	}
	if !lengthBetween(c.Address1, 3, 128) {
		problems = append(problems, MsgAddress1)
	}
	if !lengthBetween(c.City, 3, 128) {
		problems = append(problems, MsgCity)
	}
	if !lengthBetween(c.Postcode, 3, 10) {
		problems = append(problems, MsgPostcode)
	}
	if !ValidCountry(c.Country) {
		problems = append(problems, MsgCountry)
	}
	if !ValidZone(c.Country, c.Zone) {
		problems = append(problems, MsgZone)
	}
	return problems
}

// ValidEmail accepts a bare address with a dotted domain.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return strings.Contains(s[at+1:], ".")
}

func lengthBetween(s string, min, max int) bool {
	n := len([]rune(strings.TrimSpace(s)))
	return n >= min && n <= max
}

// Enquiry is a message sent through the contact form.
type Enquiry struct {
	FirstName string
	Email     string
	Message   string
}

// Problems lists the contact form's validation messages for e.
func (e Enquiry) Problems() []string {
	var problems []string
	if !lengthBetween(e.FirstName, 3, 32) {
		problems = append(problems, MsgEnquiryName)
	}
	if !ValidEmail(e.Email) {
		problems = append(problems, MsgEmail)
	}
	if !lengthBetween(e.Message, 10, 3000) {
		problems = append(problems, MsgEnquiry)
	}
	return problems
}
