package models

import (
	"regexp"
	"strings"
	"time"
)

// Validation messages shown by the registration and address forms.
const (
	MsgLoginName      = "Login name must be alphanumeric only and between 5 and 64 characters!"
	MsgFirstName      = "First Name must be between 1 and 32 characters!"
	MsgLastName       = "Last Name must be between 1 and 32 characters!"
	MsgEmail          = "Email Address does not appear to be valid!"
	MsgTelephone      = "Telephone must be between 3 and 32 characters!"
	MsgAddress1       = "Address 1 must be between 3 and 128 characters!"
	MsgCity           = "City must be between 3 and 128 characters!"
	MsgZone           = "Please select a region / state!"
	MsgPostcode       = "Zip/postal code must be between 3 and 10 characters!"
	MsgCountry        = "Please select a country!"
	MsgPassword       = "Password must be between 4 and 20 characters!"
	MsgConfirm        = "Password confirmation does not match password!"
	MsgAgree          = "Error: You must agree to the Privacy Policy!"
	MsgEmailTaken     = "Error: E-Mail Address is already registered!"
	MsgLoginNameTaken = "This login name is not available. Try different login name!"
	MsgLoginFailed    = "Error: Incorrect login or password provided."
	MsgEnquiryName    = "First name must be between 3 and 32 characters!"
	MsgEnquiry        = "Enquiry must be between 10 and 3000 characters!"
)

var loginNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{5,64}$`)

// Registration is a submitted account creation form.
type Registration struct {
	Contact    Contact
	Fax        string
	Company    string
	Address2   string
	LoginName  string
	Password   string
	Confirm    string
	Newsletter bool
	Agree      bool
}

// Problems lists validation messages in form order; empty means valid.
func (r Registration) Problems() []string {
	var problems []string
	if !loginNamePattern.MatchString(r.LoginName) {
		problems = append(problems, MsgLoginName)
	}
	problems = append(problems, r.Contact.Problems()...)
	if t := strings.TrimSpace(r.Contact.Telephone); t != "" && !lengthBetween(t, 3, 32) {
		problems = append(problems, MsgTelephone)
	}
	if !lengthBetween(r.Password, 4, 20) {
		problems = append(problems, MsgPassword)
	}
	if r.Confirm != r.Password {
		problems = append(problems, MsgConfirm)
	}
	if !r.Agree {
		problems = append(problems, MsgAgree)
	}
	return problems
}

// Account is a registered customer.
type Account struct {
	ID           string
	LoginName    string
	PasswordHash []byte
	Contact      Contact
	Company      string
	Newsletter   bool
	CreatedAt    time.Time
}
