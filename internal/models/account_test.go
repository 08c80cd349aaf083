package models

import (
	"slices"
	"testing"
)

func validRegistration() Registration {
	return Registration{
		Contact:   testContact(),
		LoginName: "user_0123456789ab",
		Password:  "Test12345!",
		Confirm:   "Test12345!",
		Agree:     true,
	}
}

func TestRegistration_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Registration)
		want   []string
	}{
		{"valid", func(*Registration) {}, nil},
		{"short login", func(r *Registration) { r.LoginName = "abc" }, []string{MsgLoginName}},
		{"login with spaces", func(r *Registration) { r.LoginName = "user name" }, []string{MsgLoginName}},
		{"bad email", func(r *Registration) { r.Contact.Email = "nope" }, []string{MsgEmail}},
		{"mismatched confirm", func(r *Registration) { r.Confirm = "DifferentPassword123!" }, []string{MsgConfirm}},
		{"no agreement", func(r *Registration) { r.Agree = false }, []string{MsgAgree}},
		{"zone outside country", func(r *Registration) { r.Contact.Zone = "Ontario" }, []string{MsgZone}},
		{"short password", func(r *Registration) { r.Password, r.Confirm = "abc", "abc" }, []string{MsgPassword}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration()
			tt.mutate(&reg)

			got := reg.Problems()

			if !slices.Equal(got, tt.want) {
				t.Errorf("Problems() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistration_OnlyOptionalFieldsListsEveryMandatoryProblem(t *testing.T) {
	reg := Registration{
		Contact: Contact{Telephone: "5551234567", Country: "United States"},
		Company: "Acme",
		Agree:   true,
	}

	got := reg.Problems()

	for _, msg := range []string{MsgLoginName, MsgFirstName, MsgLastName, MsgEmail, MsgAddress1, MsgCity, MsgPostcode, MsgZone, MsgPassword} {
		if !slices.Contains(got, msg) {
			t.Errorf("missing %q in %v", msg, got)
		}
	}
	if slices.Contains(got, MsgCountry) {
		t.Errorf("country was selected but reported: %v", got)
	}
}
