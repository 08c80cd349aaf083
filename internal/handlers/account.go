package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/services"
)

func registrationFromForm(r *http.Request) models.Registration {
	f := r.PostForm
	field := func(name string) string { return strings.TrimSpace(f.Get(name)) }
	return models.Registration{
		Contact: models.Contact{
			FirstName: field("firstname"),
			LastName:  field("lastname"),
			Email:     field("email"),
			Telephone: field("telephone"),
			Address1:  field("address_1"),
			City:      field("city"),
			Postcode:  field("postcode"),
			Country:   f.Get("country_id"),
			Zone:      f.Get("zone_id"),
		},
		Fax:        field("fax"),
		Company:    field("company"),
		Address2:   field("address_2"),
		LoginName:  field("loginname"),
		Password:   f.Get("password"),
		Confirm:    f.Get("confirm"),
		Newsletter: f.Get("newsletter") == "1",
		Agree:      f.Get("agree") != "",
	}
}

func (h *Storefront) register(w http.ResponseWriter, r *http.Request, visit string) {
	if r.Method != http.MethodPost {
		data := h.page(r, visit, "Create Account")
		data.Data = addressForm{Countries: models.Countries, Country: models.DefaultCountry}
		h.render(w, "register", http.StatusOK, data)
		return
	}

	_, err := h.store.Register(visit, registrationFromForm(r))
	if err == nil {
		redirect(w, r, "account/success")
		return
	}
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	data := h.page(r, visit, "Create Account")
	data.Errors = verr.Problems
	data.Data = addressForm{Countries: models.Countries, Country: r.PostForm.Get("country_id")}
	h.render(w, "register", http.StatusOK, data)
}

func (h *Storefront) registerSuccess(w http.ResponseWriter, r *http.Request, visit string) {
	h.render(w, "register_success", http.StatusOK, h.page(r, visit, "Your Account Has Been Created!"))
}

func (h *Storefront) account(w http.ResponseWriter, r *http.Request, visit string) {
	if !h.store.Snapshot(visit).LoggedIn() {
		redirect(w, r, "account/login")
		return
	}
	h.render(w, "account", http.StatusOK, h.page(r, visit, "My Account"))
}

func (h *Storefront) logout(w http.ResponseWriter, r *http.Request, visit string) {
	h.store.Logout(visit)
	h.render(w, "logout", http.StatusOK, h.page(r, visit, "Account Logout"))
}

func (h *Storefront) contact(w http.ResponseWriter, r *http.Request, visit string) {
	if r.Method != http.MethodPost {
		h.render(w, "contact", http.StatusOK, h.page(r, visit, "Contact Us"))
		return
	}
	err := h.store.SubmitEnquiry(models.Enquiry{
		FirstName: strings.TrimSpace(r.PostForm.Get("first_name")),
		Email:     strings.TrimSpace(r.PostForm.Get("email")),
		Message:   strings.TrimSpace(r.PostForm.Get("enquiry")),
	})
	if err == nil {
		redirect(w, r, "content/contact/success")
		return
	}
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	data := h.page(r, visit, "Contact Us")
	data.Errors = verr.Problems
	h.render(w, "contact", http.StatusOK, data)
}

func (h *Storefront) contactSuccess(w http.ResponseWriter, r *http.Request, visit string) {
	h.render(w, "contact_success", http.StatusOK, h.page(r, visit, "Contact Us"))
}
