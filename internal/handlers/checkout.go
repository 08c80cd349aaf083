package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/services"
)

type loginPage struct {
	// GuestAllowed shows the guest checkout option; it needs a non-empty cart.
	GuestAllowed bool
}

type addressForm struct {
	Countries []string
	Country   string
}

// checkout routes the visitor to the next step of checkout.
func (h *Storefront) checkout(w http.ResponseWriter, r *http.Request, visit string) {
	v := h.store.Snapshot(visit)
	switch {
	case v.Cart.IsEmpty():
		redirect(w, r, "checkout/cart")
	case v.LoggedIn() || v.Guest != nil:
		redirect(w, r, "checkout/confirm")
	default:
		redirect(w, r, "account/login")
	}
}

// login handles both the new customer choice and the returning customer
// form.
func (h *Storefront) login(w http.ResponseWriter, r *http.Request, visit string) {
	v := h.store.Snapshot(visit)
	if r.Method != http.MethodPost {
		if v.LoggedIn() {
			redirect(w, r, "account/account")
			return
		}
		h.renderLogin(w, r, visit, http.StatusOK, "")
		return
	}

	switch r.PostForm.Get("account") {
	case "guest":
		if v.Cart.IsEmpty() {
			redirect(w, r, "checkout/cart")
			return
		}
		redirect(w, r, "checkout/guest_step_1")
		return
	case "register":
		redirect(w, r, "account/create")
		return
	}

	err := h.store.Login(visit, r.PostForm.Get("loginname"), r.PostForm.Get("password"))
	if errors.Is(err, services.ErrInvalidLogin) {
		h.renderLogin(w, r, visit, http.StatusUnauthorized, models.MsgLoginFailed)
		return
	}
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !v.Cart.IsEmpty() {
		redirect(w, r, "checkout/confirm")
		return
	}
	redirect(w, r, "account/account")
}

func (h *Storefront) renderLogin(w http.ResponseWriter, r *http.Request, visit string, status int, msg string) {
	data := h.page(r, visit, "Account Login")
	data.Data = loginPage{GuestAllowed: !data.Visit.Cart.IsEmpty()}
	if msg != "" {
		data.Errors = []string{msg}
	}
	h.render(w, "login", status, data)
}

// guest collects the guest's details before confirmation.
func (h *Storefront) guest(w http.ResponseWriter, r *http.Request, visit string) {
	if h.store.Snapshot(visit).Cart.IsEmpty() {
		redirect(w, r, "checkout/cart")
		return
	}
	if r.Method == http.MethodPost {
		f := r.PostForm
		contact := models.Contact{
			FirstName: strings.TrimSpace(f.Get("firstname")),
			LastName:  strings.TrimSpace(f.Get("lastname")),
			Email:     strings.TrimSpace(f.Get("email")),
			Telephone: strings.TrimSpace(f.Get("telephone")),
			Address1:  strings.TrimSpace(f.Get("address_1")),
			City:      strings.TrimSpace(f.Get("city")),
			Postcode:  strings.TrimSpace(f.Get("postcode")),
			Country:   f.Get("country_id"),
			Zone:      f.Get("zone_id"),
		}
		err := h.store.SetGuest(visit, contact)
		if err == nil {
			redirect(w, r, "checkout/confirm")
			return
		}
		var verr *services.ValidationError
		if !errors.As(err, &verr) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		data := h.page(r, visit, "Guest Checkout")
		data.Errors = verr.Problems
		data.Data = addressForm{Countries: models.Countries, Country: f.Get("country_id")}
		h.render(w, "guest", http.StatusBadRequest, data)
		return
	}
	data := h.page(r, visit, "Guest Checkout")
	data.Data = addressForm{Countries: models.Countries, Country: models.DefaultCountry}
	h.render(w, "guest", http.StatusOK, data)
}

type confirmPage struct {
	Customer models.Contact
	Lines    []models.CartLine
	Total    string
}

func (h *Storefront) confirm(w http.ResponseWriter, r *http.Request, visit string) {
	v := h.store.Snapshot(visit)
	if v.Cart.IsEmpty() || (!v.LoggedIn() && v.Guest == nil) {
		redirect(w, r, "checkout/checkout")
		return
	}
	if r.Method == http.MethodPost {
		if _, err := h.store.PlaceOrder(visit); err != nil {
			h.log.Error("failed to place order", zap.String("visit", visit), zap.Error(err))
			http.Error(w, "Failed to place order", http.StatusInternalServerError)
			return
		}
		redirect(w, r, "checkout/success")
		return
	}

	page := confirmPage{Lines: v.Cart.Lines, Total: models.FormatPrice(v.Cart.Total())}
	if v.LoggedIn() {
		page.Customer = v.Account.Contact
	} else {
		page.Customer = *v.Guest
	}
	data := h.page(r, visit, "Checkout Confirmation")
	data.Data = page
	h.render(w, "confirm", http.StatusOK, data)
}

func (h *Storefront) success(w http.ResponseWriter, r *http.Request, visit string) {
	order, err := h.store.LastOrder(visit)
	if errors.Is(err, services.ErrNoOrder) {
		redirect(w, r, "index/home")
		return
	}
	if err != nil {
		h.log.Error("failed to load last order", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	data := h.page(r, visit, "Your Order Has Been Processed!")
	data.Data = order
	h.render(w, "success", http.StatusOK, data)
}
