package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/services"
)

// cart shows the cart and applies add, update and remove requests. Every
// change redirects back to the plain cart route.
func (h *Storefront) cart(w http.ResponseWriter, r *http.Request, visit string) {
	if id := r.Form.Get("remove"); id != "" {
		if productID, err := strconv.Atoi(id); err == nil {
			_ = h.store.RemoveFromCart(visit, productID)
		}
		redirect(w, r, "checkout/cart")
		return
	}
	if r.Method != http.MethodPost {
		h.render(w, "cart", http.StatusOK, h.page(r, visit, "Shopping Cart"))
		return
	}

	var err error
	if r.PostForm.Has("product_id") {
		err = h.addToCart(r, visit)
	} else {
		err = h.updateCart(r, visit)
	}
	if err != nil {
		h.log.Info("cart change rejected", zap.String("visit", visit), zap.Error(err))
		data := h.page(r, visit, "Shopping Cart")
		data.Errors = []string{cartErrorMessage(err)}
		h.render(w, "cart", http.StatusBadRequest, data)
		return
	}
	redirect(w, r, "checkout/cart")
}

func (h *Storefront) addToCart(r *http.Request, visit string) error {
	productID, err := strconv.Atoi(r.PostForm.Get("product_id"))
	if err != nil {
		return services.ErrUnknownProduct
	}
	qty, err := formInt(r, "quantity", 1)
	if err != nil {
		return err
	}
	return h.store.AddToCart(visit, productID, qty)
}

// updateCart reads quantity[<product id>] fields.
func (h *Storefront) updateCart(r *http.Request, visit string) error {
	quantities := map[int]int{}
	for key, values := range r.PostForm {
		if !strings.HasPrefix(key, "quantity[") || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		productID, err := strconv.Atoi(key[len("quantity[") : len(key)-1])
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			return err
		}
		quantities[productID] = qty
	}
	return h.store.UpdateCart(visit, quantities)
}

func cartErrorMessage(err error) string {
	if errors.Is(err, services.ErrUnknownProduct) {
		return "Error: This product is no longer available!"
	}
	return "Error: Please enter a valid quantity!"
}
