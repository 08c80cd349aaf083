// Package storefronttest runs the stand-in storefront on an httptest server
// and hands out in-process browser tabs wired to it, so page objects and
// scenarios can be exercised without a real browser.
package storefronttest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/browser/browsertest"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
	"github.com/themizzi/storefront-e2e/internal/handlers"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/repository"
	"github.com/themizzi/storefront-e2e/internal/services"
)

// Server is a running stand-in storefront.
type Server struct {
	// URL is the storefront base URL, with a trailing slash.
	URL    string
	Store  *services.Store
	Orders *repository.MemoryOrderRepository
}

// New starts a storefront for the test and stops it on cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	orders := repository.NewMemoryOrderRepository()
	store := services.NewStore(models.DefaultCatalog(), services.NewOrderService(orders), zap.NewNop())
	h, err := handlers.NewStorefront(store, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to build storefront: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.Handle("/static/", handlers.Static())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &Server{URL: srv.URL + "/", Store: store, Orders: orders}
}

// NewTab returns a fresh tab with its own cookie jar. The product page's
// scripted Add to Cart link submits the product form, as it does in a real
// browser.
func (s *Server) NewTab() *browsertest.Tab {
	tab := browsertest.NewTab()
	tab.OnClick("a.cart", func(t *browsertest.Tab) error {
		return t.Submit("form#product")
	})
	return tab
}

// RegisterUser creates an account for u with a valid New York address, as
// if it had registered in an earlier visit.
func (s *Server) RegisterUser(t testing.TB, u fixtures.RegisteredUser) {
	t.Helper()
	visit := s.Store.Ensure("")
	_, err := s.Store.Register(visit, models.Registration{
		Contact: models.Contact{
			FirstName: "Registered",
			LastName:  "User",
			Email:     u.Email,
			Telephone: "555-0100",
			Address1:  "1 Main Street",
			City:      "New York",
			Postcode:  "10001",
			Country:   "United States",
			Zone:      "New York",
		},
		LoginName: u.LoginName,
		Password:  u.Password,
		Confirm:   u.Password,
		Agree:     true,
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", u.LoginName, err)
	}
	s.Store.Logout(visit)
}
