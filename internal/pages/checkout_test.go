package pages_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/storefront-e2e/internal/browser/browsertest"
	"github.com/themizzi/storefront-e2e/internal/pages"
)

const searchHeader = `<div class="header"><form><input name="filter_keyword"><button type="submit" id="search-go">Go</button></form></div>`

func checkoutOn(t *testing.T, body string) (*pages.Checkout, *browsertest.Tab) {
	t.Helper()
	tab := browsertest.NewTab()
	require.NoError(t, tab.SetContent("http://shop.test/index.php?rt=account/login",
		`<html><body>`+searchHeader+`<div class="contentpanel">`+
			`<input type="radio" name="account" id="accountFrm_accountguest" value="guest">`+
			body+`</div></body></html>`))
	tab.OnClick("button, input[type='submit']", func(*browsertest.Tab) error { return nil })
	b := pages.NewBase(tab, "http://shop.test/",
		pages.WithDefaultTimeout(100*time.Millisecond),
		pages.WithPollInterval(5*time.Millisecond),
		pages.WithCandidateTimeout(20*time.Millisecond),
	)
	return pages.NewCheckout(b), tab
}

func TestCheckout_ContinueFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		clicked string
	}{
		{"continue button", `<button id="go">Continue</button><button id="next">Next</button>`, "click #go"},
		{"next button", `<button id="next">Next</button>`, "click #next"},
		{"checkout button", `<button id="checkout">Checkout</button>`, "click #checkout"},
		{"next input", `<input type="submit" id="next-input" value="Next step">`, "click #next-input"},
		{"bare submit button", `<button type="submit" id="submit">Proceed</button>`, "click #submit"},
		{"bare submit input", `<input type="submit" id="submit-input" value="Go on">`, "click #submit-input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkout, tab := checkoutOn(t, tt.body)

			require.NoError(t, checkout.SelectGuestCheckout())

			assert.Contains(t, tab.Events(), tt.clicked)
			assert.NotContains(t, tab.Events(), "click #search-go")
		})
	}
}

func TestCheckout_ContinueExhaustedIgnoresHeaderSearch(t *testing.T) {
	checkout, tab := checkoutOn(t, `<p>No way forward</p>`)

	err := checkout.SelectGuestCheckout()

	require.ErrorIs(t, err, pages.ErrFallbackExhausted)
	assert.Contains(t, err.Error(), "select guest checkout")
	assert.NotContains(t, tab.Events(), "click #search-go")
}
