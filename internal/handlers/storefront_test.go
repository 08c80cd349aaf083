package handlers

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/repository"
	"github.com/themizzi/storefront-e2e/internal/services"
)

type shop struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	store  *services.Store
}

func newShop(t *testing.T) *shop {
	t.Helper()
	store := services.NewStore(models.DefaultCatalog(), services.NewOrderService(repository.NewMemoryOrderRepository()), nil)
	h, err := NewStorefront(store, nil)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.Handle("/static/", Static())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &shop{t: t, srv: srv, client: &http.Client{Jar: jar}, store: store}
}

func (s *shop) get(path string) (*goquery.Document, *http.Response) {
	s.t.Helper()
	resp, err := s.client.Get(s.srv.URL + "/" + path)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(s.t, err)
	return doc, resp
}

func (s *shop) post(path string, form url.Values) (*goquery.Document, *http.Response) {
	s.t.Helper()
	resp, err := s.client.PostForm(s.srv.URL+"/"+path, form)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(s.t, err)
	return doc, resp
}

func text(doc *goquery.Document, selector string) string {
	return strings.Join(strings.Fields(doc.Find(selector).Text()), " ")
}

func TestStorefront_HomePage(t *testing.T) {
	s := newShop(t)

	doc, resp := s.get("")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, HomeTitle, strings.TrimSpace(doc.Find("title").Text()))
	assert.Equal(t, 1, doc.Find("#banner_slides").Length())
	assert.Equal(t, 9, doc.Find("#featured div.thumbnails div.col-md-3").Length())
	assert.Equal(t, 8, doc.Find("nav.subnav ul.nav-pills > li > a").Length())
	assert.Equal(t, 1, doc.Find("a.logo img").Length())
	assert.Equal(t, "0", text(doc, "ul.topcart span.label"))
	assert.Equal(t, 1, doc.Find("#search_form div.button-in-input i.fa-search").Length())
	for _, link := range []string{"About Us", "Contact Us", "Privacy Policy"} {
		assert.Contains(t, text(doc, "footer"), link)
	}
}

func TestStorefront_Search(t *testing.T) {
	tests := []struct {
		keyword string
		want    int
	}{
		{"shirt", 1},
		{"cream", 1},
		{"hands", 0},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			s := newShop(t)

			doc, _ := s.get("index.php?rt=product/search&filter_keyword=" + tt.keyword)

			assert.Equal(t, tt.want, doc.Find("div.thumbnails a.prdocutname").Length())
			if tt.want == 0 {
				assert.Contains(t, text(doc, "div.contentpanel"), NoResults)
			}
			value, _ := doc.Find("input[name='filter_keyword']").Attr("value")
			assert.Equal(t, tt.keyword, value)
		})
	}
}

func TestStorefront_CategoryAndContent(t *testing.T) {
	s := newShop(t)

	doc, resp := s.get("index.php?rt=product/category&path=" + url.QueryEscape("Hair Care"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, doc.Find("a.prdocutname").Length())

	doc, _ = s.get("index.php?rt=content/content&content_id=4")
	assert.Equal(t, "About Us", text(doc, "span.maintext"))

	_, resp = s.get("index.php?rt=product/category&path=Nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, resp = s.get("index.php?rt=no/such/route")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStorefront_ProductPage(t *testing.T) {
	s := newShop(t)

	doc, resp := s.get("index.php?rt=product/product&product_id=50")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Casual 3/4 Sleeve Baseball T-Shirt", text(doc, "h1.productname"))
	assert.Equal(t, "$11.99", text(doc, "div.productfilneprice"))
	assert.Equal(t, 1, doc.Find("a.local_image img").Length())
	assert.Equal(t, 1, doc.Find("form#product a.cart").Length())
	assert.Equal(t, 4, doc.Find("#product div.form-group select option").Length())
	qty, _ := doc.Find("#product_quantity").Attr("value")
	assert.Equal(t, "1", qty)

	_, resp = s.get("index.php?rt=product/product&product_id=999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStorefront_CartLifecycle(t *testing.T) {
	s := newShop(t)

	// GIVEN an empty cart
	doc, _ := s.get("index.php?rt=checkout/cart")
	assert.Contains(t, text(doc, "div.contentpanel"), "Your shopping cart is empty!")

	// WHEN two products are added
	s.post("index.php?rt=checkout/cart", url.Values{"product_id": {"50"}, "quantity": {"2"}})
	doc, resp := s.post("index.php?rt=checkout/cart", url.Values{"product_id": {"53"}})

	// THEN both rows show with their quantities
	assert.Contains(t, resp.Request.URL.String(), "rt=checkout/cart")
	rows := doc.Find("table.table-striped tr:has(input[name^='quantity'])")
	require.Equal(t, 2, rows.Length())
	qty, _ := rows.First().Find("input").Attr("value")
	assert.Equal(t, "2", qty)
	assert.Equal(t, "3", text(doc, "ul.topcart span.label"))

	// WHEN one quantity is updated and the other product removed
	s.post("index.php?rt=checkout/cart", url.Values{"quantity[50]": {"4"}, "quantity[53]": {"1"}, "update": {"update"}})
	doc, _ = s.get("index.php?rt=checkout/cart&remove=53")

	rows = doc.Find("table.table-striped tr:has(input[name^='quantity'])")
	require.Equal(t, 1, rows.Length())
	assert.Contains(t, rows.Text(), "T-Shirt")
	qty, _ = rows.Find("input").Attr("value")
	assert.Equal(t, "4", qty)

	// An invalid quantity is reported without changing the cart.
	doc, resp = s.post("index.php?rt=checkout/cart", url.Values{"quantity[50]": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, doc.Find("div.alert.alert-danger").Length())
}

func TestStorefront_GuestCheckout(t *testing.T) {
	s := newShop(t)

	// GIVEN a product in the cart
	s.post("index.php?rt=checkout/cart", url.Values{"product_id": {"50"}})

	// WHEN checkout starts the visitor is asked to choose
	doc, resp := s.get("index.php?rt=checkout/checkout")
	assert.Contains(t, resp.Request.URL.String(), "rt=account/login")
	assert.Equal(t, 1, doc.Find("#accountFrm_accountguest").Length())

	// AND guest checkout is chosen and completed
	doc, resp = s.post("index.php?rt=account/login", url.Values{"account": {"guest"}})
	require.Contains(t, resp.Request.URL.String(), "rt=checkout/guest_step_1")
	selected := doc.Find("#guestFrm_country_id option[selected]").Text()
	assert.Equal(t, "United States", selected)

	doc, resp = s.post("index.php?rt=checkout/guest_step_1", url.Values{
		"firstname": {"John"}, "lastname": {"Doe"}, "email": {"testguest@example.com"},
		"telephone": {"555-1234"}, "address_1": {"123 Main Street"}, "city": {"New York"},
		"postcode": {"10001"}, "country_id": {"United States"}, "zone_id": {"New York"},
	})
	require.Contains(t, resp.Request.URL.String(), "rt=checkout/confirm")
	assert.Equal(t, 1, doc.Find("#checkout_btn").Length())

	doc, resp = s.post("index.php?rt=checkout/confirm", nil)

	// THEN the order is confirmed with a number and the cart is empty
	assert.Contains(t, resp.Request.URL.String(), "rt=checkout/success")
	assert.Contains(t, text(doc, "h1"), "Your Order Has Been Processed!")
	assert.Regexp(t, `Your order #\d+ has been created!`, text(doc, "div.contentpanel p"))
	assert.Equal(t, "0", text(doc, "ul.topcart span.label"))

	// AND reloading the success page reads the same order back
	placed := text(doc, "div.contentpanel p")
	doc, _ = s.get("index.php?rt=checkout/success")
	assert.Equal(t, placed, text(doc, "div.contentpanel p"))
}

func TestStorefront_SuccessWithoutOrderGoesHome(t *testing.T) {
	s := newShop(t)

	_, resp := s.get("index.php?rt=checkout/success")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Request.URL.String(), "rt=index/home")
}

func TestStorefront_GuestCheckoutValidation(t *testing.T) {
	s := newShop(t)
	s.post("index.php?rt=checkout/cart", url.Values{"product_id": {"50"}})

	doc, resp := s.post("index.php?rt=checkout/guest_step_1", url.Values{
		"firstname": {"John"}, "country_id": {"United States"}, "zone_id": {"FALSE"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := text(doc, "div.alert.alert-danger")
	assert.Contains(t, errs, models.MsgEmail)
	assert.Contains(t, errs, models.MsgZone)
	value, _ := doc.Find("#guestFrm_firstname").Attr("value")
	assert.Equal(t, "John", value)
}

func TestStorefront_CheckoutWithEmptyCartGoesToCart(t *testing.T) {
	s := newShop(t)

	_, resp := s.get("index.php?rt=checkout/checkout")

	assert.Contains(t, resp.Request.URL.String(), "rt=checkout/cart")

	_, resp = s.get("index.php?rt=checkout/guest_step_1")

	assert.Contains(t, resp.Request.URL.String(), "rt=checkout/cart")
}

func TestStorefront_LoginPageHidesGuestOptionForEmptyCart(t *testing.T) {
	s := newShop(t)

	doc, _ := s.get("index.php?rt=account/login")

	assert.Equal(t, 0, doc.Find("#accountFrm_accountguest").Length())
	assert.Equal(t, 1, doc.Find("#accountFrm_accountregister").Length())
	assert.Equal(t, 1, doc.Find("button[title='Login']").Length())
}

func registrationForm() url.Values {
	return url.Values{
		"firstname": {"Jane"}, "lastname": {"Smith"}, "email": {"jane.smith@example.com"},
		"telephone": {"555-0100"}, "address_1": {"1 Market Street"}, "city": {"San Francisco"},
		"zone_id": {"California"}, "postcode": {"94105"}, "country_id": {"United States"},
		"loginname": {"user_abcdef123456"}, "password": {"Test12345!"}, "confirm": {"Test12345!"},
		"newsletter": {"0"}, "agree": {"1"},
	}
}

func TestStorefront_Register(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(url.Values)
		wantOK     bool
		wantErrors []string
	}{
		{"valid", func(url.Values) {}, true, nil},
		{"without privacy policy", func(f url.Values) { f.Del("agree") }, false, []string{models.MsgAgree}},
		{"mismatched passwords", func(f url.Values) { f.Set("confirm", "DifferentPassword123!") }, false, []string{models.MsgConfirm}},
		{"only optional fields", func(f url.Values) {
			for _, k := range []string{"firstname", "lastname", "email", "address_1", "city", "postcode", "loginname", "password", "confirm"} {
				f.Del(k)
			}
			f.Set("zone_id", "FALSE")
		}, false, []string{models.MsgFirstName, models.MsgEmail, models.MsgZone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newShop(t)
			form := registrationForm()
			tt.mutate(form)

			doc, resp := s.post("index.php?rt=account/create", form)

			if tt.wantOK {
				assert.Contains(t, resp.Request.URL.String(), "rt=account/success")
				assert.Contains(t, text(doc, "span.maintext"), "Your Account Has Been Created!")
				return
			}
			assert.Contains(t, resp.Request.URL.String(), "rt=account/create")
			errs := text(doc, "div.alert.alert-danger")
			for _, msg := range tt.wantErrors {
				assert.Contains(t, errs, msg)
			}
		})
	}
}

func TestStorefront_LoginLogout(t *testing.T) {
	s := newShop(t)
	_, err := s.store.Register(s.store.Ensure(""), models.Registration{
		Contact: models.Contact{
			FirstName: "Reg", LastName: "User", Email: "registereduser@example.com",
			Address1: "1 Main Street", City: "Austin", Postcode: "73301",
			Country: "United States", Zone: "Texas",
		},
		LoginName: "registereduser", Password: "TestPassword123!", Confirm: "TestPassword123!", Agree: true,
	})
	require.NoError(t, err)

	doc, resp := s.post("index.php?rt=account/login", url.Values{"loginname": {"registereduser"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, models.MsgLoginFailed, text(doc, "div.alert.alert-danger"))

	doc, resp = s.post("index.php?rt=account/login", url.Values{"loginname": {"registereduser"}, "password": {"TestPassword123!"}})
	assert.Contains(t, resp.Request.URL.String(), "rt=account/account")
	assert.Contains(t, text(doc, "span.maintext"), "My Account")
	assert.Equal(t, 1, doc.Find("a[href*='account/account']").Length())

	doc, _ = s.get("index.php?rt=account/logout")
	assert.Contains(t, text(doc, "span.maintext"), "Account Logout")

	_, resp = s.get("index.php?rt=account/account")
	assert.Contains(t, resp.Request.URL.String(), "rt=account/login")
}

func TestStorefront_Contact(t *testing.T) {
	s := newShop(t)

	doc, _ := s.post("index.php?rt=content/contact", url.Values{"first_name": {"Jo"}})
	assert.Contains(t, text(doc, "div.alert.alert-danger"), models.MsgEnquiryName)

	doc, resp := s.post("index.php?rt=content/contact", url.Values{
		"first_name": {"John"},
		"email":      {"testguest@example.com"},
		"enquiry":    {"I'm interested in buying hair conditioner on bulk."},
	})
	assert.Contains(t, resp.Request.URL.String(), "rt=content/contact/success")
	assert.Contains(t, text(doc, "div.contentpanel"), "Your enquiry has been successfully sent to the store owner!")
	assert.Len(t, s.store.Enquiries(), 1)
}

func TestStatic_ServesLogo(t *testing.T) {
	s := newShop(t)

	resp, err := s.client.Get(s.srv.URL + "/static/logo.svg")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "svg")
}
