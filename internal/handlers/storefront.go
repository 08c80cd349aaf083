package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/services"
)

// SessionCookie carries the visit ID between requests.
const SessionCookie = "storefront_session"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageData is what every template renders from. Data holds the
// page-specific part.
type pageData struct {
	Title      string
	Visit      services.Visit
	Categories []string
	CartCount  int
	CartTotal  string
	Keyword    string
	Errors     []string
	Form       url.Values
	Data       any
}

type route func(w http.ResponseWriter, r *http.Request, visit string)

// Storefront serves the AbanteCart-compatible stand-in shop. Every page is
// addressed as index.php?rt=<route>.
type Storefront struct {
	store  *services.Store
	pages  map[string]*template.Template
	routes map[string]route
	log    *zap.Logger
}

var pageFiles = []string{
	"home", "category", "search", "product", "content",
	"cart", "login", "guest", "confirm", "success",
	"register", "register_success", "account", "logout",
	"contact", "contact_success",
}

var templateFuncs = template.FuncMap{
	"price":       models.FormatPrice,
	"productURL":  productURL,
	"categoryURL": categoryURL,
	"removeURL": func(id int) string {
		return "index.php?rt=checkout/cart&remove=" + strconv.Itoa(id)
	},
	"zones": func(country string) []string {
		return models.Zones[country]
	},
	"selects": func(id string, countries []string, country, zone string) addressSelects {
		return addressSelects{ID: id, Countries: countries, Country: country, Zone: zone}
	},
}

// addressSelects feeds the shared country and zone dropdowns. ID prefixes
// the element IDs, e.g. guestFrm_country_id.
type addressSelects struct {
	ID        string
	Countries []string
	Country   string
	Zone      string
}

func productURL(id int) string {
	return "index.php?rt=product/product&product_id=" + strconv.Itoa(id)
}

func categoryURL(name string) string {
	return "index.php?rt=product/category&path=" + url.QueryEscape(name)
}

// NewStorefront parses the embedded templates and wires every route.
func NewStorefront(store *services.Store, log *zap.Logger) (*Storefront, error) {
	if log == nil {
		log = zap.NewNop()
	}
	base, err := template.New("layout").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if pages[name], err = clone.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
	}

	h := &Storefront{store: store, pages: pages, log: log}
	h.routes = map[string]route{
		"":                        h.home,
		"index/home":              h.home,
		"product/category":        h.category,
		"product/search":          h.search,
		"product/product":         h.product,
		"content/content":         h.content,
		"content/contact":         h.contact,
		"content/contact/success": h.contactSuccess,
		"checkout/cart":           h.cart,
		"checkout/checkout":       h.checkout,
		"checkout/guest_step_1":   h.guest,
		"checkout/confirm":        h.confirm,
		"checkout/success":        h.success,
		"account/login":           h.login,
		"account/create":          h.register,
		"account/success":         h.registerSuccess,
		"account/account":         h.account,
		"account/logout":          h.logout,
	}
	return h, nil
}

// Static serves the embedded stylesheet and images under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// ServeHTTP handles every storefront page
func (h *Storefront) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.php" {
		http.NotFound(w, r)
		return
	}
	rt := r.URL.Query().Get("rt")
	handle, ok := h.routes[rt]
	if !ok {
		h.log.Debug("unknown route", zap.String("rt", rt))
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	visit := h.visitID(w, r)
	h.log.Debug("request", zap.String("method", r.Method), zap.String("rt", rt), zap.String("visit", visit))
	handle(w, r, visit)
}

func (h *Storefront) visitID(w http.ResponseWriter, r *http.Request) string {
	var current string
	if c, err := r.Cookie(SessionCookie); err == nil {
		current = c.Value
	}
	id := h.store.Ensure(current)
	if id != current {
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: id, Path: "/", HttpOnly: true})
	}
	return id
}

// page builds the shared template data for visit.
func (h *Storefront) page(r *http.Request, visit, title string) *pageData {
	v := h.store.Snapshot(visit)
	return &pageData{
		Title:      title,
		Visit:      v,
		Categories: models.Categories,
		CartCount:  v.Cart.ItemCount(),
		CartTotal:  models.FormatPrice(v.Cart.Total()),
		Keyword:    r.Form.Get("filter_keyword"),
		Form:       r.PostForm,
	}
}

func (h *Storefront) render(w http.ResponseWriter, name string, status int, data *pageData) {
	tmpl, ok := h.pages[name]
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.Error("failed to render template", zap.String("page", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirect sends the browser to a storefront route.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, "index.php?rt="+path, http.StatusFound)
}

func formInt(r *http.Request, key string, def int) (int, error) {
	v := r.Form.Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
