package handlers

import (
	"net/http"
	"strconv"

	"github.com/themizzi/storefront-e2e/internal/models"
)

// HomeTitle is the home page title, matching the public demo store.
const HomeTitle = "A place to practice your automation skills!"

// NoResults is shown when a search finds nothing.
const NoResults = "There is no product that matches the search criteria."

type listing struct {
	Heading  string
	Products []models.Product
}

// contentPages are the static information pages, by content_id.
var contentPages = map[int]struct{ Title, Body string }{
	1: {"Shipping", "Orders ship within two business days."},
	2: {"Privacy Policy", "We only use your details to process your orders."},
	3: {"Return Policy", "Unused items can be returned within 30 days."},
	4: {"About Us", "A place to practice your automation skills."},
}

func (h *Storefront) home(w http.ResponseWriter, r *http.Request, visit string) {
	data := h.page(r, visit, HomeTitle)
	data.Data = listing{Heading: "Featured", Products: h.store.Catalog().All()}
	h.render(w, "home", http.StatusOK, data)
}

func (h *Storefront) category(w http.ResponseWriter, r *http.Request, visit string) {
	name := r.Form.Get("path")
	if !isCategory(name) {
		h.render(w, "content", http.StatusNotFound, h.notFound(r, visit, "Category not found!"))
		return
	}
	data := h.page(r, visit, name)
	data.Data = listing{Heading: name, Products: h.store.Catalog().InCategory(name)}
	h.render(w, "category", http.StatusOK, data)
}

func isCategory(name string) bool {
	for _, c := range models.Categories {
		if c == name {
			return true
		}
	}
	return false
}

func (h *Storefront) search(w http.ResponseWriter, r *http.Request, visit string) {
	keyword := r.Form.Get("filter_keyword")
	data := h.page(r, visit, "Search")
	data.Data = listing{Heading: keyword, Products: h.store.Catalog().Search(keyword)}
	h.render(w, "search", http.StatusOK, data)
}

func (h *Storefront) product(w http.ResponseWriter, r *http.Request, visit string) {
	id, err := strconv.Atoi(r.Form.Get("product_id"))
	p, ok := h.store.Catalog().Get(id)
	if err != nil || !ok {
		h.render(w, "content", http.StatusNotFound, h.notFound(r, visit, "Product not found!"))
		return
	}
	data := h.page(r, visit, p.Name)
	data.Data = p
	h.render(w, "product", http.StatusOK, data)
}

func (h *Storefront) content(w http.ResponseWriter, r *http.Request, visit string) {
	id, _ := strconv.Atoi(r.Form.Get("content_id"))
	page, ok := contentPages[id]
	if !ok {
		h.render(w, "content", http.StatusNotFound, h.notFound(r, visit, "Page not found!"))
		return
	}
	data := h.page(r, visit, page.Title)
	data.Data = page
	h.render(w, "content", http.StatusOK, data)
}

func (h *Storefront) notFound(r *http.Request, visit, title string) *pageData {
	data := h.page(r, visit, title)
	data.Data = struct{ Title, Body string }{title, "The page you requested cannot be found."}
	return data
}
