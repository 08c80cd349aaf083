package models

import (
	"sort"
	"strings"
)

// ProductOption is a choice shown as a dropdown on the product page.
type ProductOption struct {
	ID     int
	Name   string
	Values []string
}

// Product is a catalog entry. Price is in minor units.
type Product struct {
	ID          int
	Name        string
	Model       string
	Category    string
	Description string
	Price       int64
	Options     []ProductOption
}

// FormattedPrice renders the unit price, e.g. "$11.99".
func (p Product) FormattedPrice() string {
	return FormatPrice(p.Price)
}

// Categories are the top-level menu entries after Home, in menu order.
var Categories = []string{
	"Apparel & accessories",
	"Makeup",
	"Skincare",
	"Fragrance",
	"Men",
	"Hair Care",
	"Books",
}

// Catalog is a read-only product list.
type Catalog struct {
	products []Product
	byID     map[int]Product
}

func NewCatalog(products []Product) *Catalog {
	c := &Catalog{products: append([]Product(nil), products...), byID: map[int]Product{}}
	sort.SliceStable(c.products, func(i, j int) bool { return c.products[i].ID < c.products[j].ID })
	for _, p := range c.products {
		c.byID[p.ID] = p
	}
	return c
}

// DefaultCatalog is the stand-in storefront's stock.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Product{
		{ID: 50, Name: "Casual 3/4 Sleeve Baseball T-Shirt", Model: "CT-50", Category: "Apparel & accessories", Price: 1199,
			Description: "Raglan sleeve cotton tee for everyday wear.",
			Options:     []ProductOption{{ID: 301, Name: "Size", Values: []string{"S", "M", "L", "XL"}}}},
		{ID: 51, Name: "Ruby Shoo Womens Jewel Trim Shoes", Model: "RS-51", Category: "Apparel & accessories", Price: 12500,
			Description: "Ballet flats with a jewelled trim.",
			Options:     []ProductOption{{ID: 302, Name: "Shoe Size", Values: []string{"5", "6", "7", "8"}}}},
		{ID: 52, Name: "Skinsheen Bronzer Stick", Model: "SB-52", Category: "Makeup", Price: 2900,
			Description: "Creamy bronzer that glides on for a sun-kissed glow."},
		{ID: 53, Name: "Absolute Anti-Age Night Cream", Model: "AA-53", Category: "Skincare", Price: 4700,
			Description: "Overnight treatment that restores radiance."},
		{ID: 54, Name: "Jasmine Noir Perfume", Model: "JN-54", Category: "Fragrance", Price: 8800,
			Description: "A floral fragrance with a dark, woody base."},
		{ID: 55, Name: "Men+Care Clean Comfort Deodorant", Model: "MC-55", Category: "Men", Price: 650,
			Description: "48 hour protection without irritation."},
		{ID: 56, Name: "Pro-V Color Hair Solutions Color Preserve Shine Conditioner", Model: "PV-56", Category: "Hair Care", Price: 823,
			Description: "Conditioner that protects colour-treated hair."},
		{ID: 57, Name: "Curls to Straight Shampoo", Model: "CS-57", Category: "Hair Care", Price: 400,
			Description: "Smoothing shampoo for unruly curls."},
		{ID: 58, Name: "The Miracle Worker Paperback", Model: "MW-58", Category: "Books", Price: 1100,
			Description: "A drama in three acts."},
	})
}

// All returns every product in ID order.
func (c *Catalog) All() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) Get(id int) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Search returns products whose name contains keyword, ignoring case. A
// blank keyword matches nothing.
func (c *Catalog) Search(keyword string) []Product {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	var out []Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), keyword) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) InCategory(category string) []Product {
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
