package models

import (
	"errors"
	"fmt"
)

// MaxQuantity bounds a single cart line.
const MaxQuantity = 9999

var ErrLineNotFound = errors.New("product is not in the cart")

// CartLine is a product and how many of it are in the cart.
type CartLine struct {
	Product  Product
	Quantity int
}

func (l CartLine) Total() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// Cart keeps lines in the order products were first added.
type Cart struct {
	Lines []CartLine
}

func validQuantity(qty int) error {
	if qty < 0 || qty > MaxQuantity {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	return nil
}

// Add adds qty of p, merging with an existing line.
func (c *Cart) Add(p Product, qty int) error {
	if qty == 0 {
		qty = 1
	}
	if err := validQuantity(qty); err != nil {
		return err
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == p.ID {
			total := c.Lines[i].Quantity + qty
			if err := validQuantity(total); err != nil {
				return err
			}
			c.Lines[i].Quantity = total
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{Product: p, Quantity: qty})
	return nil
}

// SetQuantity replaces a line's quantity; zero removes the line.
func (c *Cart) SetQuantity(productID, qty int) error {
	if err := validQuantity(qty); err != nil {
		return err
	}
	if qty == 0 {
		return c.Remove(productID)
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines[i].Quantity = qty
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) Remove(productID int) error {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

func (c *Cart) Clear() { c.Lines = nil }

// ItemCount is the number of units across all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) Total() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// OrderLines prices the cart for an order.
func (c Cart) OrderLines() []OrderLine {
	lines := make([]OrderLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, OrderLine{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
		})
	}
	return lines
}

// Clone returns a deep copy.
func (c Cart) Clone() Cart {
	return Cart{Lines: append([]CartLine(nil), c.Lines...)}
}
