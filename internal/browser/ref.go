package browser

import (
	"fmt"
	"strings"
)

// Ref identifies a UI element either declaratively (a selector, optionally
// scoped to a parent element) or by an element that was already resolved.
// The zero value is not usable; build one with Sel, Within or Handle.
type Ref struct {
	selector string
	text     string
	parent   Element
	handle   Element
	first    bool
}

// Sel references elements matching selector anywhere on the page.
func Sel(selector string) Ref {
	return Ref{selector: selector}
}

// Within references elements matching selector inside parent, e.g. a cell
// inside a table row.
func Within(parent Element, selector string) Ref {
	return Ref{selector: selector, parent: parent}
}

// Handle wraps an already resolved element.
func Handle(el Element) Ref {
	return Ref{handle: el}
}

// WithText narrows the reference to elements whose text contains text,
// ignoring case.
func (r Ref) WithText(text string) Ref {
	r.text = text
	return r
}

// First narrows the reference to the first match in document order.
func (r Ref) First() Ref {
	r.first = true
	return r
}

// IsHandle reports whether r wraps a resolved element.
func (r Ref) IsHandle() bool {
	return r.handle != nil
}

func (r Ref) String() string {
	var b strings.Builder
	switch {
	case r.handle != nil:
		b.WriteString("<element>")
	case r.parent != nil:
		b.WriteString("<scoped> " + r.selector)
	default:
		b.WriteString(r.selector)
	}
	if r.text != "" {
		fmt.Fprintf(&b, " has-text(%q)", r.text)
	}
	if r.first {
		b.WriteString(" >> first")
	}
	return b.String()
}

// Resolve turns r into an element bound to tab. It performs no DOM access
// and no interaction; the returned element queries lazily.
func Resolve(tab Tab, r Ref) Element {
	var el Element
	switch {
	case r.handle != nil:
		el = r.handle
		if r.text != "" {
			el = el.Filter(r.text)
		}
	case r.parent != nil:
		el = r.parent.Locator(r.selector, r.text)
	default:
		el = tab.Locator(r.selector, r.text)
	}
	if r.first {
		el = el.First()
	}
	return el
}
