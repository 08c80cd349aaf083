package browsertest

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

// activation is what a click resolved to. It is computed with the tab
// locked and run after the lock is released.
type activation struct {
	hook     func(*Tab) error
	navigate string
	submit   *request
}

func (a activation) run(t *Tab) error {
	switch {
	case a.hook != nil:
		return a.hook(t)
	case a.navigate != "":
		return t.Goto(a.navigate, browser.LoadStateLoad, 0)
	case a.submit != nil:
		return a.submit.send(t)
	}
	return nil
}

type request struct {
	method string
	action string
	values url.Values
}

func (r request) send(t *Tab) error {
	if r.method == http.MethodPost {
		resp, err := t.client.PostForm(r.action, r.values)
		if err != nil {
			return fmt.Errorf("submit %s: %w", r.action, err)
		}
		return t.load(resp)
	}
	u, err := url.Parse(r.action)
	if err != nil {
		return fmt.Errorf("submit %s: %w", r.action, err)
	}
	u.RawQuery = r.values.Encode()
	return t.Goto(u.String(), browser.LoadStateLoad, 0)
}

// activation must be called with t.mu held.
func (t *Tab) activation(node *goquery.Selection) activation {
	for _, h := range t.hooks {
		if node.Closest(h.selector).Length() > 0 {
			return activation{hook: h.fn}
		}
	}
	target := node.Closest("a[href], button, input")
	if target.Length() == 0 {
		return activation{}
	}
	switch goquery.NodeName(target) {
	case "a":
		href := strings.TrimSpace(target.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return activation{}
		}
		return activation{navigate: t.resolveURL(href)}
	case "button":
		if strings.ToLower(target.AttrOr("type", "submit")) != "submit" {
			return activation{}
		}
		return t.submitActivation(target)
	case "input":
		switch inputType(target) {
		case "submit", "image":
			return t.submitActivation(target)
		case "checkbox":
			if _, ok := target.Attr("checked"); ok {
				target.RemoveAttr("checked")
			} else {
				target.SetAttr("checked", "checked")
			}
		case "radio":
			t.checkRadio(target)
		}
	}
	return activation{}
}

func (t *Tab) submitActivation(submitter *goquery.Selection) activation {
	form := submitter.Closest("form")
	if form.Length() == 0 {
		return activation{}
	}
	req := t.formRequest(form, submitter)
	return activation{submit: &req}
}

// checkRadio must be called with t.mu held.
func (t *Tab) checkRadio(node *goquery.Selection) {
	scope := node.Closest("form")
	if scope.Length() == 0 {
		scope = t.doc.Selection
	}
	name := node.AttrOr("name", "")
	scope.Find("input[type='radio']").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("name", "") == name
	}).RemoveAttr("checked")
	node.SetAttr("checked", "checked")
}

// formRequest must be called with t.mu held.
func (t *Tab) formRequest(form, submitter *goquery.Selection) request {
	return request{
		method: strings.ToUpper(form.AttrOr("method", http.MethodGet)),
		action: t.resolveURL(form.AttrOr("action", "")),
		values: formValues(form, submitter),
	}
}

func sameNode(a, b *goquery.Selection) bool {
	return a != nil && b != nil && a.Length() > 0 && b.Length() > 0 && a.Get(0) == b.Get(0)
}

func formValues(form, submitter *goquery.Selection) url.Values {
	values := url.Values{}
	form.Find("input, select, textarea, button").Each(func(_ int, f *goquery.Selection) {
		name := f.AttrOr("name", "")
		if name == "" || !enabled(f) {
			return
		}
		switch goquery.NodeName(f) {
		case "input":
			switch inputType(f) {
			case "checkbox", "radio":
				if _, ok := f.Attr("checked"); ok {
					values.Add(name, f.AttrOr("value", "on"))
				}
			case "submit", "image", "button", "reset":
				if sameNode(f, submitter) {
					values.Add(name, f.AttrOr("value", ""))
				}
			default:
				values.Add(name, f.AttrOr("value", ""))
			}
		case "textarea":
			values.Add(name, f.Text())
		case "select":
			if opt := selectedOption(f); opt.Length() > 0 {
				values.Add(name, opt.AttrOr("value", normalize(opt.Text())))
			}
		case "button":
			if sameNode(f, submitter) {
				values.Add(name, f.AttrOr("value", ""))
			}
		}
	})
	return values
}
