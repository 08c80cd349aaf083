package browsertest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

type stepKind int

const (
	stepFind stepKind = iota
	stepFilter
	stepFirst
	stepNth
)

type step struct {
	kind     stepKind
	selector string
	text     string
	index    int
}

type requirement int

const (
	needVisible requirement = 1 << iota
	needEnabled
)

// element is a lazy query: every operation replays its steps against the
// tab's current document.
type element struct {
	tab   *Tab
	steps []step
}

var _ browser.Element = (*element)(nil)

func (e *element) with(s step) *element {
	steps := append(append([]step(nil), e.steps...), s)
	return &element{tab: e.tab, steps: steps}
}

func (e *element) String() string {
	parts := make([]string, 0, len(e.steps))
	for _, s := range e.steps {
		switch s.kind {
		case stepFind:
			p := s.selector
			if s.text != "" {
				p += fmt.Sprintf(" has-text(%q)", s.text)
			}
			parts = append(parts, p)
		case stepFilter:
			parts = append(parts, fmt.Sprintf("has-text(%q)", s.text))
		case stepFirst:
			parts = append(parts, "first")
		case stepNth:
			parts = append(parts, fmt.Sprintf("nth=%d", s.index))
		}
	}
	return strings.Join(parts, " >> ")
}

// query must be called with tab.mu held.
func (e *element) query() *goquery.Selection {
	sel := e.tab.doc.Selection
	for _, s := range e.steps {
		switch s.kind {
		case stepFind:
			sel = sel.Find(s.selector)
			if s.text != "" {
				sel = filterText(sel, s.text)
			}
		case stepFilter:
			sel = filterText(sel, s.text)
		case stepFirst:
			sel = sel.First()
		case stepNth:
			sel = sel.Eq(s.index)
		}
	}
	return sel
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func filterText(sel *goquery.Selection, text string) *goquery.Selection {
	want := strings.ToLower(normalize(text))
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(normalize(s.Text())), want)
	})
}

func describe(s *goquery.Selection) string {
	if id, ok := s.Attr("id"); ok && id != "" {
		return "#" + id
	}
	tag := goquery.NodeName(s)
	if name, ok := s.Attr("name"); ok && name != "" {
		return fmt.Sprintf("%s[name=%s]", tag, name)
	}
	text := normalize(s.Text())
	if len(text) > 40 {
		text = text[:40]
	}
	if text != "" {
		return fmt.Sprintf("%s %q", tag, text)
	}
	return tag
}

func visible(s *goquery.Selection) bool {
	if s.Length() == 0 {
		return false
	}
	node := s.First()
	if goquery.NodeName(node) == "input" && strings.EqualFold(node.AttrOr("type", ""), "hidden") {
		return false
	}
	for cur := node; cur.Length() > 0; cur = cur.Parent() {
		switch goquery.NodeName(cur) {
		case "head", "script", "style", "title", "template":
			return false
		}
		if _, ok := cur.Attr("hidden"); ok {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(cur.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

func enabled(s *goquery.Selection) bool {
	_, disabled := s.Attr("disabled")
	return !disabled
}

func inputType(s *goquery.Selection) string {
	return strings.ToLower(s.AttrOr("type", "text"))
}

func inputValue(s *goquery.Selection) (string, error) {
	switch goquery.NodeName(s) {
	case "input":
		return s.AttrOr("value", ""), nil
	case "textarea":
		return s.Text(), nil
	case "select":
		opt := selectedOption(s)
		return opt.AttrOr("value", normalize(opt.Text())), nil
	}
	return "", errors.New("element is not an <input>, <textarea> or <select>")
}

func selectedOption(s *goquery.Selection) *goquery.Selection {
	opt := s.Find("option[selected]").First()
	if opt.Length() == 0 {
		opt = s.Find("option").First()
	}
	return opt
}

func setValue(s *goquery.Selection, value string) error {
	if _, ok := s.Attr("readonly"); ok {
		return errors.New("element is readonly")
	}
	switch goquery.NodeName(s) {
	case "textarea":
		s.SetText(value)
		return nil
	case "input":
		switch typ := inputType(s); typ {
		case "checkbox", "radio", "submit", "button", "image", "reset", "file":
			return fmt.Errorf("input of type %q cannot be filled", typ)
		}
		s.SetAttr("value", value)
		return nil
	}
	return errors.New("element is not an <input> or <textarea>")
}

// act waits until the query resolves to exactly one element meeting need,
// then runs fn on it with the tab locked.
func (e *element) act(timeout time.Duration, need requirement, fn func(node *goquery.Selection) error) error {
	var (
		fnErr   error
		problem = "no element matches"
	)
	ok := e.tab.poll(timeout, func() bool {
		sel := e.query()
		switch {
		case sel.Length() == 0:
			problem = "no element matches"
			return false
		case sel.Length() > 1:
			fnErr = fmt.Errorf("strict mode violation: %s resolved to %d elements", e, sel.Length())
			return true
		}
		if need&needVisible != 0 && !visible(sel) {
			problem = "element is not visible"
			return false
		}
		if need&needEnabled != 0 && !enabled(sel) {
			problem = "element is not enabled"
			return false
		}
		fnErr = fn(sel)
		return true
	})
	if !ok {
		return fmt.Errorf("%w after %s: %s: %s", browser.ErrTimeout, timeout, e, problem)
	}
	if fnErr != nil {
		return fmt.Errorf("%s: %w", e, fnErr)
	}
	return nil
}

func (e *element) Locator(selector, hasText string) browser.Element {
	return e.with(step{kind: stepFind, selector: selector, text: hasText})
}

func (e *element) Filter(hasText string) browser.Element {
	return e.with(step{kind: stepFilter, text: hasText})
}

func (e *element) First() browser.Element { return e.with(step{kind: stepFirst}) }

func (e *element) Nth(index int) browser.Element {
	return e.with(step{kind: stepNth, index: index})
}

func (e *element) Count() (int, error) {
	e.tab.mu.Lock()
	defer e.tab.mu.Unlock()
	return e.query().Length(), nil
}

func (e *element) Click(timeout time.Duration) error {
	var plan activation
	err := e.act(timeout, needVisible|needEnabled, func(node *goquery.Selection) error {
		e.tab.record("click %s", describe(node))
		plan = e.tab.activation(node)
		return nil
	})
	if err != nil {
		return err
	}
	return plan.run(e.tab)
}

func (e *element) Fill(value string, timeout time.Duration) error {
	return e.act(timeout, needVisible|needEnabled, func(node *goquery.Selection) error {
		e.tab.record("fill %s", describe(node))
		return setValue(node, value)
	})
}

func (e *element) Type(text string, delay, timeout time.Duration) error {
	for _, r := range text {
		err := e.act(timeout, needVisible|needEnabled, func(node *goquery.Selection) error {
			current, err := inputValue(node)
			if err != nil {
				return err
			}
			return setValue(node, current+string(r))
		})
		if err != nil {
			return err
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	e.tab.mu.Lock()
	e.tab.record("type %s %q", e, text)
	e.tab.mu.Unlock()
	return nil
}

func (e *element) Press(key string, timeout time.Duration) error {
	var plan activation
	err := e.act(timeout, needVisible, func(node *goquery.Selection) error {
		e.tab.record("press %s %s", key, describe(node))
		if key != "Enter" {
			return nil
		}
		switch goquery.NodeName(node) {
		case "input":
			form := node.Closest("form")
			if form.Length() == 0 {
				return nil
			}
			submitter := form.Find("button[type='submit'], button:not([type]), input[type='submit']").First()
			req := e.tab.formRequest(form, submitter)
			plan = activation{submit: &req}
		case "a", "button":
			plan = e.tab.activation(node)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return plan.run(e.tab)
}

func (e *element) SelectOption(label string, timeout time.Duration) error {
	return e.act(timeout, needVisible|needEnabled, func(node *goquery.Selection) error {
		if goquery.NodeName(node) != "select" {
			return errors.New("element is not a <select> element")
		}
		options := node.Find("option")
		match := options.FilterFunction(func(_ int, o *goquery.Selection) bool {
			return normalize(o.Text()) == label || o.AttrOr("value", "") == label
		}).First()
		if match.Length() == 0 {
			return fmt.Errorf("option %q not found", label)
		}
		options.RemoveAttr("selected")
		match.SetAttr("selected", "selected")
		e.tab.record("select %s %q", describe(node), label)
		return nil
	})
}

func (e *element) Check(timeout time.Duration) error {
	return e.act(timeout, needVisible|needEnabled, func(node *goquery.Selection) error {
		switch inputType(node) {
		case "checkbox":
			node.SetAttr("checked", "checked")
		case "radio":
			e.tab.checkRadio(node)
		default:
			return errors.New("not a checkbox or radio button")
		}
		e.tab.record("check %s", describe(node))
		return nil
	})
}

func (e *element) Uncheck(timeout time.Duration) error {
	return e.act(timeout, needVisible|needEnabled, func(node *goquery.Selection) error {
		if inputType(node) != "checkbox" {
			return errors.New("cannot uncheck a non-checkbox element")
		}
		node.RemoveAttr("checked")
		e.tab.record("uncheck %s", describe(node))
		return nil
	})
}

func (e *element) Hover(timeout time.Duration) error {
	return e.act(timeout, needVisible, func(node *goquery.Selection) error {
		e.tab.record("hover %s", describe(node))
		return nil
	})
}

func (e *element) ScrollIntoView(timeout time.Duration) error {
	return e.act(timeout, needVisible, func(node *goquery.Selection) error {
		e.tab.record("scroll %s", describe(node))
		return nil
	})
}

func (e *element) TextContent(timeout time.Duration) (string, error) {
	var text string
	err := e.act(timeout, 0, func(node *goquery.Selection) error {
		text = node.Text()
		return nil
	})
	return text, err
}

func (e *element) Attribute(name string, timeout time.Duration) (string, error) {
	var value string
	err := e.act(timeout, 0, func(node *goquery.Selection) error {
		value = node.AttrOr(name, "")
		return nil
	})
	return value, err
}

func (e *element) InputValue(timeout time.Duration) (string, error) {
	var value string
	err := e.act(timeout, 0, func(node *goquery.Selection) error {
		v, err := inputValue(node)
		value = v
		return err
	})
	return value, err
}

func (e *element) IsVisible() (bool, error) {
	e.tab.mu.Lock()
	defer e.tab.mu.Unlock()
	sel := e.query()
	if sel.Length() > 1 {
		return false, fmt.Errorf("strict mode violation: %s resolved to %d elements", e, sel.Length())
	}
	return visible(sel), nil
}

func (e *element) IsEnabled(timeout time.Duration) (bool, error) {
	var ok bool
	err := e.act(timeout, 0, func(node *goquery.Selection) error {
		ok = enabled(node)
		return nil
	})
	return ok, err
}

func (e *element) IsChecked(timeout time.Duration) (bool, error) {
	var checked bool
	err := e.act(timeout, 0, func(node *goquery.Selection) error {
		switch inputType(node) {
		case "checkbox", "radio":
			_, checked = node.Attr("checked")
			return nil
		}
		return errors.New("not a checkbox or radio button")
	})
	return checked, err
}

func (e *element) WaitFor(state browser.State, timeout time.Duration) error {
	var strictErr error
	ok := e.tab.poll(timeout, func() bool {
		sel := e.query()
		n := sel.Length()
		if n > 1 && (state == browser.StateVisible || state == browser.StateAttached) {
			strictErr = fmt.Errorf("strict mode violation: %s resolved to %d elements", e, n)
			return true
		}
		switch state {
		case browser.StateHidden:
			return n == 0 || !visible(sel)
		case browser.StateAttached:
			return n == 1
		case browser.StateDetached:
			return n == 0
		default:
			return n == 1 && visible(sel)
		}
	})
	if strictErr != nil {
		return strictErr
	}
	if !ok {
		return fmt.Errorf("%w after %s: waiting for %s to be %s", browser.ErrTimeout, timeout, e, state)
	}
	return nil
}
