package pages

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

// ErrFallbackExhausted means none of the candidate elements became visible
// and no alternate action was available.
var ErrFallbackExhausted = errors.New("no candidate element was visible")

// Match is the candidate FirstVisible settled on.
type Match struct {
	Index   int
	Ref     browser.Ref
	Element browser.Element
}

// FirstVisible tries candidates in order, giving each up to per to become
// visible, and returns the first one that does. A zero per uses the base's
// candidate timeout.
func FirstVisible(b *Base, candidates []browser.Ref, per time.Duration) (Match, bool) {
	if per <= 0 {
		per = b.candidateTimeout
	}
	for i, c := range candidates {
		el := b.Resolve(c).First()
		if err := el.WaitFor(browser.StateVisible, per); err == nil {
			b.log.Debug("fallback candidate matched", zap.Int("index", i), zap.Stringer("ref", c))
			return Match{Index: i, Ref: c, Element: el}, true
		}
	}
	return Match{}, false
}

// ClickFirst clicks the first visible candidate. When none is visible it runs
// alternate, if given, and otherwise fails with ErrFallbackExhausted.
func (b *Base) ClickFirst(candidates []browser.Ref, alternate func() error) error {
	if m, ok := FirstVisible(b, candidates, 0); ok {
		if err := m.Element.Click(b.timeout); err != nil {
			return fmt.Errorf("click %s: %w", m.Ref, err)
		}
		return nil
	}
	if alternate != nil {
		b.log.Debug("no candidate visible, running alternate action")
		return alternate()
	}
	return fmt.Errorf("%w: %s", ErrFallbackExhausted, describeCandidates(candidates))
}

func describeCandidates(candidates []browser.Ref) string {
	return strings.Join(lo.Map(candidates, func(r browser.Ref, _ int) string { return r.String() }), " | ")
}
