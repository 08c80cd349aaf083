// Package scenario holds the storefront user journeys as named, tagged
// scripts over the page objects. Each scenario gets its own tab and
// configuration through Env and never reads the process environment.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/browser"
	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
	"github.com/themizzi/storefront-e2e/internal/pages"
)

const (
	TagSmoke      = "smoke"
	TagRegression = "regression"
	TagE2E        = "e2e"
)

// ErrSkipped marks a scenario that chose not to run, e.g. for lack of
// credentials. It is not a failure.
var ErrSkipped = errors.New("scenario skipped")

// Skip returns an ErrSkipped carrying reason.
func Skip(reason string) error {
	return fmt.Errorf("%w: %s", ErrSkipped, reason)
}

// Env is what a scenario runs against.
type Env struct {
	Tab     browser.Tab
	Target  config.TargetConfig
	Timeout time.Duration
	Log     *zap.Logger
	Data    *fixtures.Generator
}

// Site builds fresh page objects over the env's tab.
func (e Env) Site() *pages.Site {
	opts := []pages.Option{pages.WithLogger(e.logger())}
	if e.Timeout > 0 {
		opts = append(opts, pages.WithDefaultTimeout(e.Timeout))
	}
	return pages.NewSite(pages.NewBase(e.Tab, e.Target.BaseURL, opts...))
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e Env) data() *fixtures.Generator {
	if e.Data == nil {
		return fixtures.NewGenerator(0)
	}
	return e.Data
}

// Scenario is one user journey.
type Scenario struct {
	Name        string
	Description string
	Tags        []string
	Run         func(ctx context.Context, env Env) error
}

// HasTag reports whether s carries any of tags.
func (s Scenario) HasTag(tags ...string) bool {
	return lo.Some(s.Tags, tags)
}

// flow runs a scenario's steps in order and remembers the first failure;
// later steps are skipped once one has failed.
type flow struct {
	ctx  context.Context
	log  *zap.Logger
	site *pages.Site
	err  error
}

func (e Env) flow(ctx context.Context, name string) *flow {
	return &flow{ctx: ctx, log: e.logger().With(zap.String("scenario", name)), site: e.Site()}
}

func (f *flow) step(name string, fn func() error) {
	if f.err != nil {
		return
	}
	if err := f.ctx.Err(); err != nil {
		f.err = err
		return
	}
	start := time.Now()
	f.log.Info("step", zap.String("step", name))
	if err := fn(); err != nil {
		f.err = fmt.Errorf("%s: %w", name, err)
		f.log.Warn("step failed", zap.String("step", name), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	f.log.Debug("step passed", zap.String("step", name), zap.Duration("elapsed", time.Since(start)))
}

// check turns a false condition into a step failure.
func check(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format, args...)
}
