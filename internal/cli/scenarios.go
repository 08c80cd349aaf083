package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/runner"
	"github.com/themizzi/storefront-e2e/internal/scenario"
	"github.com/themizzi/storefront-e2e/internal/session"
)

// ErrScenariosFailed is returned by RunScenarios when any scenario failed or
// errored. Skips do not count.
var ErrScenariosFailed = errors.New("scenarios failed")

// RunDependencies is what the run command needs besides configuration.
type RunDependencies struct {
	Config   *config.Config
	Opener   runner.Opener
	Recorder runner.RunRecorder
	Data     *fixtures.Generator
	Out      io.Writer
	Log      *zap.Logger
}

// RunScenarios selects scenarios by name and tag, runs them and prints a
// summary to deps.Out.
func RunScenarios(ctx context.Context, deps RunDependencies, names, tags []string) (*models.RunSummary, error) {
	selected, err := scenario.Select(names, tags)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no scenarios match tags %s", strings.Join(tags, ", "))
	}

	cfg := deps.Config
	r := runner.New(deps.Opener, deps.Recorder, session.NewCapturer(cfg.Browser.CaptureDir, deps.Log), runner.Options{
		Target:   cfg.Target,
		Timeout:  cfg.Browser.DefaultTimeout,
		Parallel: cfg.Browser.Parallel,
		Data:     deps.Data,
	}, deps.Log)

	summary, runErr := r.Run(ctx, selected)
	if err := runner.WriteSummary(deps.Out, summary); err != nil {
		return summary, err
	}
	if runErr != nil {
		return summary, runErr
	}
	if !summary.OK() {
		return summary, fmt.Errorf("%w: %d failed, %d errored", ErrScenariosFailed,
			summary.Count(models.RunStatusFailed), summary.Count(models.RunStatusErrored))
	}
	return summary, nil
}

// ListScenarios prints the scenarios carrying any of tags, or all of them.
func ListScenarios(w io.Writer, tags []string) error {
	selected, err := scenario.Select(nil, tags)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTAGS\tDESCRIPTION")
	for _, s := range selected {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, strings.Join(s.Tags, ","), s.Description)
	}
	return tw.Flush()
}

// FlakyFinder reports scenarios whose outcome changed across recent runs.
type FlakyFinder interface {
	FlakyScenarios(ctx context.Context, limit int) ([]string, error)
}

// ListFlaky prints the scenarios that both passed and failed across the most
// recent recorded suite runs, with their tags. Names no longer registered
// are marked retired.
func ListFlaky(ctx context.Context, w io.Writer, finder FlakyFinder, runs int) error {
	if runs <= 0 {
		return fmt.Errorf("flaky window must be positive, got %d", runs)
	}
	names, err := finder.FlakyScenarios(ctx, runs)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		_, err := fmt.Fprintf(w, "no flaky scenarios in the last %d runs\n", runs)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTAGS")
	for _, name := range names {
		tags := "(retired)"
		if s, ok := scenario.Lookup(name); ok {
			tags = strings.Join(s.Tags, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, tags)
	}
	return tw.Flush()
}

// fixtureSet is what the fixtures command prints.
type fixtureSet struct {
	Registration     fixtures.Registration       `json:"registration"`
	Guest            fixtures.GuestCheckout      `json:"guest_checkout"`
	RegisteredUser   fixtures.RegisteredUser     `json:"registered_user"`
	RegisteredOrder  fixtures.RegisteredCheckout `json:"registered_checkout"`
	MultipleProducts fixtures.MultipleProducts   `json:"multiple_products"`
	Contact          fixtures.ContactInquiry     `json:"contact_inquiry"`
}

// PrintFixtures writes count generated registrations alongside the fixed
// records as indented JSON.
func PrintFixtures(w io.Writer, gen *fixtures.Generator, count int) error {
	if count <= 0 {
		count = 1
	}
	sets := make([]fixtureSet, 0, count)
	for range count {
		sets = append(sets, fixtureSet{
			Registration:     gen.Registration(),
			Guest:            fixtures.GuestCheckoutData(),
			RegisteredUser:   fixtures.RegisteredUserData(),
			RegisteredOrder:  fixtures.RegisteredCheckoutData(),
			MultipleProducts: fixtures.MultipleProductsData(),
			Contact:          fixtures.ContactInquiryData(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sets)
}
