// Package runner executes scenarios against a target storefront, each in
// its own browser session, and records how every one of them ended.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/scenario"
	"github.com/themizzi/storefront-e2e/internal/session"
)

// Opener hands out a fresh session per scenario.
type Opener interface {
	Open(name string) (*session.Session, error)
}

// RunRecorder persists scenario results.
type RunRecorder interface {
	SaveScenarioRun(ctx context.Context, run models.ScenarioRun) error
}

type Options struct {
	Target   config.TargetConfig
	Timeout  time.Duration
	Parallel int
	Data     *fixtures.Generator
}

type Runner struct {
	opener   Opener
	recorder RunRecorder
	capturer *session.Capturer
	opts     Options
	log      *zap.Logger
}

// New builds a runner. recorder and capturer may be nil to skip recording
// and failure captures.
func New(opener Opener, recorder RunRecorder, capturer *session.Capturer, opts Options, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if opts.Data == nil {
		opts.Data = fixtures.NewGenerator(0)
	}
	return &Runner{opener: opener, recorder: recorder, capturer: capturer, opts: opts, log: log}
}

// Run executes scenarios with at most Parallel in flight. A failing scenario
// never stops the others. Results keep the order of scenarios. The error is
// non-nil only when results could not be recorded.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) (*models.RunSummary, error) {
	runID := uuid.NewString()
	log := r.log.With(zap.String("run", runID))
	log.Info("run started", zap.Int("scenarios", len(scenarios)), zap.Int("parallel", r.opts.Parallel))

	results := make([]models.ScenarioRun, len(scenarios))
	recordErrs := make([]error, len(scenarios))

	var g errgroup.Group
	g.SetLimit(r.opts.Parallel)
	for i, s := range scenarios {
		g.Go(func() error {
			results[i] = r.runOne(ctx, runID, s, log)
			if r.recorder != nil {
				recordErrs[i] = r.recorder.SaveScenarioRun(ctx, results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := &models.RunSummary{RunID: runID, Results: results}
	log.Info("run finished",
		zap.Int("passed", summary.Count(models.RunStatusPassed)),
		zap.Int("failed", summary.Count(models.RunStatusFailed)),
		zap.Int("errored", summary.Count(models.RunStatusErrored)),
		zap.Int("skipped", summary.Count(models.RunStatusSkipped)))

	if err := errors.Join(recordErrs...); err != nil {
		return summary, fmt.Errorf("failed to record results: %w", err)
	}
	return summary, nil
}

func (r *Runner) runOne(ctx context.Context, runID string, s scenario.Scenario, runLog *zap.Logger) models.ScenarioRun {
	log := runLog.With(zap.String("scenario", s.Name))
	result := models.ScenarioRun{
		ID:        uuid.NewString(),
		RunID:     runID,
		Scenario:  s.Name,
		Tags:      s.Tags,
		StartedAt: time.Now(),
	}

	sess, err := r.opener.Open(s.Name)
	if err != nil {
		result.Status = models.RunStatusErrored
		result.Message = err.Error()
		log.Error("session failed", zap.Error(err))
		return finish(result)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("failed to close session", zap.Error(err))
		}
	}()

	env := scenario.Env{
		Tab:     sess.Tab,
		Target:  r.opts.Target,
		Timeout: r.opts.Timeout,
		Log:     runLog,
		Data:    r.opts.Data,
	}
	status, err := execute(ctx, s, env)
	result.Status = status
	if err != nil {
		result.Message = err.Error()
	}

	switch status {
	case models.RunStatusPassed:
		log.Info("scenario passed")
	case models.RunStatusSkipped:
		log.Info("scenario skipped", zap.String("reason", result.Message))
	default:
		log.Error("scenario "+string(status), zap.Error(err))
		if r.capturer != nil {
			c := r.capturer.CaptureOnFailure(sess.Tab, s.Name, err)
			result.Screenshot, result.HTML = c.Screenshot, c.HTML
		}
	}
	return finish(result)
}

func finish(result models.ScenarioRun) models.ScenarioRun {
	result.Duration = time.Since(result.StartedAt)
	return result
}

// execute runs s and classifies the outcome. A panic is an error in the
// scenario itself, not a failed check.
func execute(ctx context.Context, s scenario.Scenario, env scenario.Env) (status models.RunStatus, err error) {
	defer func() {
		if p := recover(); p != nil {
			status = models.RunStatusErrored
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()

	err = s.Run(ctx, env)
	switch {
	case err == nil:
		return models.RunStatusPassed, nil
	case errors.Is(err, scenario.ErrSkipped):
		return models.RunStatusSkipped, err
	default:
		return models.RunStatusFailed, err
	}
}
