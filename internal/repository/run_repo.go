package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/themizzi/storefront-e2e/internal/models"
)

// RunRepository stores scenario results in the scenario_runs table.
type RunRepository struct {
	db *sql.DB
}

func NewRunRepositoryWithDB(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveScenarioRun inserts one scenario result.
func (r *RunRepository) SaveScenarioRun(ctx context.Context, run models.ScenarioRun) error {
	query := `
		INSERT INTO scenario_runs (id, run_id, scenario, tags, status, message, screenshot, html, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.RunID,
		run.Scenario,
		pq.Array(run.Tags),
		run.Status,
		run.Message,
		run.Screenshot,
		run.HTML,
		run.StartedAt,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to save scenario run %s: %w", run.Scenario, err)
	}
	return nil
}

// ListRun returns the results of one suite run ordered by start time.
func (r *RunRepository) ListRun(ctx context.Context, runID string) (*models.RunSummary, error) {
	query := `
		SELECT id, run_id, scenario, tags, status, message, screenshot, html, started_at, duration_ms
		FROM scenario_runs
		WHERE run_id = $1
		ORDER BY started_at, scenario
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run %s: %w", runID, err)
	}
	defer rows.Close()

	summary := &models.RunSummary{RunID: runID}
	for rows.Next() {
		var run models.ScenarioRun
		var tags []string
		var ms int64
		if err := rows.Scan(&run.ID, &run.RunID, &run.Scenario, pq.Array(&tags), &run.Status,
			&run.Message, &run.Screenshot, &run.HTML, &run.StartedAt, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan scenario run: %w", err)
		}
		run.Tags = tags
		run.Duration = time.Duration(ms) * time.Millisecond
		summary.Results = append(summary.Results, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list run %s: %w", runID, err)
	}
	return summary, nil
}

// FlakyScenarios names scenarios that both passed and failed across the
// most recent limit runs.
func (r *RunRepository) FlakyScenarios(ctx context.Context, limit int) ([]string, error) {
	query := `
		WITH recent AS (
			SELECT run_id FROM scenario_runs
			GROUP BY run_id
			ORDER BY MAX(started_at) DESC
			LIMIT $1
		)
		SELECT scenario
		FROM scenario_runs
		WHERE run_id IN (SELECT run_id FROM recent)
		GROUP BY scenario
		HAVING COUNT(DISTINCT status) FILTER (WHERE status IN ('passed', 'failed')) > 1
		ORDER BY scenario
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query flaky scenarios: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, strings.TrimSpace(name))
	}
	return names, rows.Err()
}

// MemoryRunRepository keeps scenario results in process for runs without a
// database.
type MemoryRunRepository struct {
	mu   sync.Mutex
	runs []models.ScenarioRun
}

func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{}
}

func (r *MemoryRunRepository) SaveScenarioRun(_ context.Context, run models.ScenarioRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run.Tags = append([]string(nil), run.Tags...)
	r.runs = append(r.runs, run)
	return nil
}

// ListRun returns the results of one suite run ordered by start time, then
// scenario name.
func (r *MemoryRunRepository) ListRun(_ context.Context, runID string) (*models.RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &models.RunSummary{RunID: runID}
	for _, run := range r.runs {
		if run.RunID == runID {
			summary.Results = append(summary.Results, run)
		}
	}
	sort.SliceStable(summary.Results, func(i, j int) bool {
		a, b := summary.Results[i], summary.Results[j]
		if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.Before(b.StartedAt)
		}
		return a.Scenario < b.Scenario
	})
	return summary, nil
}

// FlakyScenarios is the in-memory counterpart of RunRepository.FlakyScenarios.
func (r *MemoryRunRepository) FlakyScenarios(_ context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	latest := map[string]time.Time{}
	for _, run := range r.runs {
		if t, ok := latest[run.RunID]; !ok || run.StartedAt.After(t) {
			latest[run.RunID] = run.StartedAt
		}
	}
	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return latest[ids[i]].After(latest[ids[j]]) })
	if limit < len(ids) {
		ids = ids[:limit]
	}
	recent := map[string]bool{}
	for _, id := range ids {
		recent[id] = true
	}

	outcomes := map[string]map[models.RunStatus]bool{}
	for _, run := range r.runs {
		if !recent[run.RunID] || (run.Status != models.RunStatusPassed && run.Status != models.RunStatusFailed) {
			continue
		}
		if outcomes[run.Scenario] == nil {
			outcomes[run.Scenario] = map[models.RunStatus]bool{}
		}
		outcomes[run.Scenario][run.Status] = true
	}
	var names []string
	for name, seen := range outcomes {
		if len(seen) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
