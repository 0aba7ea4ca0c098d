package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/lvmarkov/simulate"
)

// ErrInvalidRun indicates a run whose data does not match its state list.
var ErrInvalidRun = errors.New("store: invalid run")

// Run is one stored simulation. History holds a single trajectory and
// Bands an ensemble summary; either may be nil, not both.
type Run struct {
	ID        int64
	CreatedAt time.Time
	Name      string
	Strategy  string
	Seed      uint64
	States    []string
	History   simulate.History
	Bands     *simulate.Ensemble
}

// RunSummary is a run without its cells, as listed by ListRuns.
type RunSummary struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"name"`
	Strategy     string    `json:"strategy"`
	Seed         uint64    `json:"seed"`
	States       []string  `json:"states"`
	Steps        int       `json:"steps"`
	EnsembleRuns int       `json:"ensemble_runs"`
}

func (r *Run) validate() error {
	if len(r.States) == 0 {
		return fmt.Errorf("%w: no states", ErrInvalidRun)
	}
	if r.History == nil && r.Bands == nil {
		return fmt.Errorf("%w: neither history nor bands", ErrInvalidRun)
	}
	for t, row := range r.History {
		if len(row) != len(r.States) {
			return fmt.Errorf("%w: step %d has %d counts for %d states", ErrInvalidRun, t, len(row), len(r.States))
		}
	}
	if r.Bands != nil {
		for t := range r.Bands.Mean {
			if len(r.Bands.Mean[t]) != len(r.States) ||
				len(r.Bands.Lower[t]) != len(r.States) || len(r.Bands.Upper[t]) != len(r.States) {
				return fmt.Errorf("%w: band step %d width mismatch", ErrInvalidRun, t)
			}
		}
	}

	return nil
}

func (r *Run) steps() int {
	n := len(r.History)
	if r.Bands != nil && len(r.Bands.Mean) > n {
		n = len(r.Bands.Mean)
	}

	return n - 1
}

// SaveRun stores r in one transaction and returns its id. A zero
// CreatedAt is set to the current time.
func (d *DB) SaveRun(ctx context.Context, r Run) (int64, error) {
	if err := r.validate(); err != nil {
		return 0, err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	statesJSON, err := json.Marshal(r.States)
	if err != nil {
		return 0, err
	}
	ensembleRuns, lowerQ, upperQ := 1, 0.0, 0.0
	if r.Bands != nil {
		ensembleRuns, lowerQ, upperQ = r.Bands.Runs, r.Bands.LowerQ, r.Bands.UpperQ
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, name, strategy, seed, states_json, steps, ensemble_runs, lower_q, upper_q)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CreatedAt.Format(time.RFC3339Nano), r.Name, r.Strategy, int64(r.Seed),
		string(statesJSON), r.steps(), ensembleRuns, lowerQ, upperQ,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(r.History) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO run_counts (run_id, step, state, count) VALUES (?, ?, ?, ?)")
		if err != nil {
			return 0, err
		}
		defer stmt.Close()
		for t, row := range r.History {
			for i, c := range row {
				if _, err = stmt.ExecContext(ctx, id, t, i, c); err != nil {
					return 0, fmt.Errorf("insert counts: %w", err)
				}
			}
		}
	}

	if r.Bands != nil {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO run_bands (run_id, step, state, mean, lower, upper) VALUES (?, ?, ?, ?, ?, ?)")
		if err != nil {
			return 0, err
		}
		defer stmt.Close()
		b := r.Bands
		for t := range b.Mean {
			for i := range b.Mean[t] {
				if _, err = stmt.ExecContext(ctx, id, t, i, b.Mean[t][i], b.Lower[t][i], b.Upper[t][i]); err != nil {
					return 0, fmt.Errorf("insert bands: %w", err)
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return id, nil
}

const summaryColumns = `id, created_at, name, strategy, seed, states_json, steps, ensemble_runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (RunSummary, error) {
	var (
		s          RunSummary
		created    string
		seed       int64
		statesJSON string
	)
	if err := row.Scan(&s.ID, &created, &s.Name, &s.Strategy, &seed, &statesJSON, &s.Steps, &s.EnsembleRuns); err != nil {
		return s, err
	}
	s.Seed = uint64(seed)
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return s, fmt.Errorf("run %d created_at: %w", s.ID, err)
	}
	s.CreatedAt = t
	if err = json.Unmarshal([]byte(statesJSON), &s.States); err != nil {
		return s, fmt.Errorf("run %d states: %w", s.ID, err)
	}

	return s, nil
}

// LoadRun returns the run with the given id, including all cells.
func (d *DB) LoadRun(ctx context.Context, id int64) (*Run, error) {
	s, err := scanSummary(d.sql.QueryRowContext(ctx,
		"SELECT "+summaryColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("id %d: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	var lowerQ, upperQ float64
	if err = d.sql.QueryRowContext(ctx, "SELECT lower_q, upper_q FROM runs WHERE id = ?", id).Scan(&lowerQ, &upperQ); err != nil {
		return nil, err
	}

	r := &Run{
		ID: s.ID, CreatedAt: s.CreatedAt, Name: s.Name,
		Strategy: s.Strategy, Seed: s.Seed, States: s.States,
	}
	n := len(s.States)

	if r.History, err = d.loadCounts(ctx, id, s.Steps+1, n); err != nil {
		return nil, err
	}
	bands, err := d.loadBands(ctx, id, s.Steps+1, n)
	if err != nil {
		return nil, err
	}
	if bands != nil {
		bands.Runs, bands.Seed, bands.LowerQ, bands.UpperQ = s.EnsembleRuns, s.Seed, lowerQ, upperQ
		r.Bands = bands
	}

	return r, nil
}

func (d *DB) loadCounts(ctx context.Context, id int64, steps, n int) (simulate.History, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT step, state, count FROM run_counts WHERE run_id = ? ORDER BY step, state", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var h simulate.History
	for rows.Next() {
		var t, i, c int
		if err = rows.Scan(&t, &i, &c); err != nil {
			return nil, err
		}
		if h == nil {
			h = make(simulate.History, steps)
			for k := range h {
				h[k] = make([]int, n)
			}
		}
		if t >= steps || i >= n {
			return nil, fmt.Errorf("run %d: cell (%d, %d) outside %dx%d", id, t, i, steps, n)
		}
		h[t][i] = c
	}

	return h, rows.Err()
}

func (d *DB) loadBands(ctx context.Context, id int64, steps, n int) (*simulate.Ensemble, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT step, state, mean, lower, upper FROM run_bands WHERE run_id = ? ORDER BY step, state", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var e *simulate.Ensemble
	grid := func() [][]float64 {
		g := make([][]float64, steps)
		for k := range g {
			g[k] = make([]float64, n)
		}

		return g
	}
	for rows.Next() {
		var (
			t, i         int
			mean, lo, hi float64
		)
		if err = rows.Scan(&t, &i, &mean, &lo, &hi); err != nil {
			return nil, err
		}
		if e == nil {
			e = &simulate.Ensemble{Mean: grid(), Lower: grid(), Upper: grid()}
		}
		if t >= steps || i >= n {
			return nil, fmt.Errorf("run %d: band (%d, %d) outside %dx%d", id, t, i, steps, n)
		}
		e.Mean[t][i], e.Lower[t][i], e.Upper[t][i] = mean, lo, hi
	}

	return e, rows.Err()
}

// ListRuns returns every stored run, newest first, without cells.
func (d *DB) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+summaryColumns+" FROM runs ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RunSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// DeleteRun removes a run and its cells.
func (d *DB) DeleteRun(ctx context.Context, id int64) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM run_counts WHERE run_id = ?",
		"DELETE FROM run_bands WHERE run_id = ?",
	} {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("id %d: %w", id, ErrRunNotFound)
	}

	return tx.Commit()
}
