// Package ledger records batch runs and their per object outcomes in a
// SQL database.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	StatusSucceeded = "succeeded"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		command    TEXT NOT NULL,
		werkpakket TEXT NOT NULL,
		started    TIMESTAMP NOT NULL,
		finished   TIMESTAMP,
		succeeded  INTEGER NOT NULL DEFAULT 0,
		skipped    INTEGER NOT NULL DEFAULT 0,
		failed     INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		run_id   TEXT NOT NULL REFERENCES runs(id),
		seq      INTEGER NOT NULL,
		object   TEXT NOT NULL,
		status   TEXT NOT NULL,
		message  TEXT NOT NULL DEFAULT '',
		recorded TIMESTAMP NOT NULL
	)`,
}

// Ledger is a run ledger. A nil *Ledger records nothing.
type Ledger struct {
	db       *sql.DB
	postgres bool
}

// Open opens the ledger at dsn: a postgres:// or postgresql:// URL for
// PostgreSQL, anything else is a SQLite file name.
func Open(ctx context.Context, dsn string) (*Ledger, error) {
	l := &Ledger{postgres: strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")}
	driver := "sqlite"
	if l.postgres {
		driver = "postgres"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	l.db = db
	if !l.postgres {
		for _, pragma := range []string{"PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=10000"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("open ledger: %w", err)
			}
		}
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create ledger schema: %w", err)
		}
	}
	return l, nil
}

func (l *Ledger) Close() error {
	if l == nil {
		return nil
	}
	return l.db.Close()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (l *Ledger) rebind(query string) string {
	if !l.postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

func (l *Ledger) exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := l.db.ExecContext(ctx, l.rebind(query), args...)
	return err
}

// Run is a batch run being recorded.
type Run struct {
	l   *Ledger
	ID  string
	seq int
}

// StartRun records the start of a run and returns it. On a nil Ledger
// it returns a nil Run.
func (l *Ledger) StartRun(ctx context.Context, command, werkpakket string, now time.Time) (*Run, error) {
	if l == nil {
		return nil, nil
	}
	id := command + "-" + now.UTC().Format("20060102T150405.000000000")
	if err := l.exec(ctx, `INSERT INTO runs (id, command, werkpakket, started) VALUES (?, ?, ?, ?)`,
		id, command, werkpakket, now.UTC()); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	return &Run{l: l, ID: id}, nil
}

// Record stores the outcome for one object.
func (r *Run) Record(ctx context.Context, object, status, message string) error {
	if r == nil {
		return nil
	}
	r.seq++
	if err := r.l.exec(ctx, `INSERT INTO results (run_id, seq, object, status, message, recorded) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.seq, object, status, message, time.Now().UTC()); err != nil {
		return fmt.Errorf("record %s: %w", object, err)
	}
	return nil
}

// Finish stores the run totals.
func (r *Run) Finish(ctx context.Context, succeeded, skipped, failed int) error {
	if r == nil {
		return nil
	}
	if err := r.l.exec(ctx, `UPDATE runs SET finished = ?, succeeded = ?, skipped = ?, failed = ? WHERE id = ?`,
		time.Now().UTC(), succeeded, skipped, failed, r.ID); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Result is a recorded object outcome.
type Result struct {
	Object  string
	Status  string
	Message string
}

// Results returns the outcomes recorded for a run, in recording order.
func (l *Ledger) Results(ctx context.Context, runID string) ([]Result, error) {
	rows, err := l.db.QueryContext(ctx, l.rebind(`SELECT object, status, message FROM results WHERE run_id = ? ORDER BY seq`), runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Object, &r.Status, &r.Message); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// LastFailed returns the objects that failed in the most recent
// finished run of command.
func (l *Ledger) LastFailed(ctx context.Context, command string) ([]string, error) {
	var id string
	err := l.db.QueryRowContext(ctx, l.rebind(`SELECT id FROM runs WHERE command = ? AND finished IS NOT NULL ORDER BY started DESC LIMIT 1`), command).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	results, err := l.Results(ctx, id)
	if err != nil {
		return nil, err
	}
	var failed []string
	for _, r := range results {
		if r.Status == StatusFailed {
			failed = append(failed, r.Object)
		}
	}
	return failed, nil
}
