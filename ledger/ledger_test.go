package ledger

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLedger(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	run, err := l.StartRun(ctx, "bijlage9", "WP1", start)
	if err != nil {
		t.Fatal(err)
	}
	if run.ID != "bijlage9-20240301T093000.000000000" {
		t.Errorf("got id %q", run.ID)
	}
	for _, r := range []Result{
		{"30F-310-02", StatusSucceeded, ""},
		{"30F-310-01", StatusFailed, "missing file"},
		{"30F-310-03", StatusSkipped, "output exists"},
	} {
		if err := run.Record(ctx, r.Object, r.Status, r.Message); err != nil {
			t.Fatal(err)
		}
	}
	if err := run.Finish(ctx, 1, 1, 1); err != nil {
		t.Fatal(err)
	}

	res, err := l.Results(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	exp := []Result{
		{"30F-310-02", StatusSucceeded, ""},
		{"30F-310-01", StatusFailed, "missing file"},
		{"30F-310-03", StatusSkipped, "output exists"},
	}
	if !reflect.DeepEqual(res, exp) {
		t.Errorf("got %v, expected %v", res, exp)
	}

	failed, err := l.LastFailed(ctx, "bijlage9")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(failed, []string{"30F-310-01"}) {
		t.Errorf("got failed %v", failed)
	}

	// An unfinished later run is not considered.
	if _, err := l.StartRun(ctx, "bijlage9", "WP1", start.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	failed, err = l.LastFailed(ctx, "bijlage9")
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 {
		t.Errorf("got failed %v", failed)
	}

	failed, err = l.LastFailed(ctx, "combine")
	if err != nil || failed != nil {
		t.Errorf("got %v, %v for command without runs", failed, err)
	}
}

func TestNilLedger(t *testing.T) {
	var l *Ledger
	run, err := l.StartRun(context.Background(), "pi", "WP1", time.Now())
	if err != nil || run != nil {
		t.Fatalf("got %v, %v", run, err)
	}
	if err := run.Record(context.Background(), "30F-310-01", StatusFailed, "x"); err != nil {
		t.Error(err)
	}
	if err := run.Finish(context.Background(), 0, 0, 1); err != nil {
		t.Error(err)
	}
	if err := l.Close(); err != nil {
		t.Error(err)
	}
}

func TestRebind(t *testing.T) {
	pg := &Ledger{postgres: true}
	if res := pg.rebind("UPDATE runs SET a = ?, b = ? WHERE id = ?"); res != "UPDATE runs SET a = $1, b = $2 WHERE id = $3" {
		t.Errorf("got %q", res)
	}
	lite := &Ledger{}
	if res := lite.rebind("SELECT ?"); res != "SELECT ?" {
		t.Errorf("got %q", res)
	}
}
