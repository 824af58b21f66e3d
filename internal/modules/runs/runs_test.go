package runs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"microbatch/internal/core"
	"microbatch/internal/storage"
)

type fakeStore struct {
	runs      []storage.RunRecord
	lastQuery storage.RunQuery
	before    time.Time
}

func (f *fakeStore) Open() (storage.Store, error) { return f, nil }

func (f *fakeStore) SaveRun(ctx context.Context, rec storage.RunRecord) error {
	f.runs = append(f.runs, rec)
	return nil
}

func (f *fakeStore) QueryRuns(ctx context.Context, q storage.RunQuery) ([]storage.RunRecord, error) {
	f.lastQuery = q
	return f.runs, nil
}

func (f *fakeStore) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	f.before = before
	return int64(len(f.runs)), nil
}

func (f *fakeStore) SaveSample(ctx context.Context, s storage.Sample) error { return nil }
func (f *fakeStore) LatestSample(ctx context.Context, source string) (storage.Sample, error) {
	return storage.Sample{}, storage.ErrNotFound
}
func (f *fakeStore) Close() error { return nil }

func run(t *testing.T, store *fakeStore, retention int, argv ...string) (string, error) {
	t.Helper()
	catalog, err := core.NewCatalog(Type(store, retention))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	var out bytes.Buffer
	err = core.NewEngine(catalog, nil, nil).Run(context.Background(), &out, argv)
	return out.String(), err
}

func TestHistoryEmpty(t *testing.T) {
	store := &fakeStore{}
	out, err := run(t, store, 30, "history")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "no runs recorded") {
		t.Fatalf("unexpected output %q", out)
	}
	if store.lastQuery.Status != "" || store.lastQuery.Limit != 20 {
		t.Fatalf("unexpected query %+v", store.lastQuery)
	}
}

func TestHistoryFiltersAndTable(t *testing.T) {
	store := &fakeStore{runs: []storage.RunRecord{{
		RequestID: "abc",
		Command:   "Host.Status",
		Status:    storage.StatusError,
		Error:     "boom",
		Duration:  15 * time.Millisecond,
		TS:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}}}
	out, err := run(t, store, 30, "runs", "-command", "Host.Status", "-status", "ERROR", "-limit", "5")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if store.lastQuery.Command != "Host.Status" || store.lastQuery.Status != storage.StatusError || store.lastQuery.Limit != 5 {
		t.Fatalf("unexpected query %+v", store.lastQuery)
	}
	for _, want := range []string{"COMMAND", "Host.Status", "2024-05-01T10:00:00Z", "15ms", "boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestHistoryRejectsUnknownStatus(t *testing.T) {
	_, err := run(t, &fakeStore{}, 30, "history", "-status", "pending")
	if !errors.Is(err, core.ErrBinding) {
		t.Fatalf("expected binding error, got %v", err)
	}
}

func TestHistoryRejectsNonPositiveLimit(t *testing.T) {
	_, err := run(t, &fakeStore{}, 30, "history", "-limit", "0")
	if !errors.Is(err, core.ErrInvocation) {
		t.Fatalf("expected invocation error, got %v", err)
	}
}

func TestPruneUsesRetentionDefault(t *testing.T) {
	store := &fakeStore{runs: make([]storage.RunRecord, 2)}
	started := time.Now()
	out, err := run(t, store, 7, "prune")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	age := started.Sub(store.before)
	if age < 7*24*time.Hour-time.Minute || age > 7*24*time.Hour+time.Minute {
		t.Fatalf("unexpected cutoff age %s", age)
	}
	if !strings.Contains(out, "deleted 2 run(s)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPruneExplicitDays(t *testing.T) {
	store := &fakeStore{}
	b := &Batch{stores: store, now: func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) }}
	if err := b.Prune(context.Background(), 3); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !store.before.Equal(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected cutoff %s", store.before)
	}
	if err := b.Prune(context.Background(), 0); err == nil {
		t.Fatalf("expected error for zero days")
	}
}
