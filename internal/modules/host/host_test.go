package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"microbatch/internal/core"
	"microbatch/internal/storage"
)

type fakeStore struct {
	mu      sync.Mutex
	samples []storage.Sample
}

func (f *fakeStore) Open() (storage.Store, error) { return f, nil }

func (f *fakeStore) SaveRun(ctx context.Context, rec storage.RunRecord) error { return nil }
func (f *fakeStore) QueryRuns(ctx context.Context, q storage.RunQuery) ([]storage.RunRecord, error) {
	return nil, nil
}
func (f *fakeStore) PruneRuns(ctx context.Context, before time.Time) (int64, error) { return 0, nil }
func (f *fakeStore) Close() error                                                   { return nil }

func (f *fakeStore) SaveSample(ctx context.Context, s storage.Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.TS = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f.samples = append(f.samples, s)
	return nil
}

func (f *fakeStore) LatestSample(ctx context.Context, source string) (storage.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.samples) - 1; i >= 0; i-- {
		if f.samples[i].Source == source {
			return f.samples[i], nil
		}
	}
	return storage.Sample{}, storage.ErrNotFound
}

type failingOpener struct{}

func (failingOpener) Open() (storage.Store, error) { return nil, errors.New("disk full") }

func fakeCollect(ctx context.Context) (Status, error) {
	return Status{Hostname: "node-1", Platform: "linux", Load1: 0.5, MemUsedPct: 12.5}, nil
}

func runHost(t *testing.T, stores storage.Opener, collect Collector, argv ...string) (string, error) {
	t.Helper()
	catalog, err := core.NewCatalog(newType(stores, collect))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	var out bytes.Buffer
	err = core.NewEngine(catalog, nil, nil).Run(context.Background(), &out, argv)
	return out.String(), err
}

func TestStatusIsDefaultCommand(t *testing.T) {
	out, err := runHost(t, &fakeStore{}, fakeCollect)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var st Status
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if st.Hostname != "node-1" {
		t.Fatalf("unexpected hostname %q", st.Hostname)
	}
	if !strings.Contains(out, "\n  ") {
		t.Fatalf("expected indented output, got %q", out)
	}
}

func TestStatusCompact(t *testing.T) {
	out, err := runHost(t, &fakeStore{}, fakeCollect, "-pretty", "false")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected single line, got %q", out)
	}
}

func TestStatusCollectError(t *testing.T) {
	boom := errors.New("no procfs")
	_, err := runHost(t, &fakeStore{}, func(ctx context.Context) (Status, error) {
		return Status{}, boom
	}, "Host.Status")
	if !errors.Is(err, boom) || !errors.Is(err, core.ErrInvocation) {
		t.Fatalf("expected wrapped collect error, got %v", err)
	}
}

func TestSampleSavesEachTick(t *testing.T) {
	store := &fakeStore{}
	out, err := runHost(t, store, fakeCollect, "sample", "-interval", "1ms", "-count", "3", "-save")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := strings.Count(out, "node-1"); n != 3 {
		t.Fatalf("expected 3 printed samples, got %d in %q", n, out)
	}
	if len(store.samples) != 3 {
		t.Fatalf("expected 3 stored samples, got %d", len(store.samples))
	}
	if store.samples[0].Source != sampleSource {
		t.Fatalf("unexpected source %q", store.samples[0].Source)
	}
}

func TestSampleWithoutSaveSkipsStorage(t *testing.T) {
	out, err := runHost(t, failingOpener{}, fakeCollect, "sample", "-interval", "1ms", "-count", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "node-1") {
		t.Fatalf("expected sample output, got %q", out)
	}
}

func TestSampleStopsOnCancel(t *testing.T) {
	b := &Batch{stores: &fakeStore{}, collect: fakeCollect}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := b.Sample(ctx, 5*time.Millisecond, 0, false); err != nil {
		t.Fatalf("interrupted sampling must succeed: %v", err)
	}
}

func TestSampleRejectsNegativeCount(t *testing.T) {
	_, err := runHost(t, &fakeStore{}, fakeCollect, "sample", "-count", "-1")
	if !errors.Is(err, core.ErrInvocation) {
		t.Fatalf("expected invocation error, got %v", err)
	}
}

func TestLatest(t *testing.T) {
	store := &fakeStore{}
	out, err := runHost(t, store, fakeCollect, "latest")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "no samples recorded") {
		t.Fatalf("expected empty notice, got %q", out)
	}

	_ = store.SaveSample(context.Background(), storage.Sample{Source: sampleSource, Payload: []byte(`{"hostname":"node-1"}`)})
	catalog, _ := core.NewCatalog(newType(store, fakeCollect))
	var buf bytes.Buffer
	if err := core.NewEngine(catalog, nil, nil).Run(context.Background(), &buf, []string{"latest"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "2024-01-02T03:04:05Z") || !strings.Contains(buf.String(), "node-1") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestLatestOpenError(t *testing.T) {
	_, err := runHost(t, failingOpener{}, fakeCollect, "latest")
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected open error, got %v", err)
	}
}
