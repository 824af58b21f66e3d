package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound возвращается, когда запись отсутствует.
var ErrNotFound = errors.New("record not found")

// Статусы запусков в журнале.
const (
	StatusOK     = "ok"
	StatusError  = "error"
	StatusDenied = "denied"
)

// RunRecord фиксирует один запуск команды.
type RunRecord struct {
	RequestID string
	Command   string
	Args      []byte
	Status    string
	Error     string
	Duration  time.Duration
	TS        time.Time
}

// RunQuery задает фильтры выборки журнала запусков.
type RunQuery struct {
	Command string
	Status  string
	Since   time.Time
	Limit   int
}

// Sample хранит срез метрик источника.
type Sample struct {
	Source  string
	Payload []byte
	TS      time.Time
}

// Store описывает операции хранилища.
type Store interface {
	SaveRun(ctx context.Context, rec RunRecord) error
	QueryRuns(ctx context.Context, q RunQuery) ([]RunRecord, error)
	PruneRuns(ctx context.Context, before time.Time) (int64, error)
	SaveSample(ctx context.Context, s Sample) error
	LatestSample(ctx context.Context, source string) (Sample, error)
	Close() error
}
