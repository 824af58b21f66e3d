package sqlite

import (
	"context"
	"errors"
	"sync"

	"microbatch/internal/storage"
)

var errClosed = errors.New("store is closed")

// Lazy открывает базу при первом обращении, чтобы list и help не создавали файл.
type Lazy struct {
	path string

	once  sync.Once
	store *Store
	err   error
}

func NewLazy(path string) *Lazy {
	return &Lazy{path: path}
}

// Open реализует storage.Opener.
func (l *Lazy) Open() (storage.Store, error) {
	l.once.Do(func() {
		l.store, l.err = Open(l.path)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.store, nil
}

// SaveRun реализует storage.RunSink.
func (l *Lazy) SaveRun(ctx context.Context, rec storage.RunRecord) error {
	st, err := l.Open()
	if err != nil {
		return err
	}
	return st.SaveRun(ctx, rec)
}

// Close закрывает базу, если она была открыта; после Close база не откроется.
func (l *Lazy) Close() error {
	l.once.Do(func() { l.err = errClosed })
	if l.store == nil {
		return nil
	}
	return l.store.Close()
}
