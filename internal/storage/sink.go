package storage

import "context"

// RunSink принимает записи о запусках; им может быть Store.
type RunSink interface {
	SaveRun(ctx context.Context, rec RunRecord) error
}

// Opener открывает хранилище по требованию.
type Opener interface {
	Open() (Store, error)
}
