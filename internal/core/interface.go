package core

import "context"

type fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

type versionStore interface {
	Load(ctx context.Context) (marker string, found bool, err error)
	Save(ctx context.Context, marker string) error
}

type outputWriter interface {
	Write(ctx context.Context, content []byte) error
	Path() string
}

// Recorder observes finished runs. It must not affect the run outcome.
type Recorder interface {
	Record(result Result)
}
