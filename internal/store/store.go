package store

import "context"

// VersionStore persists the marker of the last successfully written update.
type VersionStore interface {
	// Load returns the stored marker. found is false when nothing has been
	// stored yet; that is not an error.
	Load(ctx context.Context) (marker string, found bool, err error)
	Save(ctx context.Context, marker string) error
	Close() error
}

// OutputWriter replaces the generated plugin artifact.
type OutputWriter interface {
	Write(ctx context.Context, content []byte) error
	Path() string
}
