package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ArtifactChecker reports whether one artifact is loaded.
type ArtifactChecker interface {
	Name() string
	Loaded() bool
}
