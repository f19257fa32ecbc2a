// Package artifact owns the current-version references to the offline-built
// model artifacts. Readers get an immutable snapshot; writers publish a fully
// built replacement with a single atomic swap, so an in-flight query never
// observes a partial artifact.
package artifact

import (
	"sync/atomic"

	"github.com/peakform/recohub/internal/domain"
)

// Artifact file base names under the artifacts directory.
const (
	NameSimilarity  = "similarity_index"
	NameVectorIndex = "vector_index"
	NameCFModel     = "cf_model"
	NameSentiment   = "sentiment_pipeline"
)

// Holder keeps the currently published version of one artifact type.
// Safe for concurrent readers during a writer's Publish.
type Holder[T any] struct {
	name string
	ptr  atomic.Pointer[T]
}

// NewHolder creates an empty holder; Get returns ErrUnavailable until the
// first Publish.
func NewHolder[T any](name string) *Holder[T] {
	return &Holder[T]{name: name}
}

// Name returns the artifact name.
func (h *Holder[T]) Name() string { return h.name }

// Get returns the current artifact, or ErrUnavailable when no version has
// been published (rebuild not yet run, or load failed at startup).
func (h *Holder[T]) Get() (*T, error) {
	v := h.ptr.Load()
	if v == nil {
		return nil, domain.ErrUnavailable
	}
	return v, nil
}

// Loaded reports whether a version is published.
func (h *Holder[T]) Loaded() bool { return h.ptr.Load() != nil }

// Publish atomically swaps in a new version. The previous version keeps
// serving requests that already hold it.
func (h *Holder[T]) Publish(v *T) {
	h.ptr.Store(v)
}
