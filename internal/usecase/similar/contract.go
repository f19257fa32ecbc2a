package similar

import "github.com/peakform/recohub/internal/textindex"

// IndexProvider returns the currently published similarity artifact.
type IndexProvider interface {
	Get() (*textindex.Index, error)
}
