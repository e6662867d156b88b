// Package extract turns statement files into sequences of raw rows.
// Each supported format has its own Extractor; the Registry picks one by
// detected format. Row-level problems are soft: they are reported as
// warnings on the Result and the row is dropped, never failing the file.
package extract

import (
	"io"
	"strings"

	"github.com/dverenov/bankfeed/internal/detect"
	"github.com/dverenov/bankfeed/internal/domain"
)

// Result is the outcome of extracting one file.
type Result struct {
	Rows []domain.RawRow

	// Warnings records dropped rows and degraded-output conditions
	// (e.g. "no extractable text" for image-only PDFs).
	Warnings []string
}

// Extractor converts one statement file format into raw rows.
type Extractor interface {
	// Format returns the statement format this extractor handles.
	Format() detect.Format

	// Extract reads the file and produces raw rows. Structural decode
	// failures wrap domain.ErrCorruptFile; row-level failures become
	// warnings on the Result.
	Extract(r io.Reader) (*Result, error)
}

// Registry holds extractors keyed by format.
type Registry struct {
	extractors map[detect.Format]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[detect.Format]Extractor)}
}

// Register adds an extractor. Panics on duplicate format.
func (r *Registry) Register(e Extractor) {
	key := e.Format()
	if _, ok := r.extractors[key]; ok {
		panic("duplicate extractor format: " + string(key))
	}
	r.extractors[key] = e
}

// Get returns the extractor for format, or nil.
func (r *Registry) Get(format detect.Format) Extractor {
	return r.extractors[format]
}

// DefaultRegistry returns a registry with all built-in extractors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVExtractor{})
	r.Register(&ExcelExtractor{})
	r.Register(&OFXExtractor{})
	r.Register(&PDFExtractor{})
	return r
}

func joinCells(cells []string) string {
	return strings.TrimSpace(strings.Join(cells, " | "))
}
