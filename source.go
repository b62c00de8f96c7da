package toolskema

import (
	"io"

	eng "github.com/reoring/toolskema/internal/engine"
)

// Source abstracts over polymorphic input sources.
type Source interface {
	NumberMode() NumberMode
	Location() int64 // byte offset; -1 if unknown

	tokens() eng.TokenSource
}

type engineSource struct {
	inner   eng.TokenSource
	numMode NumberMode
}

func (s *engineSource) NumberMode() NumberMode  { return s.numMode }
func (s *engineSource) Location() int64         { return s.inner.Location() }
func (s *engineSource) tokens() eng.TokenSource { return s.inner }

// JSONReader wraps an io.Reader as a JSON Source. Numbers are kept as json.Number.
func JSONReader(r io.Reader) Source {
	return &engineSource{inner: eng.NewJSONReader(r), numMode: NumberJSONNumber}
}

// JSONBytes wraps a byte slice as a JSON Source. Numbers are kept as json.Number.
func JSONBytes(b []byte) Source {
	return &engineSource{inner: eng.NewJSONBytes(b), numMode: NumberJSONNumber}
}

// WithNumberMode returns a Source that decodes numbers using m.
func WithNumberMode(s Source, m NumberMode) Source {
	return &engineSource{inner: s.tokens(), numMode: m}
}
