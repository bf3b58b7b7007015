// Package render turns validated résumé data into a printable document:
// an embedded HTML template filled in with html/template, rasterized to PDF
// by a headless Chrome.
package render

import "context"

// Renderer converts rendered HTML into PDF bytes. Implementations may fail
// for engine-internal reasons; callers surface that as a generic generation
// error and never retry automatically.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}
