package render

import (
	"image"

	"github.com/rook-computer/starmap/internal/catalog"
	"github.com/rook-computer/starmap/internal/svg"
)

// Renderer produces every output format of a request. Implementations must be
// safe for concurrent use.
type Renderer interface {
	SVG(req Request) svg.Document
	PNG(req Request, opts PreviewOptions) (*image.RGBA, error)
	QR(req Request, sizePx int) (ref string, img image.Image, err error)
}

// CatalogRenderer renders against a fixed catalog. A nil Catalog means the
// embedded one.
type CatalogRenderer struct {
	Catalog *catalog.Catalog
}

func NewCatalogRenderer(cat *catalog.Catalog) *CatalogRenderer {
	return &CatalogRenderer{Catalog: cat}
}

func (c *CatalogRenderer) SVG(req Request) svg.Document { return Render(req, c.Catalog) }

func (c *CatalogRenderer) PNG(req Request, opts PreviewOptions) (*image.RGBA, error) {
	return Preview(req, c.Catalog, opts)
}

func (c *CatalogRenderer) QR(req Request, sizePx int) (string, image.Image, error) {
	return ReferenceQR(req, sizePx)
}
