package editor

import "github.com/mr1hm/go-risk-zones/internal/models"

type OverlayID uint64

const (
	CursorDefault   = "default"
	CursorCrosshair = "crosshair"
)

type Style struct {
	Stroke      string
	Fill        string
	FillOpacity float64
	Weight      int
	Dashed      bool
}

// Surface is the subset of a map widget the editor drives. Implementations
// own the rendering; the editor only tracks the overlay ids it was given.
type Surface interface {
	AddMarker(p models.Point) OverlayID
	AddLine(points []models.Point, style Style) OverlayID
	AddPolygon(ring []models.Point, style Style) OverlayID
	AddLabel(p models.Point, text string) OverlayID
	RemoveOverlay(id OverlayID)
	// OnClick registers fn for map clicks and returns a func that
	// unregisters it.
	OnClick(fn func(models.Point)) (unregister func())
	SetCursor(cursor string)
}
