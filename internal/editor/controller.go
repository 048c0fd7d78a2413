// Package editor wires the drawing session, the zone store and a map
// surface together into the high-risk zone editor.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-risk-zones/internal/drawing"
	"github.com/mr1hm/go-risk-zones/internal/export"
	"github.com/mr1hm/go-risk-zones/internal/geometry"
	"github.com/mr1hm/go-risk-zones/internal/models"
	"github.com/mr1hm/go-risk-zones/internal/store"
)

const ExportFileName = export.FileName

var (
	ErrBusy   = errors.New("another zone operation is in progress")
	ErrClosed = errors.New("editor closed")
)

// Draft is the metadata the operator enters while reviewing a polygon.
type Draft struct {
	Name        string
	Description string
	Severity    models.Severity
}

var (
	previewLineStyle = Style{Stroke: "#2563eb", Weight: 2, Dashed: true}
	previewFillStyle = Style{Stroke: "#2563eb", Fill: "#3b82f6", FillOpacity: 0.2, Weight: 2}
)

type Controller struct {
	surface Surface
	store   *store.Store
	logger  *slog.Logger

	mu         sync.Mutex
	session    *drawing.Session
	markers    []OverlayID
	preview    []OverlayID
	zoneLayers []OverlayID
	selected   string
	unregister func()
	closed     bool

	busy atomic.Bool
}

// New attaches a controller to surface. Call Close when the map goes away.
func New(surface Surface, st *store.Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		surface: surface,
		store:   st,
		logger:  logger,
		session: drawing.NewSession(),
	}
	c.unregister = surface.OnClick(c.HandleClick)
	return c
}

func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	if c.unregister != nil {
		c.unregister()
	}
	c.session.Cancel()
	c.clearDrawingLocked()
	c.clearZonesLocked()
	c.surface.SetCursor(CursorDefault)
}

func (c *Controller) State() drawing.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State()
}

func (c *Controller) Points() []models.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Points()
}

func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// StartDrawing begins a new polygon. It is refused while a zone operation
// is in flight, since a committing session still owns the drawing layers.
func (c *Controller) StartDrawing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.busy.Load() {
		return ErrBusy
	}

	c.clearDrawingLocked()
	c.session.Start()
	c.surface.SetCursor(CursorCrosshair)
	return nil
}

// HandleClick adds a vertex while drawing and is a no-op otherwise.
func (c *Controller) HandleClick(p models.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.session.AddPoint(p) {
		return
	}

	c.markers = append(c.markers, c.surface.AddMarker(p))
	c.redrawPreviewLocked()
}

func (c *Controller) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.Finish(); err != nil {
		return err
	}
	c.surface.SetCursor(CursorDefault)
	return nil
}

// Cancel discards the polygon in progress. It never touches the store.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Cancel()
	c.clearDrawingLocked()
	if !c.closed {
		c.surface.SetCursor(CursorDefault)
	}
}

// Commit stores the reviewed polygon as a new zone. On failure the
// session stays in review so the operator can retry.
func (c *Controller) Commit(ctx context.Context, d Draft) (*models.Zone, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.session.State() != drawing.StateReviewing {
		c.mu.Unlock()
		return nil, drawing.ErrNotReviewing
	}
	if !c.busy.CompareAndSwap(false, true) {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	defer c.busy.Store(false)
	points := c.session.Points()
	c.mu.Unlock()

	zone, err := c.store.Create(ctx, store.ZoneInput{
		Name:        d.Name,
		Description: d.Description,
		Points:      points,
		Severity:    d.Severity,
	})
	if err != nil {
		c.logger.Warn("zone commit failed", "error", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Cancel may have run while the save was in flight; its graphics are
	// already gone.
	if _, err := c.session.Complete(); err == nil {
		c.clearDrawingLocked()
	} else {
		c.logger.Debug("session left review during commit", "state", c.session.State())
	}
	c.renderLocked()
	return zone, nil
}

func (c *Controller) Deactivate(ctx context.Context, id string) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	if err := c.store.Deactivate(ctx, id); err != nil {
		c.logger.Warn("zone deactivate failed", "zone_id", id, "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == id {
		c.selected = ""
	}
	c.renderLocked()
	return nil
}

// Reload fetches the zones again and redraws them. It doubles as the retry
// after a failed initial load.
func (c *Controller) Reload(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	err := c.store.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked()
	return err
}

func (c *Controller) RenderZones() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked()
}

func (c *Controller) Select(id string) (models.Zone, bool) {
	z, ok := c.store.Zone(id)
	if !ok || !z.IsActive {
		return models.Zone{}, false
	}
	c.mu.Lock()
	c.selected = id
	c.mu.Unlock()
	return z, true
}

func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *Controller) ExportGeoJSON() ([]byte, error) {
	return export.Marshal(c.store.ActiveZones())
}

// renderLocked drops every zone overlay and redraws the active zones from
// scratch. Zone counts are small, so nothing is diffed.
func (c *Controller) renderLocked() {
	if c.closed {
		return
	}
	c.clearZonesLocked()

	for _, z := range c.store.ActiveZones() {
		palette := geometry.Colors(z.Severity)
		style := Style{Stroke: palette.Border, Fill: palette.Fill, FillOpacity: 0.35, Weight: 2}
		c.zoneLayers = append(c.zoneLayers, c.surface.AddPolygon(geometry.CloseRing(z.Coordinates), style))

		if center, ok := geometry.Centroid(z.Coordinates); ok {
			c.zoneLayers = append(c.zoneLayers, c.surface.AddLabel(center, z.Name))
		}
	}
}

func (c *Controller) redrawPreviewLocked() {
	c.removeLocked(c.preview)
	c.preview = nil

	pv := c.session.Preview()
	if len(pv.Line) >= 2 {
		c.preview = append(c.preview, c.surface.AddLine(pv.Line, previewLineStyle))
	}
	if pv.Ring != nil {
		c.preview = append(c.preview, c.surface.AddPolygon(pv.Ring, previewFillStyle))
	}
}

func (c *Controller) clearDrawingLocked() {
	c.removeLocked(c.markers)
	c.removeLocked(c.preview)
	c.markers = nil
	c.preview = nil
}

func (c *Controller) clearZonesLocked() {
	c.removeLocked(c.zoneLayers)
	c.zoneLayers = nil
}

func (c *Controller) removeLocked(ids []OverlayID) {
	for _, id := range ids {
		c.surface.RemoveOverlay(id)
	}
}
