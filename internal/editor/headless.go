package editor

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

type OverlayKind string

const (
	KindMarker  OverlayKind = "marker"
	KindLine    OverlayKind = "line"
	KindPolygon OverlayKind = "polygon"
	KindLabel   OverlayKind = "label"
)

type Overlay struct {
	ID     OverlayID
	Kind   OverlayKind
	Points []models.Point
	Style  Style
	Text   string
}

// HeadlessSurface keeps overlays in memory and logs every change. The CLI
// uses it to drive the editor from a terminal.
type HeadlessSurface struct {
	logger *slog.Logger

	mu       sync.Mutex
	nextID   OverlayID
	overlays map[OverlayID]Overlay
	handlers map[uint64]func(models.Point)
	nextH    uint64
	cursor   string
}

func NewHeadlessSurface(logger *slog.Logger) *HeadlessSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeadlessSurface{
		logger:   logger,
		overlays: make(map[OverlayID]Overlay),
		handlers: make(map[uint64]func(models.Point)),
		cursor:   CursorDefault,
	}
}

func (h *HeadlessSurface) add(o Overlay) OverlayID {
	h.mu.Lock()
	h.nextID++
	o.ID = h.nextID
	h.overlays[o.ID] = o
	h.mu.Unlock()

	h.logger.Debug("overlay added", "id", o.ID, "kind", o.Kind, "points", len(o.Points))
	return o.ID
}

func (h *HeadlessSurface) AddMarker(p models.Point) OverlayID {
	return h.add(Overlay{Kind: KindMarker, Points: []models.Point{p}})
}

func (h *HeadlessSurface) AddLine(points []models.Point, style Style) OverlayID {
	return h.add(Overlay{Kind: KindLine, Points: append([]models.Point(nil), points...), Style: style})
}

func (h *HeadlessSurface) AddPolygon(ring []models.Point, style Style) OverlayID {
	return h.add(Overlay{Kind: KindPolygon, Points: append([]models.Point(nil), ring...), Style: style})
}

func (h *HeadlessSurface) AddLabel(p models.Point, text string) OverlayID {
	return h.add(Overlay{Kind: KindLabel, Points: []models.Point{p}, Text: text})
}

func (h *HeadlessSurface) RemoveOverlay(id OverlayID) {
	h.mu.Lock()
	delete(h.overlays, id)
	h.mu.Unlock()
	h.logger.Debug("overlay removed", "id", id)
}

func (h *HeadlessSurface) OnClick(fn func(models.Point)) func() {
	h.mu.Lock()
	h.nextH++
	id := h.nextH
	h.handlers[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.handlers, id)
		h.mu.Unlock()
	}
}

func (h *HeadlessSurface) SetCursor(cursor string) {
	h.mu.Lock()
	h.cursor = cursor
	h.mu.Unlock()
}

// Click simulates a map click at p.
func (h *HeadlessSurface) Click(p models.Point) {
	h.mu.Lock()
	fns := make([]func(models.Point), 0, len(h.handlers))
	for _, fn := range h.handlers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

func (h *HeadlessSurface) Cursor() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

func (h *HeadlessSurface) HandlerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}

// Overlays returns the live overlays ordered by id.
func (h *HeadlessSurface) Overlays() []Overlay {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Overlay, 0, len(h.overlays))
	for _, o := range h.overlays {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (h *HeadlessSurface) Count(kind OverlayKind) int {
	n := 0
	for _, o := range h.Overlays() {
		if o.Kind == kind {
			n++
		}
	}
	return n
}
