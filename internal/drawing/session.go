package drawing

import (
	"errors"

	"github.com/mr1hm/go-risk-zones/internal/geometry"
	"github.com/mr1hm/go-risk-zones/internal/models"
)

var (
	ErrTooFewPoints = errors.New("a zone needs at least 3 points")
	ErrNotDrawing   = errors.New("not drawing")
	ErrNotReviewing = errors.New("no polygon awaiting review")
)

type Mode string

const (
	ModeNone    Mode = "none"
	ModePolygon Mode = "polygon"
)

type State int

const (
	StateIdle State = iota
	StateDrawing
	StateReviewing
)

func (s State) String() string {
	switch s {
	case StateDrawing:
		return "drawing"
	case StateReviewing:
		return "reviewing"
	default:
		return "idle"
	}
}

// Preview is what the map should show for the points placed so far.
// Ring is nil until there are enough points to form a polygon.
type Preview struct {
	Line []models.Point
	Ring []models.Point
}

// Session is the in-progress polygon of a single operator. It is not safe
// for concurrent use; the editor controller serialises access to it.
type Session struct {
	state  State
	points []models.Point
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Mode() Mode {
	if s.state == StateIdle {
		return ModeNone
	}
	return ModePolygon
}

// Start begins a new polygon, dropping anything left from a previous one.
func (s *Session) Start() {
	s.points = nil
	s.state = StateDrawing
}

// AddPoint appends p while drawing. Duplicate points are kept as-is.
func (s *Session) AddPoint(p models.Point) bool {
	if s.state != StateDrawing {
		return false
	}
	s.points = append(s.points, p)
	return true
}

func (s *Session) Finish() error {
	if s.state != StateDrawing {
		return ErrNotDrawing
	}
	if len(s.points) < models.MinPoints {
		return ErrTooFewPoints
	}
	s.state = StateReviewing
	return nil
}

func (s *Session) Cancel() {
	s.points = nil
	s.state = StateIdle
}

// Complete ends a reviewed session after its zone has been stored and
// returns the points it held.
func (s *Session) Complete() ([]models.Point, error) {
	if s.state != StateReviewing {
		return nil, ErrNotReviewing
	}
	pts := s.points
	s.points = nil
	s.state = StateIdle
	return pts, nil
}

func (s *Session) Points() []models.Point {
	return append([]models.Point(nil), s.points...)
}

func (s *Session) Len() int {
	return len(s.points)
}

func (s *Session) Preview() Preview {
	var p Preview
	if len(s.points) == 0 {
		return p
	}
	p.Line = s.Points()
	if len(s.points) >= models.MinPoints {
		p.Ring = geometry.CloseRing(s.points)
	}
	return p
}
