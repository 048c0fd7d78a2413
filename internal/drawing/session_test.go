package drawing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

func pts(n int) []models.Point {
	out := make([]models.Point, n)
	for i := range out {
		out[i] = models.Point{Lat: float64(i), Lng: float64(i * 2)}
	}
	return out
}

func TestSession_FinishNeedsThreePoints(t *testing.T) {
	for n := 0; n <= 6; n++ {
		s := NewSession()
		s.Start()
		for _, p := range pts(n) {
			require.True(t, s.AddPoint(p))
		}

		err := s.Finish()
		if n < models.MinPoints {
			assert.ErrorIs(t, err, ErrTooFewPoints, "n=%d", n)
			assert.Equal(t, StateDrawing, s.State(), "n=%d", n)
			assert.Equal(t, ModePolygon, s.Mode())
		} else {
			assert.NoError(t, err, "n=%d", n)
			assert.Equal(t, StateReviewing, s.State(), "n=%d", n)
		}
	}
}

func TestSession_CancelFromAnyState(t *testing.T) {
	setups := map[string]func(s *Session){
		"idle":    func(s *Session) {},
		"drawing": func(s *Session) { s.Start(); s.AddPoint(models.Point{Lat: 1, Lng: 1}) },
		"reviewing": func(s *Session) {
			s.Start()
			for _, p := range pts(3) {
				s.AddPoint(p)
			}
			require.NoError(t, s.Finish())
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			s := NewSession()
			setup(s)
			s.Cancel()
			assert.Equal(t, StateIdle, s.State())
			assert.Equal(t, ModeNone, s.Mode())
			assert.Empty(t, s.Points())
		})
	}
}

func TestSession_ClicksIgnoredOutsideDrawing(t *testing.T) {
	s := NewSession()
	assert.False(t, s.AddPoint(models.Point{Lat: 1, Lng: 1}))
	assert.Zero(t, s.Len())

	s.Start()
	for _, p := range pts(3) {
		s.AddPoint(p)
	}
	require.NoError(t, s.Finish())
	assert.False(t, s.AddPoint(models.Point{Lat: 9, Lng: 9}))
	assert.Equal(t, 3, s.Len())
}

func TestSession_DuplicatePointsKept(t *testing.T) {
	s := NewSession()
	s.Start()
	p := models.Point{Lat: 13.07, Lng: 80.26}
	s.AddPoint(p)
	s.AddPoint(p)
	s.AddPoint(p)
	assert.Equal(t, 3, s.Len())
	assert.NoError(t, s.Finish())
}

func TestSession_StartClearsStalePoints(t *testing.T) {
	s := NewSession()
	s.Start()
	s.AddPoint(models.Point{Lat: 1, Lng: 1})
	s.Start()
	assert.Zero(t, s.Len())
	assert.Equal(t, StateDrawing, s.State())
}

func TestSession_Preview(t *testing.T) {
	s := NewSession()
	assert.Empty(t, s.Preview().Line)

	s.Start()
	s.AddPoint(models.Point{Lat: 0, Lng: 0})
	s.AddPoint(models.Point{Lat: 0, Lng: 1})
	p := s.Preview()
	assert.Len(t, p.Line, 2)
	assert.Nil(t, p.Ring)

	s.AddPoint(models.Point{Lat: 1, Lng: 1})
	p = s.Preview()
	assert.Len(t, p.Line, 3)
	require.Len(t, p.Ring, 4)
	assert.Equal(t, p.Ring[0], p.Ring[3])
	assert.Equal(t, 3, s.Len(), "preview must not close the stored points")
}

func TestSession_Complete(t *testing.T) {
	s := NewSession()
	_, err := s.Complete()
	assert.ErrorIs(t, err, ErrNotReviewing)

	s.Start()
	for _, p := range pts(4) {
		s.AddPoint(p)
	}
	require.NoError(t, s.Finish())

	got, err := s.Complete()
	require.NoError(t, err)
	assert.Equal(t, pts(4), got)
	assert.Equal(t, StateIdle, s.State())
	assert.Zero(t, s.Len())
}

func TestSession_FinishWhenIdle(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.Finish(), ErrNotDrawing)
	assert.Equal(t, StateIdle, s.State())
}
