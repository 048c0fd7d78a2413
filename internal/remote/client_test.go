package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

func TestClient_FetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, models.ErrSnapshotNotFound)
}

func TestClient_FetchSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/zones", r.URL.Path)
		w.Write([]byte(`{"zones":[{"id":"zone_1","name":"Market","coordinates":[{"lat":1,"lng":2},{"lat":3,"lng":4},{"lat":5,"lng":6}],"severity":"high","isActive":true}]}`))
	}))
	defer srv.Close()

	snap, err := NewClient(srv.URL+"/", time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Zones, 1)
	assert.Equal(t, "Market", snap.Zones[0].Name)
	assert.Equal(t, models.Point{Lat: 3, Lng: 4}, snap.Zones[0].Coordinates[1])
	assert.NotNil(t, snap.Logs)
}

func TestClient_FetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to read zones file"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrSnapshotNotFound)
	assert.Contains(t, err.Error(), "failed to read zones file")
}

func TestClient_Save(t *testing.T) {
	var got models.Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(models.SaveResult{Success: true, Zones: len(got.Zones), Logs: len(got.Logs)})
	}))
	defer srv.Close()

	snap := &models.Snapshot{
		Zones: []models.Zone{{ID: "zone_1", Name: "Market", IsActive: true}},
		Logs:  []models.ZoneLog{{ID: "log_1", Action: models.LogActionCreated, ZoneName: "Market"}},
	}
	res, err := NewClient(srv.URL, time.Second).Save(context.Background(), snap)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Zones)
	assert.Equal(t, 1, res.Logs)
	assert.Equal(t, "Market", got.Logs[0].ZoneName)
}

func TestClient_SaveErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid snapshot: zone zone_1 has 2 points"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Save(context.Background(), models.EmptySnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 2 points")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrSnapshotNotFound)
}
