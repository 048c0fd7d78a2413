package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/mr1hm/go-risk-zones/internal/geometry"
	"github.com/mr1hm/go-risk-zones/internal/models"
)

const FileName = "high-risk-zones.json"

const ContentType = "application/geo+json"

// FeatureCollection builds a GeoJSON collection of the active zones. Each
// zone becomes a Polygon feature with a closed [lng, lat] ring.
func FeatureCollection(zones []models.Zone) (*geojson.FeatureCollection, error) {
	features := make([]*geojson.Feature, 0, len(zones))

	for _, z := range zones {
		if !z.IsActive {
			continue
		}
		poly, err := geometry.Polygon(z.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("error building polygon for zone %s: %w", z.ID, err)
		}

		palette := geometry.Colors(z.Severity)
		features = append(features, &geojson.Feature{
			ID:       z.ID,
			Geometry: poly,
			Properties: map[string]any{
				"id":          z.ID,
				"name":        z.Name,
				"description": z.Description,
				"severity":    string(z.Severity),
				"createdAt":   z.CreatedAt.Format(time.RFC3339),
				"createdBy":   z.CreatedBy,
				"fillColor":   palette.Fill,
				"borderColor": palette.Border,
			},
		})
	}

	return &geojson.FeatureCollection{Features: features}, nil
}

func Marshal(zones []models.Zone) ([]byte, error) {
	fc, err := FeatureCollection(zones)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding geojson: %w", err)
	}
	return data, nil
}

func WriteFile(path string, zones []models.Zone) error {
	data, err := Marshal(zones)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
