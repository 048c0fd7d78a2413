package geometry

import "github.com/mr1hm/go-risk-zones/internal/models"

type Palette struct {
	Fill   string
	Border string
}

var fallbackPalette = Palette{Fill: "#6b7280", Border: "#374151"}

var severityPalettes = map[models.Severity]Palette{
	models.SeverityLow:      {Fill: "#22c55e", Border: "#15803d"},
	models.SeverityMedium:   {Fill: "#eab308", Border: "#a16207"},
	models.SeverityHigh:     {Fill: "#f97316", Border: "#c2410c"},
	models.SeverityCritical: {Fill: "#ef4444", Border: "#b91c1c"},
}

// Colors maps a severity to its fill and border colors. Unknown values
// get a neutral gray.
func Colors(s models.Severity) Palette {
	if p, ok := severityPalettes[s]; ok {
		return p
	}
	return fallbackPalette
}
