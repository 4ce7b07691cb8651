// Package zone maps the zone names shown to users onto the internal base
// names the fact tables are keyed by.
package zone

import (
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/utils"
)

// Ensure Mapper implements interfaces.ZoneMapper
var _ interfaces.ZoneMapper = (*Mapper)(nil)

// defaultZones maps display names to base names
var defaultZones = map[string]string{
	"Cantal":                "CANTAL",
	"Allier":                "ALLIER",
	"Haute-Loire":           "HAUTE_LOIRE",
	"Puy-de-Dôme":           "PUY_DE_DOME",
	"Auvergne":              "AUVERGNE",
	"Aurillac":              "AURILLAC",
	"Saint-Flour":           "SAINT_FLOUR",
	"Mauriac":               "MAURIAC",
	"Massif du Sancy":       "SANCY",
	"Monts du Cantal":       "MONTS_CANTAL",
	"Vallée de la Dordogne": "VALLEE_DORDOGNE",
}

// Mapper is a static bidirectional zone table. Lookups accept any casing,
// accents and separators; unknown names pass through unchanged.
type Mapper struct {
	toBase    map[string]string
	toDisplay map[string]string
}

// NewMapper builds a mapper from display name -> base name pairs
func NewMapper(zones map[string]string) *Mapper {
	m := &Mapper{
		toBase:    make(map[string]string, len(zones)*2),
		toDisplay: make(map[string]string, len(zones)),
	}
	for display, base := range zones {
		m.toBase[utils.NormalizeLabel(display)] = base
		m.toBase[utils.NormalizeLabel(base)] = base
		m.toDisplay[base] = display
	}
	return m
}

// NewDefaultMapper returns the mapper of the built-in zone table
func NewDefaultMapper() *Mapper {
	return NewMapper(defaultZones)
}

// ToBaseName returns the base name of a display name
func (m *Mapper) ToBaseName(displayName string) string {
	if base, ok := m.toBase[utils.NormalizeLabel(displayName)]; ok {
		return base
	}
	return displayName
}

// ToDisplayName returns the display name of a base name
func (m *Mapper) ToDisplayName(baseName string) string {
	if display, ok := m.toDisplay[baseName]; ok {
		return display
	}
	return baseName
}
