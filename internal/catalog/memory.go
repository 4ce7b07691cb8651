package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
	"go-report-cache/internal/utils"
)

// Ensure MemoryCatalog implements interfaces.PeriodCatalog
var _ interfaces.PeriodCatalog = (*MemoryCatalog)(nil)

// MemoryCatalog serves period definitions from memory. It is read-only
// after construction and safe for concurrent use.
type MemoryCatalog struct {
	defs []models.PeriodDefinition
}

// NewMemoryCatalog creates a catalog over a copy of defs
func NewMemoryCatalog(defs []models.PeriodDefinition) *MemoryCatalog {
	copied := make([]models.PeriodDefinition, len(defs))
	copy(copied, defs)
	sortDefinitions(copied)
	return &MemoryCatalog{defs: copied}
}

// Definitions returns every row in lookup order
func (c *MemoryCatalog) Definitions() []models.PeriodDefinition {
	out := make([]models.PeriodDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *MemoryCatalog) FindByCode(_ context.Context, code string, year int) (*models.PeriodDefinition, error) {
	return first(c.defs, year, codeMatcher(code)), nil
}

func (c *MemoryCatalog) FindByNameFold(_ context.Context, name string, year int) (*models.PeriodDefinition, error) {
	return first(c.defs, year, nameFoldMatcher(name)), nil
}

func (c *MemoryCatalog) FindNormalized(_ context.Context, label string, year int) (*models.PeriodDefinition, error) {
	return first(c.defs, year, normalizedMatcher(label)), nil
}

func (c *MemoryCatalog) FindNameContaining(_ context.Context, token string, year int) (*models.PeriodDefinition, error) {
	return first(c.defs, year, containingMatcher(token)), nil
}

// Close is a no-op
func (c *MemoryCatalog) Close() error {
	return nil
}

// seedFile is the YAML layout of a catalog seed file:
//
//	periods:
//	  - code: HIV
//	    name: Vacances d'hiver
//	    year: 2024
//	    start: 2024-02-10
//	    end: 2024-02-25
type seedFile struct {
	Periods []seedRow `yaml:"periods"`
}

type seedRow struct {
	Code  string `yaml:"code"`
	Name  string `yaml:"name"`
	Year  int    `yaml:"year"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// LoadSeedFile reads period definitions from a YAML seed file
func LoadSeedFile(path string) ([]models.PeriodDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML. A row without a year takes the year of its
// start date.
func ParseSeed(data []byte) ([]models.PeriodDefinition, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	defs := make([]models.PeriodDefinition, 0, len(seed.Periods))
	for i, row := range seed.Periods {
		if row.Code == "" && row.Name == "" {
			return nil, fmt.Errorf("period %d: code or name is required", i)
		}
		start, err := utils.ParseDate(row.Start)
		if err != nil {
			return nil, fmt.Errorf("period %d (%s): invalid start: %w", i, row.Code, err)
		}
		end, err := utils.ParseDate(row.End)
		if err != nil {
			return nil, fmt.Errorf("period %d (%s): invalid end: %w", i, row.Code, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("period %d (%s): end %s is before start %s", i, row.Code, row.End, row.Start)
		}

		year := row.Year
		if year == 0 {
			year = start.Year()
		}
		defs = append(defs, models.PeriodDefinition{
			Code:  row.Code,
			Name:  row.Name,
			Year:  year,
			Start: start,
			End:   end,
		})
	}
	return defs, nil
}
