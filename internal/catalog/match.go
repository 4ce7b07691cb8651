package catalog

import (
	"sort"
	"strings"
	"unicode"

	"go-report-cache/internal/models"
	"go-report-cache/internal/utils"
)

// matcher selects catalog rows for one lookup tier
type matcher func(def *models.PeriodDefinition) bool

func codeMatcher(code string) matcher {
	return func(def *models.PeriodDefinition) bool {
		return def.Code == code
	}
}

func nameFoldMatcher(name string) matcher {
	return func(def *models.PeriodDefinition) bool {
		return strings.EqualFold(def.Name, name)
	}
}

func normalizedMatcher(label string) matcher {
	label = utils.NormalizeLabel(label)
	return func(def *models.PeriodDefinition) bool {
		return utils.NormalizeLabel(def.Code) == label || utils.NormalizeLabel(def.Name) == label
	}
}

// containingMatcher matches names holding the token as whole words, so
// "mai" finds "Pont de mai" but not "Semaine 12"
func containingMatcher(token string) matcher {
	want := words(token)
	return func(def *models.PeriodDefinition) bool {
		return len(want) > 0 && containsWords(words(def.Name), want)
	}
}

// words splits a normalized label on anything that is not a letter or digit
func words(s string) []string {
	return strings.FieldsFunc(utils.NormalizeLabel(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsWords(have, want []string) bool {
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j := range want {
			if have[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// sortDefinitions orders rows the way every lookup picks among duplicates:
// year, then start date, then code, then name
func sortDefinitions(defs []models.PeriodDefinition) {
	sort.SliceStable(defs, func(i, j int) bool {
		a, b := defs[i], defs[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Name < b.Name
	})
}

// first returns a copy of the first row of year accepted by match
func first(defs []models.PeriodDefinition, year int, match matcher) *models.PeriodDefinition {
	for i := range defs {
		if defs[i].Year != year || !match(&defs[i]) {
			continue
		}
		def := defs[i]
		return &def
	}
	return nil
}
