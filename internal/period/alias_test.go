package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		descriptor string
		class      AliasClass
		token      string
	}{
		{"annee_complete", AliasFullYear, "annee complete"},
		{"Année complète", AliasFullYear, "annee complete"},
		{"full-year", AliasFullYear, "full year"},
		{"hiver", AliasHolidayWindow, "hiver"},
		{"Pont_Mai", AliasHolidayWindow, "mai"},
		{"pont-mai", AliasHolidayWindow, "mai"},
		{"PONT MAI", AliasHolidayWindow, "mai"},
		{"vacances de Noël", AliasHolidayWindow, "noel"},
		{"Été", AliasHolidayWindow, "ete"},
		{"mai", AliasMonth, "mai"},
		{"Février", AliasMonth, "fevrier"},
		{"mois de juillet", AliasMonth, "juillet"},
		{"personnalisé", AliasCustom, "personnalise"},
		{"HIV", AliasNone, "hiv"},
		{"fin de juillet", AliasNone, "fin de juillet"},
		{"", AliasNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			got := Classify(tt.descriptor)
			assert.Equal(t, tt.class, got.Class)
			assert.Equal(t, tt.token, got.Token)
		})
	}
}

func TestAlias_Heuristic(t *testing.T) {
	assert.True(t, Alias{Class: AliasMonth}.Heuristic())
	assert.True(t, Alias{Class: AliasHolidayWindow}.Heuristic())
	assert.False(t, Alias{Class: AliasFullYear}.Heuristic())
	assert.False(t, Alias{Class: AliasCustom}.Heuristic())
	assert.False(t, Alias{Class: AliasNone}.Heuristic())
}

func TestAliasClass_String(t *testing.T) {
	assert.Equal(t, "holiday_window", AliasHolidayWindow.String())
	assert.Equal(t, "none", AliasClass(42).String())
}
