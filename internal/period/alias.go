package period

import (
	"strings"

	"go-report-cache/internal/utils"
)

// AliasClass is the closed set of descriptor families the resolver knows
type AliasClass int

const (
	// AliasNone is an ordinary descriptor: a catalog code or name
	AliasNone AliasClass = iota
	// AliasFullYear selects the whole calendar year without a catalog lookup
	AliasFullYear
	// AliasHolidayWindow names a school holiday or bridge whose dates move every year
	AliasHolidayWindow
	// AliasMonth names a calendar month
	AliasMonth
	// AliasCustom marks a date-picker request carrying explicit dates
	AliasCustom
)

// String returns the log label of the class
func (c AliasClass) String() string {
	switch c {
	case AliasFullYear:
		return "full_year"
	case AliasHolidayWindow:
		return "holiday_window"
	case AliasMonth:
		return "month"
	case AliasCustom:
		return "custom"
	default:
		return "none"
	}
}

// Alias is a classified descriptor. Token is the canonical, normalized word
// used for the heuristic substring lookup ("mai", "noel").
type Alias struct {
	Class AliasClass
	Token string
}

// Heuristic reports whether the alias may fall back to a substring match on
// catalog names
func (a Alias) Heuristic() bool {
	return a.Class == AliasMonth || a.Class == AliasHolidayWindow
}

var fullYearAliases = map[string]struct{}{
	"annee complete": {},
	"annee":          {},
	"full year":      {},
	"year":           {},
	"all":            {},
}

var customAliases = map[string]struct{}{
	"custom":       {},
	"personnalise": {},
	"dates":        {},
}

// monthTokens maps normalized month spellings to their canonical token
var monthTokens = map[string]string{
	"janvier":   "janvier",
	"janv":      "janvier",
	"fevrier":   "fevrier",
	"fevr":      "fevrier",
	"mars":      "mars",
	"avril":     "avril",
	"avr":       "avril",
	"mai":       "mai",
	"juin":      "juin",
	"juillet":   "juillet",
	"juil":      "juillet",
	"aout":      "aout",
	"septembre": "septembre",
	"sept":      "septembre",
	"octobre":   "octobre",
	"oct":       "octobre",
	"novembre":  "novembre",
	"nov":       "novembre",
	"decembre":  "decembre",
	"dec":       "decembre",
}

// holidayTokens maps normalized holiday spellings to their canonical token
var holidayTokens = map[string]string{
	"hiver":            "hiver",
	"vacances hiver":   "hiver",
	"printemps":        "printemps",
	"ete":              "ete",
	"vacances ete":     "ete",
	"automne":          "automne",
	"toussaint":        "toussaint",
	"noel":             "noel",
	"vacances noel":    "noel",
	"paques":           "paques",
	"pont mai":         "mai",
	"ponts mai":        "mai",
	"ascension":        "ascension",
	"pont ascension":   "ascension",
	"pentecote":        "pentecote",
	"pont pentecote":   "pentecote",
	"vacances":         "vacances",
	"grandes vacances": "ete",
}

// Classify maps a raw descriptor to its alias class. Matching is done on
// the normalized label, so "Pont_Mai", "pont-mai" and "PONT MAI" classify
// identically.
func Classify(descriptor string) Alias {
	label := utils.NormalizeLabel(descriptor)
	if label == "" {
		return Alias{Class: AliasNone}
	}

	if _, ok := fullYearAliases[label]; ok {
		return Alias{Class: AliasFullYear, Token: label}
	}
	if _, ok := customAliases[label]; ok {
		return Alias{Class: AliasCustom, Token: label}
	}
	if token, ok := holidayTokens[label]; ok {
		return Alias{Class: AliasHolidayWindow, Token: token}
	}
	if token, ok := monthTokens[label]; ok {
		return Alias{Class: AliasMonth, Token: token}
	}

	// "vacances de noel", "mois de mai"
	words := strings.Fields(label)
	last := words[len(words)-1]
	if len(words) > 1 {
		if token, ok := holidayTokens[last]; ok {
			return Alias{Class: AliasHolidayWindow, Token: token}
		}
		if token, ok := monthTokens[last]; ok && words[0] == "mois" {
			return Alias{Class: AliasMonth, Token: token}
		}
	}

	return Alias{Class: AliasNone, Token: label}
}
