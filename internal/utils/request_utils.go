package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of override dates
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s' (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// ParseOptionalDate returns nil for an empty string
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOptionalInt returns nil for an empty string
func ParseOptionalInt(s string) (*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid integer '%s': %w", s, err)
	}
	return &v, nil
}

// ParseIntDefault parses s or returns def when s is empty
func ParseIntDefault(s string, def int) (int, error) {
	v, err := ParseOptionalInt(s)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// FormatDate renders t with DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
