package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"go-report-cache/internal/models"
)

const (
	// UndatedSegment groups entries whose key carries no year
	UndatedSegment = "undated"
	// EntryExt is the extension of stored entries
	EntryExt = ".json"

	maxNameSize = 200
)

// CategorySegment returns the path segment of a category. Dots are
// escaped as well so "." and ".." can never address a parent directory or
// collapse an object prefix.
func CategorySegment(category string) string {
	return strings.ReplaceAll(url.PathEscape(category), ".", "%2E")
}

// ParseCategorySegment reverses CategorySegment
func ParseCategorySegment(segment string) string {
	category, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return category
}

// YearSegment returns the path segment of a year tag
func YearSegment(year int) string {
	if year == 0 {
		return UndatedSegment
	}
	return strconv.Itoa(year)
}

// EntryName returns the file or object name of a key: the parameter part
// of the readable key, escaped for use as one path segment. Names too long
// for common filesystems keep a readable prefix and end with a short digest.
func EntryName(key models.CacheKey) string {
	name := strings.TrimPrefix(key.Value, key.Category+"/")
	if name == "" {
		name = "_"
	}
	name = url.PathEscape(name)
	if len(name) > maxNameSize {
		sum := sha256.Sum256([]byte(key.Value))
		name = name[:maxNameSize-17] + "~" + hex.EncodeToString(sum[:8])
	}
	return name + EntryExt
}
