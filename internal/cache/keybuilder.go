package cache

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/models"
)

var (
	// ErrEmptyCategory is returned when a key is built without a category
	ErrEmptyCategory = errors.New("category cannot be empty")
	// ErrInvalidCategory is returned for categories that cannot name a
	// storage segment: ".", ".." or anything holding a path separator
	ErrInvalidCategory = errors.New("invalid category")
	// ErrUnsupportedParam is returned for non-scalar parameter values
	ErrUnsupportedParam = errors.New("unsupported parameter value")
)

// YearParam is the parameter a key's year tag is extracted from
const YearParam = "year"

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a readable cache key: "category/a=1&b=2" with parameter
// names sorted, so insertion order never changes the key. Names and values
// are query-escaped so a value holding '&' or '=' cannot forge another
// parameter set.
func (kb *KeyBuilderImpl) Build(category string, params models.Params) (models.CacheKey, error) {
	if err := ValidateCategory(category); err != nil {
		return models.CacheKey{}, err
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		value, err := formatValue(params[name])
		if err != nil {
			return models.CacheKey{}, fmt.Errorf("param %q: %w", name, err)
		}
		pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(value))
	}

	return models.CacheKey{
		Category: category,
		YearTag:  yearTag(params),
		Value:    category + "/" + strings.Join(pairs, "&"),
	}, nil
}

// ValidateCategory rejects categories that are empty or could escape the
// category directory or prefix of a backend
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return ErrEmptyCategory
	}
	if category == "." || category == ".." || strings.ContainsAny(category, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return nil
}

func formatValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedParam, v)
	}
}

func yearTag(params models.Params) int {
	switch y := params[YearParam].(type) {
	case int:
		return y
	case int32:
		return int(y)
	case int64:
		return int(y)
	case string:
		if n, err := strconv.Atoi(y); err == nil {
			return n
		}
	}
	return 0
}
