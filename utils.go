package textcanon

import (
	"strings"

	"github.com/pkg/errors"
)

// UnitKeySeparator joins the components of a unit key.
const UnitKeySeparator = "|"

// UnitCoordinates locates a text content within its (source, book) scope.
type UnitCoordinates struct {
	SourceCode string `json:"sourceCode"`
	BookCode   string `json:"bookCode"`
	UnitGroup  string `json:"unitGroup"`
	Unit       string `json:"unit"`
}

// Key derives the unit key of the coordinates.
func (c UnitCoordinates) Key() (string, bool) {
	return DeriveUnitKey(c.SourceCode, c.BookCode, c.UnitGroup, c.Unit)
}

// DeriveUnitKey returns "{source}|{book}|{group}|{unit}". It reports false and
// an empty key when any component is empty.
func DeriveUnitKey(sourceCode, bookCode, unitGroup, unit string) (string, bool) {
	if sourceCode == "" || bookCode == "" || unitGroup == "" || unit == "" {
		return "", false
	}
	return strings.Join([]string{sourceCode, bookCode, unitGroup, unit}, UnitKeySeparator), true
}

// SplitUnitKey is the inverse of DeriveUnitKey.
func SplitUnitKey(key string) (UnitCoordinates, error) {
	parts := strings.Split(key, UnitKeySeparator)
	if len(parts) != 4 {
		return UnitCoordinates{}, errors.Errorf("invalid unit key %q: expected 4 components, got %d", key, len(parts))
	}
	for _, p := range parts {
		if p == "" {
			return UnitCoordinates{}, errors.Errorf("invalid unit key %q: empty component", key)
		}
	}
	return UnitCoordinates{
		SourceCode: parts[0],
		BookCode:   parts[1],
		UnitGroup:  parts[2],
		Unit:       parts[3],
	}, nil
}

// IsKeyComponent reports whether s can be used as a unit key component
// without making the key ambiguous.
func IsKeyComponent(s string) bool {
	return !strings.Contains(s, UnitKeySeparator)
}
