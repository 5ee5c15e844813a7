package ntime

import (
	"database/sql/driver"
	"strconv"
)

// NYear represents a nullable year, as carried by artist birth/death dates and artwork creation
// dates. Two null years compare as equal for artist matching purposes.
type NYear struct {
	year    int
	isValid bool
}

func NewYear(year int) NYear {
	return NYear{year, true}
}

func (ny *NYear) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*ny = NYear{}
		return nil
	}
	parsed, err := strconv.Atoi(string(b))
	if err != nil {
		return err
	}
	*ny = NYear{parsed, true}
	return nil
}

func (ny NYear) MarshalJSON() ([]byte, error) {
	if ny.isValid {
		return []byte(strconv.Itoa(ny.year)), nil
	}
	return []byte("null"), nil
}

// Scan implements the Scanner interface.
func (ny *NYear) Scan(value any) error {
	switch v := value.(type) {
	case int64:
		*ny = NYear{int(v), true}
	default:
		*ny = NYear{}
	}
	return nil
}

// Value implements the driver Valuer interface.
func (ny NYear) Value() (driver.Value, error) {
	if ny.isValid {
		return driver.Value(int64(ny.year)), nil
	}
	return nil, nil
}

func (ny NYear) IsValid() bool {
	return ny.isValid
}

func (ny NYear) Year() int {
	return ny.year
}

// Equals performs a null-safe comparison: two null years match.
func (ny NYear) Equals(other NYear) bool {
	if !ny.isValid && !other.isValid {
		return true
	}
	return ny.isValid == other.isValid && ny.year == other.year
}
