package ntime

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// NTime represents a nullable time.Time.
// It can be used as a scan destination and can be marshalled to JSON.
type NTime struct {
	time    time.Time
	isValid bool // false when the time is null
}

// UnmarshalJSON parses a RFC3339 time string into a time.Time object
func (nt *NTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*nt = NTime{}
		return nil
	}
	parsedTime, err := time.Parse(`"`+time.RFC3339+`"`, string(b))
	if err != nil {
		return err
	}
	*nt = NTime{parsedTime, true}
	return nil
}

// MarshalJSON implements the Marshaller interface and operates on values rather than pointers, given NTime's heft.
func (nt NTime) MarshalJSON() ([]byte, error) {
	// the quotes are necessary for valid JSON strings
	if nt.isValid {
		return []byte(fmt.Sprintf("\"%s\"", nt.time.UTC().Format(time.RFC3339))), nil
	}
	return []byte("null"), nil
}

// Scan implements the Scanner interface.
func (nt *NTime) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		nt.time, nt.isValid = v, true
	case string:
		// sqlite may hand back the stored RFC3339 string rather than a time.Time
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return err
		}
		nt.time, nt.isValid = parsed, true
	default:
		*nt = NTime{}
	}
	return nil
}

// Value implements the driver Valuer interface.
func (nt NTime) Value() (driver.Value, error) {
	if nt.isValid {
		return driver.Value(nt.time.UTC().Format(time.RFC3339)), nil
	}
	return nil, nil
}

func Now() NTime {
	return NTime{time: time.Now().UTC(), isValid: true}
}

func FromTime(t time.Time) NTime {
	return NTime{time: t, isValid: true}
}

// Today returns the current date truncated to midnight UTC; acquisition dates carry no time of day.
func Today() NTime {
	var y, m, d = time.Now().UTC().Date()
	return NTime{time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), isValid: true}
}

func (nt *NTime) Before(compared NTime) bool {
	return nt.time.Before(compared.time)
}

func (nt NTime) IsValid() bool {
	return nt.isValid
}

func (nt NTime) Time() time.Time {
	return nt.time
}
