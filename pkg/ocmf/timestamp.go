package ocmf

import (
	"encoding/json"
	"strings"
	"time"
)

// TimeLayout is the wire form of a metering time: ISO 8601 with millisecond
// precision, a comma as the fraction separator and a numeric zone offset.
// The synchronization status letter follows after a single space.
const TimeLayout = "2006-01-02T15:04:05,000-0700"

// Timestamp couples a metering time with its synchronization status.
type Timestamp struct {
	Time   time.Time
	Status TimeStatus
}

// ParseTimestamp parses the wire form "2019-08-13T10:03:15,000+0000 S".
// A missing status letter defaults to TimeStatusUnknown.
func ParseTimestamp(s string) (Timestamp, error) {
	value := s
	status := TimeStatusUnknown
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		status = TimeStatus(s[i+1:])
		if !status.IsValid() {
			return Timestamp{}, FieldErrorf("TM", value, "unknown time status %q", s[i+1:])
		}
		s = s[:i]
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return Timestamp{}, FieldErrorf("TM", value, "invalid timestamp")
	}
	return Timestamp{Time: t, Status: status}, nil
}

// String returns the wire form, always including the status letter.
func (t Timestamp) String() string {
	return t.Time.Format(TimeLayout) + " " + string(t.Status)
}

// Before reports whether t is earlier than o.
func (t Timestamp) Before(o Timestamp) bool {
	return t.Time.Before(o.Time)
}

// IsZero reports whether t is the zero value.
func (t Timestamp) IsZero() bool {
	return t.Time.IsZero() && t.Status == ""
}

// MarshalJSON emits the wire form as a JSON string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON parses the wire form from a JSON string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return FieldErrorf("TM", string(data), "timestamp must be a JSON string")
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
