package model

import (
	"time"
)

// APITimeFormat is the timestamp format used by the REST API, always
// rendered in UTC.
const APITimeFormat = "\"2006-01-02T15:04:05.000Z\""

type APITime time.Time

// NewTime creates a new APITime from a time.Time, normalizing the
// location to UTC.
func NewTime(t time.Time) APITime {
	return APITime(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(),
		t.Minute(), t.Second(), t.Nanosecond(), t.Location()).In(time.FixedZone("", 0)))
}

func (at APITime) MarshalJSON() ([]byte, error) {
	t := time.Time(at)
	if t.IsZero() {
		return []byte("null"), nil
	}

	return []byte(t.Format(APITimeFormat)), nil
}

func (at *APITime) UnmarshalJSON(b []byte) error {
	str := string(b)
	t := time.Time{}
	var err error
	if str != "null" {
		t, err = time.ParseInLocation(APITimeFormat, str, time.FixedZone("", 0))
		if err != nil {
			return err
		}
	}

	*at = APITime(t)
	return nil
}
