package domain

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	jsoniter "github.com/json-iterator/go"
)

// DateLayout is the calendar date format used for order dates.
const DateLayout = "2006-01-02"

// Time accepts the loosely formatted datetimes the gateway emits
// (naive ISO timestamps, date-only strings).
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	v, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return jsoniter.Marshal(t.Format(time.RFC3339))
}

// Date renders the calendar day, empty for the zero value.
func (t Time) Date() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
