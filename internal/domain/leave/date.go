package leave

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

const secondsPerDay = 24 * 60 * 60

// Date is a calendar date without time of day. The zero value is an unset
// date, which is how an untouched form field is represented.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// ParseDate parses "YYYY-MM-DD". An empty string yields an unset date.
func ParseDate(s string) (Date, error) {
	if validator.IsEmpty(s) {
		return Date{}, nil
	}
	t, ok := validator.IsValidDate(s)
	if !ok {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t: t}, nil
}

func (d Date) IsSet() bool {
	return !d.t.IsZero()
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	if !d.IsSet() {
		return ""
	}
	return d.t.Format(validator.DateLayout)
}

// Before reports whether the date d is before u.
func (d Date) Before(u Date) bool {
	return d.t.Before(u.t)
}

func (d Date) Equal(u Date) bool {
	return d.t.Equal(u.t)
}

// DaysUntil returns the number of whole days from d to u. It works on Unix
// seconds since time.Duration cannot span more than about 292 years.
func (d Date) DaysUntil(u Date) int {
	return int((u.t.Unix() - d.t.Unix()) / secondsPerDay)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
