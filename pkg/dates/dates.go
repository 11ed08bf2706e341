// Package dates normalizes the timestamps published by parking operators to
// UTC. All results use the ISO layout without fractional seconds and without
// a zone suffix, e.g. "2020-01-15T09:00:00".
package dates

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is assumed for timestamps that carry no zone.
const DefaultTimezone = "Europe/Berlin"

// ISOLayout is the output layout. The value is always UTC.
const ISOLayout = "2006-01-02T15:04:05"

var now = time.Now

// FormatError reports a value that does not match its strptime format.
type FormatError struct {
	Value  string
	Format string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("time data %q does not match format %q: %s", e.Value, e.Format, e.Reason)
}

// UnknownTimezoneError reports a zone name missing from the zone database.
type UnknownTimezoneError struct {
	Name string
	Err  error
}

func (e *UnknownTimezoneError) Error() string {
	return fmt.Sprintf("unknown timezone %q", e.Name)
}

func (e *UnknownTimezoneError) Unwrap() error { return e.Err }

// UTCNow returns the current time in UTC, truncated to whole seconds.
func UTCNow() string {
	return format(now())
}

// ConvertDate parses value with a strptime format such as "%d.%m.%Y %H:%M",
// reads it as wall clock time in DefaultTimezone and returns it in UTC.
func ConvertDate(value, layout string) (string, error) {
	return ConvertDateIn(value, layout, DefaultTimezone)
}

// ConvertDateIn is ConvertDate for an explicit IANA zone name. Wall clock
// times that fall into a DST gap or overlap are resolved the way time.Date
// resolves them.
func ConvertDateIn(value, layout, timezone string) (string, error) {
	c, err := strptime(value, layout)
	if err != nil {
		return "", err
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		return "", err
	}
	return format(c.in(loc)), nil
}

func loadLocation(name string) (*time.Location, error) {
	// LoadLocation maps "" and "Local" to zones that are not in the database.
	if name == "" || name == "Local" {
		return nil, &UnknownTimezoneError{Name: name}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &UnknownTimezoneError{Name: name, Err: err}
	}
	return loc, nil
}

func format(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(ISOLayout)
}
