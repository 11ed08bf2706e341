package dates

import (
	"errors"
	"testing"
	"time"
)

func TestConvertDateIn(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		layout   string
		timezone string
		expected string
	}{
		{"winter time", "2020-01-15 10:00", "%Y-%m-%d %H:%M", "Europe/Berlin", "2020-01-15T09:00:00"},
		{"summer time", "2020-07-15 10:00", "%Y-%m-%d %H:%M", "Europe/Berlin", "2020-07-15T08:00:00"},
		{"german layout", "03.11.2019 17:45:12", "%d.%m.%Y %H:%M:%S", "Europe/Berlin", "2019-11-03T16:45:12"},
		{"fraction dropped", "2019-11-03 17:45:12.987654", "%Y-%m-%d %H:%M:%S.%f", "Europe/Berlin", "2019-11-03T16:45:12"},
		{"day boundary", "01.01.2020 00:30", "%d.%m.%Y %H:%M", "Europe/Berlin", "2019-12-31T23:30:00"},
		{"other zone", "2020-01-15 10:00", "%Y-%m-%d %H:%M", "America/New_York", "2020-01-15T15:00:00"},
		{"utc", "2020-01-15 10:00", "%Y-%m-%d %H:%M", "UTC", "2020-01-15T10:00:00"},
		{"month name and 12h clock", "15 Jan 2020 10:05 PM", "%d %b %Y %I:%M %p", "UTC", "2020-01-15T22:05:00"},
		{"full month name", "15. März", "%d. März", "UTC", "1900-01-15T00:00:00"},
		{"english full month", "February 29, 2020", "%B %d, %Y", "UTC", "2020-02-29T00:00:00"},
		{"weekday ignored", "Wed, 15.01.2020", "%a, %d.%m.%Y", "UTC", "2020-01-15T00:00:00"},
		{"midnight 12 AM", "12:15 am", "%I:%M %p", "UTC", "1900-01-01T00:15:00"},
		{"two digit year", "15.01.20", "%d.%m.%y", "UTC", "2020-01-15T00:00:00"},
		{"day of year", "2020 060", "%Y %j", "UTC", "2020-02-29T00:00:00"},
		{"single digit fields", "5.1.2020 9:03", "%d.%m.%Y %H:%M", "UTC", "2020-01-05T09:03:00"},
		{"whitespace runs", "2020-01-15   10:00", "%Y-%m-%d %H:%M", "UTC", "2020-01-15T10:00:00"},
		{"literal percent", "50% 2020", "50%% %Y", "UTC", "2020-01-01T00:00:00"},
		{"hour gives back a digit", "930", "%H%M", "UTC", "1900-01-01T09:30:00"},
		{"day gives back a digit", "5012020", "%d%m%Y", "UTC", "2020-01-05T00:00:00"},
		{"packed two digit fields", "1203", "%H%M", "UTC", "1900-01-01T12:03:00"},
		{"case insensitive literal", "Stand: 2020-01-15t10:00", "stand: %Y-%m-%dT%H:%M", "UTC", "2020-01-15T10:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertDateIn(tt.value, tt.layout, tt.timezone)
			if err != nil {
				t.Fatalf("ConvertDateIn(%q, %q, %q) returned error: %v", tt.value, tt.layout, tt.timezone, err)
			}
			if got != tt.expected {
				t.Errorf("ConvertDateIn(%q, %q, %q) = %q; want %q", tt.value, tt.layout, tt.timezone, got, tt.expected)
			}
		})
	}
}

func TestConvertDate_DefaultsToBerlin(t *testing.T) {
	got, err := ConvertDate("2020-01-15 10:00", "%Y-%m-%d %H:%M")
	if err != nil {
		t.Fatalf("ConvertDate returned error: %v", err)
	}
	if got != "2020-01-15T09:00:00" {
		t.Errorf("ConvertDate = %q; want %q", got, "2020-01-15T09:00:00")
	}
}

func TestConvertDate_FormatError(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		layout string
	}{
		{"wrong separator", "2020/01/15", "%Y-%m-%d"},
		{"trailing data", "2020-01-15 10:00", "%Y-%m-%d"},
		{"missing data", "2020-01", "%Y-%m-%d"},
		{"month out of range", "2020-13-01", "%Y-%m-%d"},
		{"day out of range for month", "2021-02-29", "%Y-%m-%d"},
		{"hour out of range", "24:00", "%H:%M"},
		{"unsupported directive", "2020", "%G"},
		{"stray percent", "2020", "%Y%"},
		{"not a month name", "15 Foo 2020", "%d %b %Y"},
		{"short year", "20-01-15", "%Y-%m-%d"},
		{"non ascii literal", "ö", "ä"},
		{"utc offset not accepted", "2020-01-15 10:00 +0100", "%Y-%m-%d %H:%M %z"},
		{"no shorter field fits", "0", "%d"},
		{"day of year too large", "400", "%j"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertDateIn(tt.value, tt.layout, DefaultTimezone)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("ConvertDateIn(%q, %q) error = %v; want FormatError", tt.value, tt.layout, err)
			}
		})
	}
}

func TestConvertDate_UnknownTimezone(t *testing.T) {
	for _, tz := range []string{"Europe/Atlantis", "", "Local", "not a zone"} {
		t.Run(tz, func(t *testing.T) {
			_, err := ConvertDateIn("2020-01-15 10:00", "%Y-%m-%d %H:%M", tz)
			var ute *UnknownTimezoneError
			if !errors.As(err, &ute) {
				t.Fatalf("ConvertDateIn with zone %q error = %v; want UnknownTimezoneError", tz, err)
			}
			if ute.Name != tz {
				t.Errorf("Name = %q; want %q", ute.Name, tz)
			}
		})
	}
}

func TestConvertDate_FormatCheckedBeforeZone(t *testing.T) {
	_, err := ConvertDateIn("garbage", "%Y", "Europe/Atlantis")
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v; want FormatError", err)
	}
}

func TestUTCNow(t *testing.T) {
	before := time.Now().UTC().Truncate(time.Second)
	got := UTCNow()
	after := time.Now().UTC()

	parsed, err := time.Parse(ISOLayout, got)
	if err != nil {
		t.Fatalf("UTCNow() = %q is not in ISO layout: %v", got, err)
	}
	if parsed.Nanosecond() != 0 {
		t.Errorf("UTCNow() = %q carries sub-second precision", got)
	}
	if parsed.Before(before) || parsed.After(after) {
		t.Errorf("UTCNow() = %q not within [%s, %s]", got, before, after)
	}
}

func TestUTCNow_ConvertsFromLocal(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	orig := now
	now = func() time.Time { return time.Date(2021, time.June, 1, 12, 30, 45, 999_000_000, berlin) }
	defer func() { now = orig }()

	if got := UTCNow(); got != "2021-06-01T10:30:45" {
		t.Errorf("UTCNow() = %q; want %q", got, "2021-06-01T10:30:45")
	}
}
