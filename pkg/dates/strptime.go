package dates

import (
	"fmt"
	"strings"
	"time"
)

// clock is a naive date and time as read from a strptime format.
type clock struct {
	year, month, day     int
	hour, minute, second int
	micro                int
	yday                 int
}

func (c clock) in(loc *time.Location) time.Time {
	return time.Date(c.year, time.Month(c.month), c.day, c.hour, c.minute, c.second, c.micro*1000, loc)
}

type scanner struct {
	value  string
	layout string
	pos    int
}

func (s *scanner) fail(reason string, args ...any) error {
	return &FormatError{Value: s.value, Format: s.layout, Reason: fmt.Sprintf(reason, args...)}
}

// number reads between min and max ASCII digits.
func (s *scanner) number(minDigits, maxDigits int) (int, bool) {
	n, i := 0, 0
	for ; i < maxDigits && s.pos+i < len(s.value); i++ {
		c := s.value[s.pos+i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	if i < minDigits {
		return 0, false
	}
	s.pos += i
	return n, true
}

// field reads a number for a directive. When the longest run of digits is
// out of range it gives digits back, so "%H%M" reads "930" as 9 and 30.
func (s *scanner) field(name string, minDigits, maxDigits, lo, hi int) (int, error) {
	start := s.pos
	n, ok := s.number(minDigits, maxDigits)
	if !ok {
		return 0, s.fail("expected %s at offset %d", name, start)
	}
	for width := s.pos - start; n < lo || n > hi; width-- {
		if width <= minDigits {
			s.pos = start
			return 0, s.fail("%s %d out of range", name, n)
		}
		s.pos = start
		n, _ = s.number(minDigits, width-1)
	}
	return n, nil
}

// word matches the longest candidate, ignoring case, and returns its index.
func (s *scanner) word(candidates []string) (int, bool) {
	best, bestLen := -1, 0
	rest := s.value[s.pos:]
	for i, c := range candidates {
		if len(c) > bestLen && len(rest) >= len(c) && strings.EqualFold(rest[:len(c)], c) {
			best, bestLen = i, len(c)
		}
	}
	if best < 0 {
		return 0, false
	}
	s.pos += bestLen
	return best, true
}

func (s *scanner) spaces() bool {
	start := s.pos
	for s.pos < len(s.value) && isSpace(s.value[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// sameByte compares ASCII letters without regard to case and everything else
// byte for byte.
func sameByte(a, b byte) bool {
	if a == b {
		return true
	}
	lower := func(c byte) byte {
		if c >= 'A' && c <= 'Z' {
			return c + 'a' - 'A'
		}
		return c
	}
	return lower(a) == lower(b)
}

var monthNames, weekdayNames []string

func init() {
	for m := time.January; m <= time.December; m++ {
		monthNames = append(monthNames, m.String(), m.String()[:3])
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdayNames = append(weekdayNames, d.String(), d.String()[:3])
	}
}

// strptime parses value according to a C-style format. Unset fields default
// to 1900-01-01 00:00:00. A run of whitespace in the format matches one or
// more whitespace characters, and literals compare case-insensitively.
func strptime(value, layout string) (clock, error) {
	s := &scanner{value: value, layout: layout}
	c := clock{year: 1900, month: 1, day: 1}
	hour12, pm := -1, false

	for i := 0; i < len(layout); i++ {
		ch := layout[i]
		switch {
		case isSpace(ch):
			for i+1 < len(layout) && isSpace(layout[i+1]) {
				i++
			}
			if !s.spaces() {
				return clock{}, s.fail("expected whitespace at offset %d", s.pos)
			}
			continue
		case ch != '%':
			if s.pos >= len(s.value) || !sameByte(s.value[s.pos], ch) {
				return clock{}, s.fail("expected %q at offset %d", ch, s.pos)
			}
			s.pos++
			continue
		}

		i++
		if i >= len(layout) {
			return clock{}, s.fail("stray %% at end of format")
		}

		var err error
		switch d := layout[i]; d {
		case 'Y':
			c.year, err = s.field("year", 4, 4, 1, 9999)
		case 'y':
			var y int
			if y, err = s.field("year", 2, 2, 0, 99); err == nil {
				if y < 69 {
					c.year = 2000 + y
				} else {
					c.year = 1900 + y
				}
			}
		case 'm':
			c.month, err = s.field("month", 1, 2, 1, 12)
		case 'd':
			c.day, err = s.field("day", 1, 2, 1, 31)
		case 'H':
			c.hour, err = s.field("hour", 1, 2, 0, 23)
		case 'I':
			hour12, err = s.field("hour", 1, 2, 1, 12)
		case 'M':
			c.minute, err = s.field("minute", 1, 2, 0, 59)
		case 'S':
			c.second, err = s.field("second", 1, 2, 0, 59)
		case 'j':
			c.yday, err = s.field("day of year", 1, 3, 1, 366)
		case 'f':
			start := s.pos
			var frac int
			if frac, err = s.field("fraction", 1, 6, 0, 999999); err == nil {
				for n := s.pos - start; n < 6; n++ {
					frac *= 10
				}
				c.micro = frac
			}
		case 'p':
			idx, ok := s.word([]string{"AM", "PM"})
			if !ok {
				return clock{}, s.fail("expected AM or PM at offset %d", s.pos)
			}
			pm = idx == 1
		case 'b', 'B', 'h':
			idx, ok := s.word(monthNames)
			if !ok {
				return clock{}, s.fail("expected month name at offset %d", s.pos)
			}
			c.month = idx/2 + 1
		case 'a', 'A':
			if _, ok := s.word(weekdayNames); !ok {
				return clock{}, s.fail("expected weekday name at offset %d", s.pos)
			}
		case '%':
			if s.pos >= len(s.value) || s.value[s.pos] != '%' {
				return clock{}, s.fail("expected '%%' at offset %d", s.pos)
			}
			s.pos++
		default:
			return clock{}, s.fail("unsupported directive %%%c", d)
		}
		if err != nil {
			return clock{}, err
		}
	}

	if s.pos < len(s.value) {
		return clock{}, s.fail("unconverted data remains: %q", s.value[s.pos:])
	}

	if hour12 >= 0 {
		c.hour = hour12 % 12
		if pm {
			c.hour += 12
		}
	}

	if c.yday > 0 {
		t := time.Date(c.year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, c.yday-1)
		if t.Year() != c.year {
			return clock{}, s.fail("day of year %d out of range", c.yday)
		}
		c.month, c.day = int(t.Month()), t.Day()
	}

	if last := daysIn(c.year, c.month); c.day > last {
		return clock{}, s.fail("day %d out of range for month %d", c.day, c.month)
	}
	return c, nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
