package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Snapshot is the per-city document written by the scraper between runs.
type Snapshot struct {
	Lots []Lot `json:"lots"`
}

// Lot is a single cached record. Fields other than name and total are ignored.
type Lot struct {
	// RawName is kept undecoded so a record with a non-string name does not
	// spoil the rest of the snapshot.
	RawName json.RawMessage `json:"name"`
	Total   Total           `json:"total"`
}

// NewLot builds a record with a string name.
func NewLot(name string, total Total) Lot {
	raw, _ := json.Marshal(name)
	return Lot{RawName: raw, Total: total}
}

// Name returns the record's name and false when it is missing or not a
// JSON string.
func (l Lot) Name() (string, bool) {
	raw := bytes.TrimSpace(l.RawName)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", false
	}
	return name, true
}

// Total holds the raw JSON value of a lot's capacity. Scrapers write it either
// as a string or as a number, so it is only coerced when asked for.
type Total json.RawMessage

func (t *Total) UnmarshalJSON(data []byte) error {
	*t = append((*t)[:0], data...)
	return nil
}

func (t Total) MarshalJSON() ([]byte, error) {
	if len(t) == 0 {
		return []byte("null"), nil
	}
	return t, nil
}

// Int coerces the total to an integer. Strings must hold a base 10 integer,
// surrounding whitespace allowed. Numbers are truncated toward zero.
func (t Total) Int() (int, error) {
	raw := bytes.TrimSpace(t)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errors.New("total is missing")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("total is not a valid string: %w", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("total %q is not an integer", s)
		}
		return n, nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("total %s is neither string nor number", raw)
	}
	if n, err := num.Int64(); err == nil {
		return int(n), nil
	}
	f, err := num.Float64()
	if err != nil || math.Abs(f) >= math.MaxInt64 {
		return 0, fmt.Errorf("total %s is out of range", raw)
	}
	return int(math.Trunc(f)), nil
}

// ParseSnapshot decodes a cache document. A JSON null yields a nil snapshot
// and no error.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap *Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}
