// Package lastvalues answers "what total did we last see for this lot?" from
// snapshots cached by the scraper. It is used for cities that do not publish
// the capacity of their parking lots.
package lastvalues

import (
	"context"
	"errors"
	"fmt"
)

// Lookup resolves cached totals through a Source.
type Lookup struct {
	src Source
}

func NewLookup(src Source) *Lookup {
	return &Lookup{src: src}
}

// Total returns the cached total for lotName in city, or 0 when the city has
// no snapshot, the snapshot is null, or no record carries that name.
// If a name occurs more than once the last record wins.
func (l *Lookup) Total(ctx context.Context, city, lotName string) (int, error) {
	total, _, err := l.Find(ctx, city, lotName)
	return total, err
}

// Find is Total but also reports whether a record matched, which tells a
// missing lot apart from one cached with a total of 0.
func (l *Lookup) Find(ctx context.Context, city, lotName string) (int, bool, error) {
	snap, err := l.src.Load(ctx, city)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if snap == nil {
		return 0, false, nil
	}

	total, found := 0, false
	for _, lot := range snap.Lots {
		if name, ok := lot.Name(); !ok || name != lotName {
			continue
		}
		n, err := lot.Total.Int()
		if err != nil {
			return 0, false, &DataFormatError{City: city, Err: fmt.Errorf("lot %q: %w", lotName, err)}
		}
		total, found = n, true
	}
	return total, found, nil
}

// TotalFromFile looks lotName up in cache/<city>.json relative to the working
// directory.
func TotalFromFile(city, lotName string) (int, error) {
	return NewLookup(FileSource{Dir: DefaultDir}).Total(context.Background(), city, lotName)
}
