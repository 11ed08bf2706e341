// Package keys derives the stable identifiers and object keys shared by the
// scrapers and the cache.
package keys

import (
	"path/filepath"
	"strings"
)

// No replacement produces one of the sources, so a single pass gives the same
// result as applying the table entry by entry.
var specialChars = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
	"-", "",
	" ", "",
	".", "",
	",", "",
	"'", "",
	`"`, "",
)

// RemoveSpecialChars transliterates umlauts and sharp s and drops spaces and
// punctuation. Case is left alone.
func RemoveSpecialChars(s string) string {
	return specialChars.Replace(s)
}

// GenerateID builds a lot ID from the scraper's source file and the lot name,
// e.g. ("/scrapers/hamburg.py", "Parkhaus Nord") -> "hamburgparkhausnord".
func GenerateID(sourcePath, lotName string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return RemoveSpecialChars(strings.ToLower(base + lotName))
}

// CacheObject returns the file name, and object key, of a city's snapshot.
func CacheObject(city string) string {
	return city + ".json"
}

// CityFromObject is the inverse of CacheObject. It reports false for keys that
// are not top-level snapshots.
func CityFromObject(key string) (string, bool) {
	if strings.ContainsAny(key, `/\`) || filepath.Ext(key) != ".json" {
		return "", false
	}
	city := strings.TrimSuffix(key, ".json")
	return city, city != ""
}
