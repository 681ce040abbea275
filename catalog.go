package bikeshare

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownCity = errors.New("unknown city")

// Maps a city's lower case name to the file holding its trip log.
type Catalog map[string]string

// The three cities bikeshare ships data for.
var DefaultCatalog = Catalog{
	"chicago":       "chicago.csv",
	"new york city": "new_york_city.csv",
	"washington":    "washington.csv",
}

// Resolves a city name, case insensitively, to its file name.
func (c Catalog) File(city string) (string, error) {
	file, found := c[strings.ToLower(strings.TrimSpace(city))]
	if !found {
		return "", fmt.Errorf("%w: '%s'", ErrUnknownCity, city)
	}
	return file, nil
}

// City names, sorted.
func (c Catalog) Cities() []string {
	cities := make([]string, 0, len(c))
	for city := range c {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}
