package scraper

import (
	"sort"
	"strings"
)

var registry = map[string]Scraper{}

// Register adds a scraper under its lower-cased name. Site packages call
// this from init.
func Register(s Scraper) {
	registry[strings.ToLower(s.Name())] = s
}

// Get looks up a scraper by name.
func Get(name string) (Scraper, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// Names lists the registered scraper names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
