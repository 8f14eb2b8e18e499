package league

import (
	"fmt"
	"strconv"
	"strings"
)

// League is one competition the ingestion pipeline fetches.
type League struct {
	ID   int64
	Name string
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id must be > 0")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league %d: name is required", l.ID)
	}
	return nil
}

// DefaultCatalogue is used when no league list is configured.
func DefaultCatalogue() []League {
	return []League{
		{ID: 39, Name: "Premier League"},
		{ID: 140, Name: "La Liga"},
		{ID: 135, Name: "Serie A"},
		{ID: 78, Name: "Bundesliga"},
		{ID: 61, Name: "Ligue 1"},
		{ID: 2, Name: "UEFA Champions League"},
	}
}

// Filter keeps the leagues matching any key, compared by id or by
// case-insensitive name, in catalogue order. No keys returns all leagues.
func Filter(leagues []League, keys []string) ([]League, error) {
	if len(keys) == 0 {
		return append([]League(nil), leagues...), nil
	}

	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[strings.ToLower(strings.TrimSpace(key))] = false
	}

	out := make([]League, 0, len(keys))
	for _, l := range leagues {
		idKey := strconv.FormatInt(l.ID, 10)
		nameKey := strings.ToLower(l.Name)
		_, byID := wanted[idKey]
		_, byName := wanted[nameKey]
		if !byID && !byName {
			continue
		}
		if byID {
			wanted[idKey] = true
		}
		if byName {
			wanted[nameKey] = true
		}
		out = append(out, l)
	}

	for key, matched := range wanted {
		if !matched {
			return nil, fmt.Errorf("unknown league %q", key)
		}
	}
	return out, nil
}
