package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/LanceSports/LanceSports-sub000/internal/domain/league"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type leaguesFile struct {
	Leagues []leagueEntry `yaml:"leagues" validate:"required,min=1,dive"`
}

type leagueEntry struct {
	Name string `yaml:"name" validate:"required,max=64"`
	ID   int64  `yaml:"id" validate:"required,gt=0"`
}

// loadLeagues resolves the league catalogue. The inline list wins over the
// file; with neither set the built-in catalogue is used.
func loadLeagues(inline, path string) ([]league.League, error) {
	var (
		out []league.League
		err error
	)
	switch {
	case strings.TrimSpace(inline) != "":
		out, err = parseLeagueList(inline)
		if err != nil {
			return nil, fmt.Errorf("parse LEAGUES: %w", err)
		}
	case strings.TrimSpace(path) != "":
		out, err = readLeaguesFile(strings.TrimSpace(path))
		if err != nil {
			return nil, fmt.Errorf("read LEAGUES_FILE: %w", err)
		}
	default:
		return league.DefaultCatalogue(), nil
	}

	seen := make(map[int64]struct{}, len(out))
	for _, item := range out {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("league %d listed twice", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return out, nil
}

// parseLeagueList reads "Premier League:39,La Liga:140".
func parseLeagueList(raw string) ([]league.League, error) {
	out := make([]league.League, 0, 8)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		idx := strings.LastIndex(item, ":")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid league item %q, expected name:id", item)
		}
		leagueID, err := strconv.ParseInt(strings.TrimSpace(item[idx+1:]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid league id in item %q: %w", item, err)
		}
		out = append(out, league.League{ID: leagueID, Name: strings.TrimSpace(item[:idx])})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no leagues listed")
	}
	return out, nil
}

func readLeaguesFile(path string) ([]league.League, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc leaguesFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	out := make([]league.League, 0, len(doc.Leagues))
	for _, entry := range doc.Leagues {
		out = append(out, league.League{ID: entry.ID, Name: strings.TrimSpace(entry.Name)})
	}
	return out, nil
}
