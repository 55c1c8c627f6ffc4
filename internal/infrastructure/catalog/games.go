// Package catalog resolves the short game keys typed in /rise up.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"riseup/internal/domain/entities"
	"riseup/internal/ports/output"
)

var _ output.GameCatalog = (*Games)(nil)

type gameEntry struct {
	Name string `toml:"name"`
	Img  string `toml:"img"`
}

type gamesFile struct {
	Games map[string]gameEntry `toml:"games"`
}

// Games is an immutable catalog of known games keyed by lower-case key.
type Games struct {
	games map[string]gameEntry
}

// Parse reads a catalog such as:
//
//	[games.wz]
//	name = "Warzone"
//	img = "assets/games/wz.png"
func Parse(data []byte) (*Games, error) {
	var f gamesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse games: %w", err)
	}
	g := &Games{games: make(map[string]gameEntry, len(f.Games))}
	for key, e := range f.Games {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("parse games: %q has no name", key)
		}
		g.games[strings.ToLower(key)] = e
	}
	return g, nil
}

// Load reads the catalog file at path. A missing file yields an empty
// catalog.
func Load(path string) (*Games, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Games{games: map[string]gameEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read games: %w", err)
	}
	return Parse(data)
}

// Lookup returns the game for key. Unknown games are named after the key
// and have no art.
func (g *Games) Lookup(key string) entities.Activity {
	key = strings.TrimSpace(key)
	if e, ok := g.games[strings.ToLower(key)]; ok {
		return entities.Activity{Key: key, Name: e.Name, ImagePath: e.Img}
	}
	return entities.Activity{Key: key, Name: key}
}

// Len returns the number of known games.
func (g *Games) Len() int { return len(g.games) }
