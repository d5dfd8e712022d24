// Package seed loads persona definitions from a YAML file at startup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

// File is the seed document: a top-level list under "characters".
type File struct {
	Characters []model.CharacterSpec `yaml:"characters"`
}

// CharacterStore is the subset of the character service the seeder needs.
type CharacterStore interface {
	GetCharacterByName(ctx context.Context, name string) (*model.Character, error)
	CreateCharacter(ctx context.Context, c *model.Character) (*model.Character, error)
}

// Load parses path.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &f, nil
}

// Apply creates each character whose name is not stored yet and returns how
// many were created. Existing characters are left as they are.
func Apply(ctx context.Context, cs CharacterStore, f *File, log zerolog.Logger) (int, error) {
	created := 0
	for _, spec := range f.Characters {
		_, err := cs.GetCharacterByName(ctx, spec.Name)
		if err == nil {
			log.Debug().Str("name", spec.Name).Msg("seed character exists")
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return created, err
		}
		c := spec.Character()
		if _, err := cs.CreateCharacter(ctx, &c); err != nil {
			return created, fmt.Errorf("seed %q: %w", spec.Name, err)
		}
		log.Info().Str("name", spec.Name).Msg("seeded character")
		created++
	}
	return created, nil
}
