package services

import (
	"context"

	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/store"
	"github.com/sanzuisann/my-chat-app/internal/validate"
)

// CharacterService manages persona definitions.
type CharacterService struct {
	store store.Store
}

func NewCharacterService(s store.Store) *CharacterService { return &CharacterService{store: s} }

// CreateCharacter stores a new persona. A taken name yields model.ErrConflict.
func (s *CharacterService) CreateCharacter(ctx context.Context, c *model.Character) (*model.Character, error) {
	if err := validate.Character(c); err != nil {
		return nil, err
	}
	return s.store.Characters().Create(ctx, c)
}

func (s *CharacterService) GetCharacter(ctx context.Context, characterID string) (*model.Character, error) {
	return s.store.Characters().Get(ctx, characterID)
}

func (s *CharacterService) GetCharacterByName(ctx context.Context, name string) (*model.Character, error) {
	return s.store.Characters().GetByName(ctx, name)
}

func (s *CharacterService) ListCharacters(ctx context.Context) ([]*model.Character, error) {
	return s.store.Characters().List(ctx)
}

// UpdateCharacter applies patch to the character called name. Only fields
// present in the patch change.
func (s *CharacterService) UpdateCharacter(ctx context.Context, name string, patch model.CharacterPatch) (*model.Character, error) {
	c, err := s.store.Characters().GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := validate.UpdatedCharacter(c); err != nil {
		return nil, err
	}
	return s.store.Characters().Update(ctx, c)
}

// DeleteCharacter removes the character together with its constructs,
// relationship states and conversation log.
func (s *CharacterService) DeleteCharacter(ctx context.Context, characterID string) error {
	return s.store.Characters().Delete(ctx, characterID)
}
