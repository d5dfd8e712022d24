package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

func TestCharacters_CreateUpdateDelete(t *testing.T) {
	s := newStore(t)
	svc := NewCharacterService(s)
	ctx := context.Background()

	open := 0.9
	spec := model.CharacterSpec{
		Name: "Aria", Personality: "kind", Openness: &open,
		Tone: strPtr("soft"), Prohibited: []string{"politics"},
	}
	c := spec.Character()
	created, err := svc.CreateCharacter(ctx, &c)
	require.NoError(t, err)
	assert.Equal(t, 0.9, created.Openness)
	assert.Equal(t, model.DefaultTrait, created.Neuroticism)

	dup := spec.Character()
	_, err = svc.CreateCharacter(ctx, &dup)
	assert.ErrorIs(t, err, model.ErrConflict)

	world := "Skyhaven"
	updated, err := svc.UpdateCharacter(ctx, "Aria", model.CharacterPatch{World: &world})
	require.NoError(t, err)
	require.NotNil(t, updated.World)
	assert.Equal(t, "Skyhaven", *updated.World)
	assert.Equal(t, "soft", *updated.Tone)
	assert.Equal(t, []string{"politics"}, updated.Prohibited)
	assert.Equal(t, 0.9, updated.Openness)

	bad := 2.0
	_, err = svc.UpdateCharacter(ctx, "Aria", model.CharacterPatch{Openness: &bad})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.UpdateCharacter(ctx, "Nobody", model.CharacterPatch{World: &world})
	assert.ErrorIs(t, err, model.ErrNotFound)

	u, err := NewUserService(s).CreateUser(ctx, &model.User{Username: "p1"})
	require.NoError(t, err)
	_, err = NewHistoryService(s).AppendTurn(ctx, &model.Turn{UserID: u.ID, CharacterID: created.ID, Role: model.RoleUser, Message: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCharacter(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteCharacter(ctx, created.ID), model.ErrNotFound)
	turns, err := NewHistoryService(s).ListTurns(ctx, u.ID, created.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)

	list, err := svc.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUsers_Create(t *testing.T) {
	s := newStore(t)
	svc := NewUserService(s)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, &model.User{Username: "player"})
	require.NoError(t, err)
	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "player", got.Username)

	_, err = svc.CreateUser(ctx, &model.User{Username: "player"})
	assert.ErrorIs(t, err, model.ErrConflict)
	_, err = svc.CreateUser(ctx, &model.User{Username: ""})
	assert.ErrorIs(t, err, model.ErrValidation)
}
