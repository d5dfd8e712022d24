package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

const (
	uid = "3f1c2b9e-5d4a-4c7b-9e2f-1a2b3c4d5e6f"
	cid = "8a7b6c5d-4e3f-4a1b-9c8d-7e6f5a4b3c2d"
)

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID("id", uid))
	assert.ErrorIs(t, UUID("id", ""), model.ErrValidation)
	assert.ErrorIs(t, UUID("id", "not-a-uuid"), model.ErrValidation)
}

func TestCharacter(t *testing.T) {
	c := model.CharacterSpec{Name: "Aria"}.Character()
	require.NoError(t, Character(&c))

	c.Name = " "
	assert.ErrorIs(t, Character(&c), model.ErrValidation)

	c.Name = "Aria"
	c.Openness = 1.2
	err := Character(&c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openness")

	c.Openness = 0.5
	c.Examples = []model.ExampleTurn{{User: "hi"}}
	assert.Error(t, Character(&c))

	long := strings.Repeat("x", maxTextLen+1)
	c.Examples = nil
	c.Background = &long
	assert.Error(t, UpdatedCharacter(&c))
}

func TestConstruct(t *testing.T) {
	c := &model.Construct{UserID: uid, CharacterID: cid, Name: "honesty", Axis: []string{"truth", "lie"}}
	require.NoError(t, Construct(c))

	c.Axis = nil
	assert.Error(t, Construct(c))
	c.Axis = []string{"truth", ""}
	assert.Error(t, Construct(c))
	c.Axis = []string{"solo"}
	assert.NoError(t, Construct(c))
	c.UserID = "u1"
	assert.Error(t, Construct(c))
}

func TestTurnAndExchange(t *testing.T) {
	tr := &model.Turn{UserID: uid, CharacterID: cid, Role: model.RoleUser, Message: "hi"}
	require.NoError(t, Turn(tr))
	tr.Role = "system"
	assert.Error(t, Turn(tr))

	assert.NoError(t, Exchange(uid, cid, "hello"))
	assert.Error(t, Exchange(uid, cid, ""))
	assert.Error(t, Exchange("x", cid, "hello"))
}

func TestParamAndUsername(t *testing.T) {
	assert.NoError(t, Param(model.ParamLiking))
	assert.NoError(t, Param(model.ParamTrust))
	assert.Error(t, Param("fear"))

	assert.NoError(t, Username("player1"))
	assert.Error(t, Username(""))
	assert.Error(t, Username(strings.Repeat("a", maxUsernameLen+1)))
}
