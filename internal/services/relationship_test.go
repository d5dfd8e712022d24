package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanzuisann/my-chat-app/internal/llm/llmtest"
	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/sentiment"
)

func newRelationshipService(t *testing.T, reply string, err error) (*RelationshipService, *llmtest.Fake, *model.User, *model.Character) {
	t.Helper()
	s := newStore(t)
	u, ch := seedPair(t, s)
	fake := &llmtest.Fake{Reply: reply, Err: err}
	ev := sentiment.NewEvaluator(fake, sentiment.Options{Model: "gpt-4o", Temperature: 0.3, MaxTokens: 80}, zerolog.Nop())
	return NewRelationshipService(s, ev, &stubIntent{value: "compliment"}), fake, u, ch
}

func TestEvaluate_DeltaIsAdditiveNotIdempotent(t *testing.T) {
	svc, _, u, ch := newRelationshipService(t, `Sure: {"score": 2, "reason": "kind words"}`, nil)
	ctx := context.Background()
	req := EvaluateRequest{UserID: u.ID, CharacterID: ch.ID, Param: model.ParamLiking, Message: "You are wonderful"}

	first, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Score)
	assert.Equal(t, 2, first.NewValue)
	assert.Equal(t, "kind words", first.Reason)
	assert.Equal(t, "compliment", first.Intent)

	second, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 4, second.NewValue)
}

func TestEvaluate_ZeroScoreLeavesValue(t *testing.T) {
	svc, fake, u, ch := newRelationshipService(t, `{"score": 3, "reason": "great"}`, nil)
	ctx := context.Background()
	req := EvaluateRequest{UserID: u.ID, CharacterID: ch.ID, Param: model.ParamLiking, Message: "hi"}

	_, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)

	fake.Reply = "I have no opinion."
	res, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Reason)
	assert.Equal(t, 3, res.NewValue)

	fake.Reply = ""
	fake.Err = errors.New("upstream down")
	res, err = svc.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 3, res.NewValue)
}

func TestEvaluate_TrustIsSeparate(t *testing.T) {
	svc, fake, u, ch := newRelationshipService(t, `{"score": -2, "reason": "evasive"}`, nil)
	ctx := context.Background()

	res, err := svc.Evaluate(ctx, EvaluateRequest{UserID: u.ID, CharacterID: ch.ID, Param: model.ParamTrust, Message: "trust me"})
	require.NoError(t, err)
	assert.Equal(t, -2, res.NewValue)
	assert.Contains(t, fake.Last().Messages[0].Content, "changes your trust")

	standings, err := svc.Standings(ctx, u.ID, ch.ID)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, model.ParamTrust, standings[0].Param)
	assert.Equal(t, -2, standings[0].Value)
	assert.Equal(t, 1, standings[0].Level)
}

func TestEvaluate_UsesCurrentLevelAndConstructs(t *testing.T) {
	svc, fake, u, ch := newRelationshipService(t, `{"score": 1}`, nil)
	ctx := context.Background()
	_, err := svc.store.Constructs().Create(ctx, &model.Construct{
		UserID: u.ID, CharacterID: ch.ID, Axis: []string{"truth", "lie"}, Name: "honesty", Importance: 4, Value: 1,
		BehaviorEffect: "Values candor.",
	})
	require.NoError(t, err)
	_, err = svc.store.Relationships().ApplyDelta(ctx, u.ID, ch.ID, model.ParamLiking, -6)
	require.NoError(t, err)

	res, err := svc.Evaluate(ctx, EvaluateRequest{UserID: u.ID, CharacterID: ch.ID, Param: model.ParamLiking, Message: "hi", Intent: "given"})
	require.NoError(t, err)
	assert.Equal(t, -5, res.NewValue)
	assert.Equal(t, "given", res.Intent)

	system := fake.Last().Messages[0].Content
	assert.Contains(t, system, "- honesty (truth ↔ lie) = 1 / importance 4")
	assert.Contains(t, system, "Respond coldly")
}

func TestEvaluate_Errors(t *testing.T) {
	svc, fake, u, ch := newRelationshipService(t, `{"score": 1}`, nil)
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, EvaluateRequest{UserID: u.ID, CharacterID: ch.ID, Param: "fear", Message: "boo"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Evaluate(ctx, EvaluateRequest{UserID: u.ID, CharacterID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Param: model.ParamLiking, Message: "hi"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Empty(t, fake.Requests())
}
