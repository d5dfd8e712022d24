package services

import (
	"context"

	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/store"
	"github.com/sanzuisann/my-chat-app/internal/validate"
)

// HistoryService reads and appends the conversation log.
type HistoryService struct {
	store store.Store
}

func NewHistoryService(s store.Store) *HistoryService { return &HistoryService{store: s} }

// AppendTurn records one raw turn outside of a chat exchange.
func (s *HistoryService) AppendTurn(ctx context.Context, t *model.Turn) (*model.Turn, error) {
	if err := validate.Turn(t); err != nil {
		return nil, err
	}
	return s.store.History().Append(ctx, t)
}

// ListTurns returns the full log for the pair, oldest first.
func (s *HistoryService) ListTurns(ctx context.Context, userID, characterID string) ([]*model.Turn, error) {
	return s.store.History().List(ctx, model.ListTurnsRequest{UserID: userID, CharacterID: characterID})
}
