package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/store"
	"github.com/sanzuisann/my-chat-app/internal/validate"
)

const maxImportLine = 1 << 20

// ConstructRecord is one line of the newline-delimited export format.
type ConstructRecord struct {
	UserID         string   `json:"user_id"`
	CharacterID    string   `json:"character_id"`
	Axis           []string `json:"axis"`
	Name           string   `json:"name"`
	Importance     int      `json:"importance"`
	BehaviorEffect string   `json:"behavior_effect"`
	Value          int      `json:"value"`
}

// Construct converts the record into a new construct without an ID.
func (r ConstructRecord) Construct() *model.Construct {
	return &model.Construct{
		UserID: r.UserID, CharacterID: r.CharacterID, Axis: r.Axis, Name: r.Name,
		Importance: r.Importance, BehaviorEffect: r.BehaviorEffect, Value: r.Value,
	}
}

// ConstructService manages per-(user, character) value axes.
type ConstructService struct {
	store store.Store
}

func NewConstructService(s store.Store) *ConstructService { return &ConstructService{store: s} }

// CreateConstructs validates every construct, then inserts them all or none.
func (s *ConstructService) CreateConstructs(ctx context.Context, cs []*model.Construct) ([]*model.Construct, error) {
	for i, c := range cs {
		if err := validate.Construct(c); err != nil {
			return nil, fmt.Errorf("construct %d: %w", i, err)
		}
	}
	if len(cs) == 0 {
		return []*model.Construct{}, nil
	}
	return s.store.Constructs().CreateBatch(ctx, cs)
}

func (s *ConstructService) ListConstructs(ctx context.Context, userID, characterID string) ([]*model.Construct, error) {
	return s.store.Constructs().List(ctx, userID, characterID)
}

func (s *ConstructService) DeleteConstruct(ctx context.Context, constructID string) error {
	return s.store.Constructs().Delete(ctx, constructID)
}

// Export writes the pair's constructs to w, one JSON object per line.
func (s *ConstructService) Export(ctx context.Context, userID, characterID string, w io.Writer) (int, error) {
	cs, err := s.store.Constructs().List(ctx, userID, characterID)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, c := range cs {
		if err := enc.Encode(ConstructRecord{
			UserID: c.UserID, CharacterID: c.CharacterID, Axis: c.Axis, Name: c.Name,
			Importance: c.Importance, BehaviorEffect: c.BehaviorEffect, Value: c.Value,
		}); err != nil {
			return 0, err
		}
	}
	return len(cs), nil
}

// Import reads newline-delimited construct records from r. Blank lines are
// skipped. A bad line aborts the whole import and nothing is stored.
func (s *ConstructService) Import(ctx context.Context, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxImportLine)

	var batch []*model.Construct
	for line := 1; sc.Scan(); line++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec ConstructRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return 0, fmt.Errorf("%w: line %d: %v", model.ErrValidation, line, err)
		}
		c := rec.Construct()
		if err := validate.Construct(c); err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, c)
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("%w: read import: %v", model.ErrValidation, err)
	}
	if len(batch) == 0 {
		return 0, nil
	}
	created, err := s.store.Constructs().CreateBatch(ctx, batch)
	if err != nil {
		return 0, err
	}
	return len(created), nil
}
