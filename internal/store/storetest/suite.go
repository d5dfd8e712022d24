// Package storetest is a driver-independent compliance suite for store.Store.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sanzuisann/my-chat-app/internal/model"
	"github.com/sanzuisann/my-chat-app/internal/store"
)

// Run exercises every store operation against a fresh store returned by makeStore.
// Names are randomised so the suite tolerates a shared database.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()
	s := makeStore(t)
	ctx := context.Background()

	suffix := uuid.New().String()[:8]
	bg := "A librarian."

	// Characters
	ch, err := s.Characters().Create(ctx, &model.Character{
		Name: "Aria-" + suffix, Personality: "kind",
		Openness: 0.9, Conscientiousness: 0.5, Extraversion: 0.2, Agreeableness: 0.8, Neuroticism: 0.1,
		Background: &bg,
		Prohibited: []string{"violence"},
		Examples:   []model.ExampleTurn{{User: "hi", Assistant: "hello"}},
	})
	if err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	if ch.ID == "" || ch.CreationTime.IsZero() {
		t.Fatalf("CreateCharacter: missing id or creation time: %+v", ch)
	}
	got, err := s.Characters().Get(ctx, ch.ID)
	if err != nil {
		t.Fatalf("GetCharacter: %v", err)
	}
	if got.Name != ch.Name || got.Openness != 0.9 || got.Background == nil || *got.Background != bg ||
		got.Tone != nil || len(got.Prohibited) != 1 || got.Prohibited[0] != "violence" ||
		len(got.Examples) != 1 || got.Examples[0].Assistant != "hello" {
		t.Fatalf("GetCharacter: round-trip mismatch: %+v", got)
	}
	if byName, err := s.Characters().GetByName(ctx, ch.Name); err != nil || byName.ID != ch.ID {
		t.Fatalf("GetCharacterByName: got=%v err=%v", byName, err)
	}
	if _, err := s.Characters().Create(ctx, &model.Character{Name: ch.Name}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateCharacter duplicate: want ErrConflict, got %v", err)
	}
	if _, err := s.Characters().Get(ctx, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetCharacter missing: want ErrNotFound, got %v", err)
	}
	if lst, err := s.Characters().List(ctx); err != nil || !containsCharacter(lst, ch.ID) {
		t.Fatalf("ListCharacters: n=%d err=%v", len(lst), err)
	}

	tone := "soft"
	got.Tone = &tone
	got.Prohibited = nil
	updated, err := s.Characters().Update(ctx, got)
	if err != nil {
		t.Fatalf("UpdateCharacter: %v", err)
	}
	if updated.Tone == nil || *updated.Tone != "soft" || updated.Prohibited != nil || len(updated.Examples) != 1 {
		t.Fatalf("UpdateCharacter: unexpected %+v", updated)
	}
	if _, err := s.Characters().Update(ctx, &model.Character{ID: uuid.New().String()}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateCharacter missing: want ErrNotFound, got %v", err)
	}

	// Users
	u, err := s.Users().Create(ctx, &model.User{Username: "player-" + suffix})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if gu, err := s.Users().Get(ctx, u.ID); err != nil || gu.Username != u.Username {
		t.Fatalf("GetUser: got=%v err=%v", gu, err)
	}
	if _, err := s.Users().Create(ctx, &model.User{Username: u.Username}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateUser duplicate: want ErrConflict, got %v", err)
	}
	if _, err := s.Users().Get(ctx, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}

	// Relationships
	if _, err := s.Relationships().Get(ctx, u.ID, ch.ID, model.ParamLiking); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetRelationship missing: want ErrNotFound, got %v", err)
	}
	st, err := s.Relationships().ApplyDelta(ctx, u.ID, ch.ID, model.ParamLiking, 2)
	if err != nil || st.Value != 2 {
		t.Fatalf("ApplyDelta first: got=%v err=%v", st, err)
	}
	first := st.UpdatedAt
	st, err = s.Relationships().ApplyDelta(ctx, u.ID, ch.ID, model.ParamLiking, 2)
	if err != nil || st.Value != 4 {
		t.Fatalf("ApplyDelta repeat: got=%v err=%v", st, err)
	}
	if st.UpdatedAt.Before(first) {
		t.Fatalf("ApplyDelta: updated_at went backwards: %v < %v", st.UpdatedAt, first)
	}
	if st, err = s.Relationships().ApplyDelta(ctx, u.ID, ch.ID, model.ParamLiking, 0); err != nil || st.Value != 4 {
		t.Fatalf("ApplyDelta zero: got=%v err=%v", st, err)
	}
	if st, err = s.Relationships().ApplyDelta(ctx, u.ID, ch.ID, model.ParamTrust, -3); err != nil || st.Value != -3 {
		t.Fatalf("ApplyDelta trust: got=%v err=%v", st, err)
	}
	if gs, err := s.Relationships().Get(ctx, u.ID, ch.ID, model.ParamLiking); err != nil || gs.Value != 4 {
		t.Fatalf("GetRelationship: got=%v err=%v", gs, err)
	}
	if lst, err := s.Relationships().List(ctx, u.ID, ch.ID); err != nil || len(lst) != 2 || lst[0].Param != model.ParamLiking {
		t.Fatalf("ListRelationships: got=%v err=%v", lst, err)
	}

	// Concurrent deltas on one key all land.
	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Relationships().ApplyDelta(ctx, u.ID, ch.ID, model.ParamTrust, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent ApplyDelta: %v", err)
	}
	if gs, err := s.Relationships().Get(ctx, u.ID, ch.ID, model.ParamTrust); err != nil || gs.Value != -3+workers {
		t.Fatalf("concurrent ApplyDelta: got=%v err=%v want=%d", gs, err, -3+workers)
	}

	// Constructs
	c1, err := s.Constructs().Create(ctx, &model.Construct{
		UserID: u.ID, CharacterID: ch.ID, Axis: []string{"truth", "lie"}, Name: "honesty",
		Importance: 5, BehaviorEffect: "Dislikes lies.", Value: 2,
	})
	if err != nil {
		t.Fatalf("CreateConstruct: %v", err)
	}
	batch, err := s.Constructs().CreateBatch(ctx, []*model.Construct{
		{UserID: u.ID, CharacterID: ch.ID, Axis: []string{"calm", "wild", "odd"}, Name: "mood", Importance: 1},
		{UserID: u.ID, CharacterID: ch.ID, Axis: []string{"near", "far"}, Name: "distance", Importance: 2, Value: -1},
	})
	if err != nil || len(batch) != 2 {
		t.Fatalf("CreateConstructBatch: n=%d err=%v", len(batch), err)
	}
	cs, err := s.Constructs().List(ctx, u.ID, ch.ID)
	if err != nil || len(cs) != 3 {
		t.Fatalf("ListConstructs: n=%d err=%v", len(cs), err)
	}
	if cs[0].ID != c1.ID || cs[1].Name != "mood" || len(cs[1].Axis) != 3 || cs[2].Value != -1 {
		t.Fatalf("ListConstructs: unexpected order or content: %+v %+v %+v", cs[0], cs[1], cs[2])
	}
	if _, err := s.Constructs().CreateBatch(ctx, []*model.Construct{
		{UserID: u.ID, CharacterID: ch.ID, Axis: []string{"a", "b"}, Name: "ok"},
		{UserID: u.ID, CharacterID: uuid.New().String(), Axis: []string{"a", "b"}, Name: "orphan"},
	}); err == nil {
		t.Fatalf("CreateConstructBatch with missing character: want error")
	}
	if cs, _ := s.Constructs().List(ctx, u.ID, ch.ID); len(cs) != 3 {
		t.Fatalf("CreateConstructBatch failure must insert nothing, have %d", len(cs))
	}
	if err := s.Constructs().Delete(ctx, c1.ID); err != nil {
		t.Fatalf("DeleteConstruct: %v", err)
	}
	if err := s.Constructs().Delete(ctx, c1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteConstruct twice: want ErrNotFound, got %v", err)
	}

	// History
	base := time.Now().UTC().Add(-time.Hour)
	for i, msg := range []string{"m0", "m1", "m2"} {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		if _, err := s.History().Append(ctx, &model.Turn{
			UserID: u.ID, CharacterID: ch.ID, Role: role, Message: msg, Timestamp: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("AppendTurn %s: %v", msg, err)
		}
	}
	if err := s.History().AppendExchange(ctx,
		&model.Turn{UserID: u.ID, CharacterID: ch.ID, Role: model.RoleUser, Message: "m3"},
		&model.Turn{UserID: u.ID, CharacterID: ch.ID, Role: model.RoleAssistant, Message: "m4"},
	); err != nil {
		t.Fatalf("AppendExchange: %v", err)
	}
	all, err := s.History().List(ctx, model.ListTurnsRequest{UserID: u.ID, CharacterID: ch.ID})
	if err != nil || len(all) != 5 {
		t.Fatalf("ListTurns: n=%d err=%v", len(all), err)
	}
	for i, want := range []string{"m0", "m1", "m2", "m3", "m4"} {
		if all[i].Message != want {
			t.Fatalf("ListTurns order: idx %d got %q want %q", i, all[i].Message, want)
		}
	}
	recent, err := s.History().List(ctx, model.ListTurnsRequest{UserID: u.ID, CharacterID: ch.ID, Limit: 2})
	if err != nil || len(recent) != 2 || recent[0].Message != "m3" || recent[1].Message != "m4" {
		t.Fatalf("ListTurns limit: got=%v err=%v", recent, err)
	}
	if _, err := s.History().Append(ctx, &model.Turn{UserID: u.ID, CharacterID: ch.ID, Role: "narrator", Message: "x"}); err == nil {
		t.Fatalf("AppendTurn invalid role: want error")
	}

	// Cascade
	if err := s.Characters().Delete(ctx, ch.ID); err != nil {
		t.Fatalf("DeleteCharacter: %v", err)
	}
	if err := s.Characters().Delete(ctx, ch.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteCharacter twice: want ErrNotFound, got %v", err)
	}
	if cs, err := s.Constructs().List(ctx, u.ID, ch.ID); err != nil || len(cs) != 0 {
		t.Fatalf("cascade constructs: n=%d err=%v", len(cs), err)
	}
	if ts, err := s.History().List(ctx, model.ListTurnsRequest{UserID: u.ID, CharacterID: ch.ID}); err != nil || len(ts) != 0 {
		t.Fatalf("cascade turns: n=%d err=%v", len(ts), err)
	}
	if lst, err := s.Relationships().List(ctx, u.ID, ch.ID); err != nil || len(lst) != 0 {
		t.Fatalf("cascade relationships: n=%d err=%v", len(lst), err)
	}

	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}

func containsCharacter(lst []*model.Character, id string) bool {
	for _, c := range lst {
		if c.ID == id {
			return true
		}
	}
	return false
}
