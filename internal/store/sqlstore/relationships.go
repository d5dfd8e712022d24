package sqlstore

import (
	"context"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

type relationships struct{ s *Store }

func (r *relationships) Get(ctx context.Context, userID, characterID, param string) (*model.RelationshipState, error) {
	out := model.RelationshipState{UserID: userID, CharacterID: characterID, Param: param}
	row := r.s.db.QueryRowContext(ctx, r.s.q(`
        SELECT value, updated_at FROM relationship_states
        WHERE user_id=$1 AND character_id=$2 AND param=$3
    `), userID, characterID, param)
	if err := row.Scan(&out.Value, &out.UpdatedAt); err != nil {
		return nil, r.s.translate(err, "get relationship state")
	}
	return &out, nil
}

func (r *relationships) List(ctx context.Context, userID, characterID string) ([]*model.RelationshipState, error) {
	rows, err := r.s.db.QueryContext(ctx, r.s.q(`
        SELECT param, value, updated_at FROM relationship_states
        WHERE user_id=$1 AND character_id=$2 ORDER BY param ASC
    `), userID, characterID)
	if err != nil {
		return nil, r.s.translate(err, "list relationship states")
	}
	defer func() { _ = rows.Close() }()
	res := []*model.RelationshipState{}
	for rows.Next() {
		st := &model.RelationshipState{UserID: userID, CharacterID: characterID}
		if err := rows.Scan(&st.Param, &st.Value, &st.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

// ApplyDelta upserts in one statement: a missing row starts at delta, an
// existing one has delta added. A zero delta still refreshes updated_at.
func (r *relationships) ApplyDelta(ctx context.Context, userID, characterID, param string, delta int) (*model.RelationshipState, error) {
	out := model.RelationshipState{UserID: userID, CharacterID: characterID, Param: param}
	row := r.s.db.QueryRowContext(ctx, r.s.q(`
        INSERT INTO relationship_states (user_id, character_id, param, value, updated_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (user_id, character_id, param)
        DO UPDATE SET value = relationship_states.value + excluded.value, updated_at = excluded.updated_at
        RETURNING value, updated_at
    `), userID, characterID, param, delta, now())
	if err := row.Scan(&out.Value, &out.UpdatedAt); err != nil {
		return nil, r.s.translate(err, "apply relationship delta")
	}
	return &out, nil
}
