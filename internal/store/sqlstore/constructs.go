package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

const constructColumns = `id, user_id, character_id, axis, name, importance, behavior_effect, value, creation_time`

type constructs struct{ s *Store }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (c *constructs) insert(ctx context.Context, ex execer, in *model.Construct) (*model.Construct, error) {
	out := *in
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.Axis == nil {
		out.Axis = []string{}
	}
	out.CreationTime = now()
	axis, err := json.Marshal(out.Axis)
	if err != nil {
		return nil, err
	}
	_, err = ex.ExecContext(ctx, c.s.q(`
        INSERT INTO constructs (`+constructColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `), out.ID, out.UserID, out.CharacterID, string(axis), out.Name, out.Importance, out.BehaviorEffect, out.Value, out.CreationTime)
	if err != nil {
		return nil, c.s.translate(err, "create construct")
	}
	return &out, nil
}

func (c *constructs) Create(ctx context.Context, in *model.Construct) (*model.Construct, error) {
	return c.insert(ctx, c.s.db, in)
}

func (c *constructs) CreateBatch(ctx context.Context, in []*model.Construct) ([]*model.Construct, error) {
	out := make([]*model.Construct, 0, len(in))
	err := c.s.withTx(ctx, func(tx *sql.Tx) error {
		for i, m := range in {
			created, err := c.insert(ctx, tx, m)
			if err != nil {
				return fmt.Errorf("construct %d: %w", i, err)
			}
			out = append(out, created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *constructs) List(ctx context.Context, userID, characterID string) ([]*model.Construct, error) {
	rows, err := c.s.db.QueryContext(ctx, c.s.q(`
        SELECT `+constructColumns+` FROM constructs
        WHERE user_id=$1 AND character_id=$2 ORDER BY seq ASC
    `), userID, characterID)
	if err != nil {
		return nil, c.s.translate(err, "list constructs")
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Construct{}
	for rows.Next() {
		var m model.Construct
		var axis []byte
		if err := rows.Scan(&m.ID, &m.UserID, &m.CharacterID, &axis, &m.Name, &m.Importance,
			&m.BehaviorEffect, &m.Value, &m.CreationTime); err != nil {
			return nil, err
		}
		if m.Axis, err = decodeJSON[string](axis); err != nil {
			return nil, fmt.Errorf("construct %s axis: %w", m.ID, err)
		}
		if m.Axis == nil {
			m.Axis = []string{}
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (c *constructs) Delete(ctx context.Context, constructID string) error {
	err := execAffected(c.s.db.ExecContext(ctx, c.s.q(`DELETE FROM constructs WHERE id=$1`), constructID))
	return c.s.translate(err, "delete construct")
}
