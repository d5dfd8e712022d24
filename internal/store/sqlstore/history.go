package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

type history struct{ s *Store }

func (h *history) insert(ctx context.Context, ex execer, in *model.Turn, at time.Time) (*model.Turn, error) {
	out := *in
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = at
	}
	out.Timestamp = out.Timestamp.UTC().Truncate(time.Microsecond)
	_, err := ex.ExecContext(ctx, h.s.q(`
        INSERT INTO chat_history (id, user_id, character_id, role, message, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
    `), out.ID, out.UserID, out.CharacterID, out.Role, out.Message, out.Timestamp)
	if err != nil {
		return nil, h.s.translate(err, "append turn")
	}
	return &out, nil
}

func (h *history) Append(ctx context.Context, in *model.Turn) (*model.Turn, error) {
	return h.insert(ctx, h.s.db, in, now())
}

func (h *history) AppendExchange(ctx context.Context, player, reply *model.Turn) error {
	at := now()
	return h.s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := h.insert(ctx, tx, player, at); err != nil {
			return err
		}
		_, err := h.insert(ctx, tx, reply, at)
		return err
	})
}

// List returns turns oldest first. With a positive Limit only the most recent
// Limit turns are kept. Equal timestamps fall back to insertion order.
func (h *history) List(ctx context.Context, req model.ListTurnsRequest) ([]*model.Turn, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if req.Limit > 0 {
		rows, err = h.s.db.QueryContext(ctx, h.s.q(`
            SELECT id, role, message, created_at FROM (
                SELECT id, role, message, created_at, seq FROM chat_history
                WHERE user_id=$1 AND character_id=$2
                ORDER BY created_at DESC, seq DESC
                LIMIT $3
            ) AS recent
            ORDER BY created_at ASC, seq ASC
        `), req.UserID, req.CharacterID, req.Limit)
	} else {
		rows, err = h.s.db.QueryContext(ctx, h.s.q(`
            SELECT id, role, message, created_at FROM chat_history
            WHERE user_id=$1 AND character_id=$2
            ORDER BY created_at ASC, seq ASC
        `), req.UserID, req.CharacterID)
	}
	if err != nil {
		return nil, h.s.translate(err, "list turns")
	}
	defer func() { _ = rows.Close() }()

	res := []*model.Turn{}
	for rows.Next() {
		t := &model.Turn{UserID: req.UserID, CharacterID: req.CharacterID}
		if err := rows.Scan(&t.ID, &t.Role, &t.Message, &t.Timestamp); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
