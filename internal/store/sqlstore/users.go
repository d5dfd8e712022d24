package sqlstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

type users struct{ s *Store }

func (u *users) Create(ctx context.Context, in *model.User) (*model.User, error) {
	out := *in
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.CreationTime = now()
	_, err := u.s.db.ExecContext(ctx, u.s.q(`
        INSERT INTO users (id, username, creation_time) VALUES ($1,$2,$3)
    `), out.ID, out.Username, out.CreationTime)
	if err != nil {
		return nil, u.s.translate(err, "create user")
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var out model.User
	row := u.s.db.QueryRowContext(ctx, u.s.q(`SELECT id, username, creation_time FROM users WHERE id=$1`), userID)
	if err := row.Scan(&out.ID, &out.Username, &out.CreationTime); err != nil {
		return nil, u.s.translate(err, "get user")
	}
	return &out, nil
}
