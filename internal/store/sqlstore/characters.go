package sqlstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

const characterColumns = `id, name, personality, openness, conscientiousness, extraversion,
        agreeableness, neuroticism, background, tone, world, prohibited, examples, creation_time`

type characters struct{ s *Store }

func (c *characters) Create(ctx context.Context, in *model.Character) (*model.Character, error) {
	out := *in
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.CreationTime = now()
	prohibited, examples, err := characterJSON(&out)
	if err != nil {
		return nil, err
	}
	_, err = c.s.db.ExecContext(ctx, c.s.q(`
        INSERT INTO characters (`+characterColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    `), out.ID, out.Name, out.Personality, out.Openness, out.Conscientiousness, out.Extraversion,
		out.Agreeableness, out.Neuroticism, out.Background, out.Tone, out.World, prohibited, examples, out.CreationTime)
	if err != nil {
		return nil, c.s.translate(err, "create character")
	}
	return &out, nil
}

func (c *characters) Get(ctx context.Context, characterID string) (*model.Character, error) {
	row := c.s.db.QueryRowContext(ctx, c.s.q(`SELECT `+characterColumns+` FROM characters WHERE id=$1`), characterID)
	out, err := scanCharacter(row)
	if err != nil {
		return nil, c.s.translate(err, "get character")
	}
	return out, nil
}

func (c *characters) GetByName(ctx context.Context, name string) (*model.Character, error) {
	row := c.s.db.QueryRowContext(ctx, c.s.q(`SELECT `+characterColumns+` FROM characters WHERE name=$1`), name)
	out, err := scanCharacter(row)
	if err != nil {
		return nil, c.s.translate(err, "get character by name")
	}
	return out, nil
}

func (c *characters) List(ctx context.Context) ([]*model.Character, error) {
	rows, err := c.s.db.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY creation_time ASC, name ASC`)
	if err != nil {
		return nil, c.s.translate(err, "list characters")
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Character{}
	for rows.Next() {
		ch, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, ch)
	}
	return res, rows.Err()
}

func (c *characters) Update(ctx context.Context, in *model.Character) (*model.Character, error) {
	prohibited, examples, err := characterJSON(in)
	if err != nil {
		return nil, err
	}
	err = execAffected(c.s.db.ExecContext(ctx, c.s.q(`
        UPDATE characters SET personality=$1, openness=$2, conscientiousness=$3, extraversion=$4,
            agreeableness=$5, neuroticism=$6, background=$7, tone=$8, world=$9, prohibited=$10, examples=$11
        WHERE id=$12
    `), in.Personality, in.Openness, in.Conscientiousness, in.Extraversion, in.Agreeableness, in.Neuroticism,
		in.Background, in.Tone, in.World, prohibited, examples, in.ID))
	if err != nil {
		return nil, c.s.translate(err, "update character")
	}
	return c.Get(ctx, in.ID)
}

func (c *characters) Delete(ctx context.Context, characterID string) error {
	err := execAffected(c.s.db.ExecContext(ctx, c.s.q(`DELETE FROM characters WHERE id=$1`), characterID))
	return c.s.translate(err, "delete character")
}

func characterJSON(c *model.Character) (prohibited, examples any, err error) {
	if prohibited, err = encodeJSON(c.Prohibited); err != nil {
		return nil, nil, err
	}
	if examples, err = encodeJSON(c.Examples); err != nil {
		return nil, nil, err
	}
	return prohibited, examples, nil
}

func scanCharacter(row scanner) (*model.Character, error) {
	var out model.Character
	var background, tone, world sql.NullString
	var prohibited, examples []byte
	if err := row.Scan(&out.ID, &out.Name, &out.Personality, &out.Openness, &out.Conscientiousness,
		&out.Extraversion, &out.Agreeableness, &out.Neuroticism, &background, &tone, &world,
		&prohibited, &examples, &out.CreationTime); err != nil {
		return nil, err
	}
	out.Background = nullable(background)
	out.Tone = nullable(tone)
	out.World = nullable(world)

	var err error
	if out.Prohibited, err = decodeJSON[string](prohibited); err != nil {
		return nil, err
	}
	if out.Examples, err = decodeJSON[model.ExampleTurn](examples); err != nil {
		return nil, err
	}
	return &out, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
