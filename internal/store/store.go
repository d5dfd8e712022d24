package store

import (
	"context"

	"github.com/sanzuisann/my-chat-app/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
// Lookups that miss return model.ErrNotFound; unique violations return model.ErrConflict.
type Store interface {
	Characters() Characters
	Users() Users
	Relationships() Relationships
	Constructs() Constructs
	History() History

	HealthPing(ctx context.Context) error
	Close() error
}

type Characters interface {
	Create(ctx context.Context, c *model.Character) (*model.Character, error)
	Get(ctx context.Context, characterID string) (*model.Character, error)
	GetByName(ctx context.Context, name string) (*model.Character, error)
	List(ctx context.Context) ([]*model.Character, error)
	Update(ctx context.Context, c *model.Character) (*model.Character, error)
	// Delete removes the character and, by cascade, its constructs, states and turns.
	Delete(ctx context.Context, characterID string) error
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
}

type Relationships interface {
	Get(ctx context.Context, userID, characterID, param string) (*model.RelationshipState, error)
	List(ctx context.Context, userID, characterID string) ([]*model.RelationshipState, error)
	// ApplyDelta adds delta to the stored value (creating it at delta when absent)
	// and returns the new state. The add is a single upsert, so concurrent deltas all land.
	ApplyDelta(ctx context.Context, userID, characterID, param string, delta int) (*model.RelationshipState, error)
}

type Constructs interface {
	Create(ctx context.Context, c *model.Construct) (*model.Construct, error)
	// CreateBatch inserts all constructs in one transaction; any failure inserts none.
	CreateBatch(ctx context.Context, cs []*model.Construct) ([]*model.Construct, error)
	List(ctx context.Context, userID, characterID string) ([]*model.Construct, error)
	Delete(ctx context.Context, constructID string) error
}

type History interface {
	Append(ctx context.Context, t *model.Turn) (*model.Turn, error)
	// AppendExchange writes both turns atomically.
	AppendExchange(ctx context.Context, player, reply *model.Turn) error
	List(ctx context.Context, req model.ListTurnsRequest) ([]*model.Turn, error)
}
