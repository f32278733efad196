package store

import (
	"context"
	"database/sql"
	"time"

	authclient "github.com/goliatone/go-authclient"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SessionValueModel is the Bun model for one stored session value.
type SessionValueModel struct {
	bun.BaseModel `bun:"table:session_values"`

	ID        uuid.UUID `bun:"id,pk,nullzero,type:uuid"`
	Key       string    `bun:"key,notnull,unique"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,default:current_timestamp"`
}

// Bun is a durable KeyValue backend over a Bun database. Record IDs are
// derived from the storage key with hashid, so every write is a natural
// upsert and a key maps to exactly one row.
type Bun struct {
	db *bun.DB
}

var _ authclient.KeyValue = (*Bun)(nil)

// NewBun wraps an already-configured Bun database.
func NewBun(db *bun.DB) *Bun {
	return &Bun{db: db}
}

// Init creates the backing table when it does not exist yet.
func (s *Bun) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SessionValueModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Read implements authclient.KeyValue. A missing key is not an error.
func (s *Bun) Read(ctx context.Context, key string) (string, error) {
	var model SessionValueModel
	err := s.db.NewSelect().
		Model(&model).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return model.Value, nil
}

// Write implements authclient.KeyValue. An empty value removes the key.
func (s *Bun) Write(ctx context.Context, key, value string) error {
	if value == "" {
		_, err := s.db.NewDelete().
			Model((*SessionValueModel)(nil)).
			Where("key = ?", key).
			Exec(ctx)
		return err
	}

	model := &SessionValueModel{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	if id, err := hashid.NewUUID(key); err == nil {
		model.ID = id
	} else {
		model.ID = uuid.New()
	}

	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
