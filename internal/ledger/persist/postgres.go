package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yac28938-hash/invdash/internal/ledger"
)

// Postgres keeps the snapshot as one jsonb row keyed by name.
type Postgres struct {
	pool *pgxpool.Pool
	name string
}

func NewPostgres(pool *pgxpool.Pool, name string) *Postgres {
	return &Postgres{pool: pool, name: name}
}

func (p *Postgres) Load(ctx context.Context) (*ledger.State, error) {
	var data []byte
	err := p.pool.
		QueryRow(ctx, `SELECT data FROM snapshots WHERE name = $1`, p.name).
		Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", p.name, err)
	}
	var st ledger.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", p.name, err)
	}
	return &st, nil
}

func (p *Postgres) Save(ctx context.Context, st *ledger.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO snapshots (name, data)
		VALUES ($1, $2)
		ON CONFLICT (name)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, p.name, data)
	return err
}
