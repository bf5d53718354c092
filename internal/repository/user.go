package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/defect-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const selectUsers = `
	SELECT id, auth_id, email, user_name, created_at, updated_at
	FROM   users`

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, selectUsers+" WHERE id = @id", pgx.NamedArgs{"id": id})
}

// GetByAuthID returns the user whose identity-provider subject is authID,
// or nil when none is registered.
func (r *UserRepository) GetByAuthID(ctx context.Context, authID string) (*model.User, error) {
	return r.getOne(ctx, selectUsers+" WHERE auth_id = @auth_id", pgx.NamedArgs{"auth_id": authID})
}

func (r *UserRepository) getOne(ctx context.Context, sql string, args pgx.NamedArgs) (*model.User, error) {
	rows, err := r.pool.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to collect user: %w", err)
	}
	return &u, nil
}
