package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/storage"
)

const pgUniqueViolation = "23505"

// UserRepository is the relational counterpart to storage.DynamoUserStorage,
// satisfying the same storage.UserStorage interface.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*storage.User, error) {
	query, args, err := QB.
		Select("id", "name", "email", "created_at").
		From("users").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build users query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logging.Log.Errorf("USER_PG: query failed: %v", err)
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*storage.User
	for rows.Next() {
		var u storage.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*storage.User, error) {
	query, args, err := QB.
		Select("id", "name", "email", "created_at").
		From("users").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var u storage.User
	err = r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		logging.Log.Errorf("USER_PG: get %d failed: %v", id, err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *storage.User) error {
	query, args, err := QB.
		Insert("users").
		Columns("id", "name", "email", "created_at").
		Values(user.ID, user.Name, user.Email, user.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return storage.ErrAlreadyExists
		}
		logging.Log.Errorf("USER_PG: create failed: %v", err)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
