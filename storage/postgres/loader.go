package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamrank/trs/storage"
)

// Store composes the Postgres repositories and satisfies storage.Loader,
// mirroring storage.Store but over a relational backend.
type Store struct {
	Users   *UserRepository
	Ratings *RatingRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:   NewUserRepository(pool),
		Ratings: NewRatingRepository(pool),
	}
}

func (s *Store) AllUsers(ctx context.Context) ([]*storage.User, error) {
	return s.Users.GetAll(ctx)
}

func (s *Store) AllRatings(ctx context.Context) ([]*storage.Rating, error) {
	return s.Ratings.GetAll(ctx)
}
