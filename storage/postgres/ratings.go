package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/storage"
)

// RatingRepository is the relational counterpart to
// storage.DynamoRatingStorage, satisfying storage.RatingStorage.
type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

func (r *RatingRepository) GetAll(ctx context.Context) ([]*storage.Rating, error) {
	query, args, err := QB.
		Select("id", "team_id", "rater_id", "target_id", "contribution", "communication",
			"would_work_again", "comment", "created_at").
		From("ratings").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ratings query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logging.Log.Errorf("RATING_PG: query failed: %v", err)
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*storage.Rating
	for rows.Next() {
		var rt storage.Rating
		if err := rows.Scan(&rt.ID, &rt.TeamID, &rt.RaterID, &rt.TargetID, &rt.Contribution,
			&rt.Communication, &rt.WouldWorkAgain, &rt.Comment, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, &rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

func (r *RatingRepository) GetByTarget(ctx context.Context, targetID int) ([]*storage.Rating, error) {
	query, args, err := QB.
		Select("id", "team_id", "rater_id", "target_id", "contribution", "communication",
			"would_work_again", "comment", "created_at").
		From("ratings").
		Where("target_id = ?", targetID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ratings by target query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ratings by target: %w", err)
	}
	defer rows.Close()

	var ratings []*storage.Rating
	for rows.Next() {
		var rt storage.Rating
		if err := rows.Scan(&rt.ID, &rt.TeamID, &rt.RaterID, &rt.TargetID, &rt.Contribution,
			&rt.Communication, &rt.WouldWorkAgain, &rt.Comment, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, &rt)
	}
	return ratings, rows.Err()
}

func (r *RatingRepository) Create(ctx context.Context, rating *storage.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	query, args, err := QB.
		Insert("ratings").
		Columns("id", "team_id", "rater_id", "target_id", "contribution", "communication",
			"would_work_again", "comment", "created_at").
		Values(rating.ID, rating.TeamID, rating.RaterID, rating.TargetID, rating.Contribution,
			rating.Communication, rating.WouldWorkAgain, rating.Comment, rating.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert rating query: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		logging.Log.Errorf("RATING_PG: create failed: %v", err)
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) DeleteEffective(ctx context.Context, teamID, raterID, targetID int) error {
	query, args, err := QB.
		Delete("ratings").
		Where("team_id = ? AND rater_id = ? AND target_id = ?", teamID, raterID, targetID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete rating query: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		logging.Log.Errorf("RATING_PG: delete effective failed: %v", err)
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}
