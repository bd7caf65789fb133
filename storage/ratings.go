package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"github.com/teamrank/trs/logging"
)

// RatingStorage is the collaborator the reputation engine reads the whole
// rating graph through, and that rating-submission handlers write through.
// Ratings are immutable once written; a rewrite is delete-then-insert.
type RatingStorage interface {
	GetAll(ctx context.Context) ([]*Rating, error)
	GetByTarget(ctx context.Context, targetID int) ([]*Rating, error)
	Create(ctx context.Context, rating *Rating) error
	DeleteEffective(ctx context.Context, teamID, raterID, targetID int) error
}

type DynamoRatingStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoRatingStorage) GetAll(ctx context.Context) ([]*Rating, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("RATING: scan failed: %v", err)
		return nil, err
	}

	var ratings []*Rating
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &ratings); err != nil {
		logging.Log.Errorf("RATING: failed to unmarshal rating list: %v", err)
		return nil, err
	}
	return ratings, nil
}

func (s *DynamoRatingStorage) GetByTarget(ctx context.Context, targetID int) ([]*Rating, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*Rating, 0, len(all))
	for _, r := range all {
		if r.TargetID == targetID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Create writes a new rating row. It does not enforce the "at most one
// effective rating per (team, rater, target)" invariant itself -- callers
// (rating-submission handlers) are expected to call DeleteEffective first
// as part of a delete-then-insert rewrite.
func (s *DynamoRatingStorage) Create(ctx context.Context, rating *Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	item, err := attributevalue.MarshalMap(rating)
	if err != nil {
		logging.Log.Errorf("RATING: failed to marshal rating: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		logging.Log.Errorf("RATING: failed to create rating: %v", err)
		return err
	}
	return nil
}

// DeleteEffective deletes the current rating row(s) for an ordered
// (team, rater, target) triple, so the caller can insert the replacement.
func (s *DynamoRatingStorage) DeleteEffective(ctx context.Context, teamID, raterID, targetID int) error {
	all, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range all {
		if r.TeamID != teamID || r.RaterID != raterID || r.TargetID != targetID {
			continue
		}
		key, err := attributevalue.MarshalMap(map[string]string{"PK": r.ID})
		if err != nil {
			logging.Log.Errorf("RATING: failed to marshal delete key: %v", err)
			return err
		}
		if _, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: &s.TableName,
			Key:       key,
		}); err != nil {
			logging.Log.Errorf("RATING: failed to delete superseded rating %s: %v", r.ID, err)
			return err
		}
	}
	return nil
}
