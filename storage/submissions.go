package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/teamrank/trs/logging"
)

type SubmissionStorage interface {
	GetByTeam(ctx context.Context, teamID int) ([]*Submission, error)
	Create(ctx context.Context, submission *Submission) error
}

type DynamoSubmissionStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoSubmissionStorage) GetByTeam(ctx context.Context, teamID int) ([]*Submission, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		IndexName:              aws.String("TeamIDIndex"),
		KeyConditionExpression: aws.String("TeamID = :tid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": &types.AttributeValueMemberN{Value: itoa(teamID)},
		},
	})
	if err != nil {
		logging.Log.Errorf("SUBMISSION: query failed for team %d: %v", teamID, err)
		return nil, err
	}
	var submissions []*Submission
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *DynamoSubmissionStorage) Create(ctx context.Context, submission *Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	item, err := attributevalue.MarshalMap(submission)
	if err != nil {
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return ErrAlreadyExists
		}
		logging.Log.Errorf("SUBMISSION: failed to create submission: %v", err)
		return err
	}
	return nil
}
