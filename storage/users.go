package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/teamrank/trs/logging"
)

// UserStorage is the collaborator the reputation engine and the API layer
// read users through. The engine only ever calls GetAll.
type UserStorage interface {
	Get(ctx context.Context, id int) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, user *User) error
}

type DynamoUserStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoUserStorage) GetAll(ctx context.Context) ([]*User, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("USER: scan failed: %v", err)
		return nil, err
	}

	var users []*User
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &users); err != nil {
		logging.Log.Errorf("USER: failed to unmarshal user list: %v", err)
		return nil, err
	}
	return users, nil
}

func (s *DynamoUserStorage) Get(ctx context.Context, id int) (*User, error) {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		logging.Log.Errorf("USER: failed to marshal key for ID %d: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("USER: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var user User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		logging.Log.Errorf("USER: failed to unmarshal user: %v", err)
		return nil, err
	}
	return &user, nil
}

func (s *DynamoUserStorage) Create(ctx context.Context, user *User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		logging.Log.Errorf("USER: failed to marshal user: %v", err)
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
			logging.Log.Warnf("USER: user with ID %d already exists", user.ID)
			return ErrAlreadyExists
		}
		logging.Log.Errorf("USER: failed to create user: %v", err)
		return err
	}
	return nil
}
