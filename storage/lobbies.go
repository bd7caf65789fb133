package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/teamrank/trs/logging"
)

type LobbyStorage interface {
	Get(ctx context.Context, id int) (*Lobby, error)
	GetAll(ctx context.Context) ([]*Lobby, error)
	Create(ctx context.Context, lobby *Lobby) error
	Update(ctx context.Context, lobby *Lobby) error
	Finish(ctx context.Context, id int) error
}

type DynamoLobbyStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoLobbyStorage) GetAll(ctx context.Context) ([]*Lobby, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{TableName: &s.TableName})
	if err != nil {
		logging.Log.Errorf("LOBBY: scan failed: %v", err)
		return nil, err
	}
	var lobbies []*Lobby
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &lobbies); err != nil {
		logging.Log.Errorf("LOBBY: failed to unmarshal lobby list: %v", err)
		return nil, err
	}
	return lobbies, nil
}

func (s *DynamoLobbyStorage) Get(ctx context.Context, id int) (*Lobby, error) {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		return nil, err
	}
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &s.TableName, Key: key})
	if err != nil {
		logging.Log.Errorf("LOBBY: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	var lobby Lobby
	if err := attributevalue.UnmarshalMap(out.Item, &lobby); err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (s *DynamoLobbyStorage) Create(ctx context.Context, lobby *Lobby) error {
	item, err := attributevalue.MarshalMap(lobby)
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
		logging.Log.Errorf("LOBBY: failed to create lobby: %v", err)
		return err
	}
	return nil
}

func (s *DynamoLobbyStorage) Update(ctx context.Context, lobby *Lobby) error {
	item, err := attributevalue.MarshalMap(lobby)
	if err != nil {
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.TableName, Item: item})
	if err != nil {
		logging.Log.Errorf("LOBBY: failed to update lobby: %v", err)
		return err
	}
	return nil
}

// Finish marks a lobby as finished, which is the gate that allows ratings
// on its team to be counted by the engine.
func (s *DynamoLobbyStorage) Finish(ctx context.Context, id int) error {
	now := time.Now().UTC()
	input := &dynamodb.UpdateItemInput{
		TableName: &s.TableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberN{Value: itoa(id)},
		},
		UpdateExpression: aws.String("SET Finished = :t, FinishedAt = :at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":  &types.AttributeValueMemberBOOL{Value: true},
			":at": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	}
	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		logging.Log.Errorf("LOBBY: failed to finish lobby %d: %v", id, err)
	}
	return err
}
