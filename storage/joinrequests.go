package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/teamrank/trs/logging"
)

const (
	JoinRequestStatusPending  = "pending"
	JoinRequestStatusAccepted = "accepted"
	JoinRequestStatusDeclined = "declined"
)

type JoinRequestStorage interface {
	GetByLobby(ctx context.Context, lobbyID int) ([]*JoinRequest, error)
	Create(ctx context.Context, jr *JoinRequest) error
	SetStatus(ctx context.Context, id, status string) error
}

type DynamoJoinRequestStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoJoinRequestStorage) GetByLobby(ctx context.Context, lobbyID int) ([]*JoinRequest, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		IndexName:              aws.String("LobbyIDIndex"),
		KeyConditionExpression: aws.String("LobbyID = :lid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lid": &types.AttributeValueMemberN{Value: itoa(lobbyID)},
		},
	})
	if err != nil {
		logging.Log.Errorf("JOIN_REQUEST: query failed for lobby %d: %v", lobbyID, err)
		return nil, err
	}
	var reqs []*JoinRequest
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *DynamoJoinRequestStorage) Create(ctx context.Context, jr *JoinRequest) error {
	if jr.ID == "" {
		jr.ID = uuid.NewString()
	}
	if jr.Status == "" {
		jr.Status = JoinRequestStatusPending
	}
	item, err := attributevalue.MarshalMap(jr)
	if err != nil {
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.TableName, Item: item})
	if err != nil {
		logging.Log.Errorf("JOIN_REQUEST: failed to create: %v", err)
	}
	return err
}

func (s *DynamoJoinRequestStorage) SetStatus(ctx context.Context, id, status string) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.TableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET #s = :s"),
		ExpressionAttributeNames: map[string]string{
			"#s": "Status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: status},
		},
	})
	if err != nil {
		logging.Log.Errorf("JOIN_REQUEST: failed to set status for %s: %v", id, err)
	}
	return err
}
