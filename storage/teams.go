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

type TeamStorage interface {
	Get(ctx context.Context, id int) (*Team, error)
	GetByLobby(ctx context.Context, lobbyID int) (*Team, error)
	GetAll(ctx context.Context) ([]*Team, error)
	Create(ctx context.Context, team *Team) error
	Lock(ctx context.Context, id int) error
}

type DynamoTeamStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoTeamStorage) GetAll(ctx context.Context) ([]*Team, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{TableName: &s.TableName})
	if err != nil {
		logging.Log.Errorf("TEAM: scan failed: %v", err)
		return nil, err
	}
	var teams []*Team
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &teams); err != nil {
		logging.Log.Errorf("TEAM: failed to unmarshal team list: %v", err)
		return nil, err
	}
	return teams, nil
}

func (s *DynamoTeamStorage) Get(ctx context.Context, id int) (*Team, error) {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		return nil, err
	}
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &s.TableName, Key: key})
	if err != nil {
		logging.Log.Errorf("TEAM: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	var team Team
	if err := attributevalue.UnmarshalMap(out.Item, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *DynamoTeamStorage) GetByLobby(ctx context.Context, lobbyID int) (*Team, error) {
	teams, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		if t.LobbyID == lobbyID {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *DynamoTeamStorage) Create(ctx context.Context, team *Team) error {
	item, err := attributevalue.MarshalMap(team)
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
		logging.Log.Errorf("TEAM: failed to create team: %v", err)
		return err
	}
	return nil
}

func (s *DynamoTeamStorage) Lock(ctx context.Context, id int) error {
	input := &dynamodb.UpdateItemInput{
		TableName: &s.TableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberN{Value: itoa(id)},
		},
		UpdateExpression:          aws.String("SET Locked = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": &types.AttributeValueMemberBOOL{Value: true}},
	}
	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		logging.Log.Errorf("TEAM: failed to lock team %d: %v", id, err)
	}
	return err
}

// TeamMemberStorage tracks which users belong to which team -- the
// membership half of the "rater and target must be teammates" invariant.
type TeamMemberStorage interface {
	GetByTeam(ctx context.Context, teamID int) ([]*TeamMember, error)
	Add(ctx context.Context, teamID, userID int) error
}

type DynamoTeamMemberStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoTeamMemberStorage) GetByTeam(ctx context.Context, teamID int) ([]*TeamMember, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("TeamID = :tid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": &types.AttributeValueMemberN{Value: itoa(teamID)},
		},
	})
	if err != nil {
		logging.Log.Errorf("TEAM_MEMBER: query failed for team %d: %v", teamID, err)
		return nil, err
	}

	var members []*TeamMember
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *DynamoTeamMemberStorage) Add(ctx context.Context, teamID, userID int) error {
	item, err := attributevalue.MarshalMap(&TeamMember{TeamID: teamID, UserID: userID})
	if err != nil {
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.TableName, Item: item})
	if err != nil {
		logging.Log.Errorf("TEAM_MEMBER: failed to add member: %v", err)
	}
	return err
}
