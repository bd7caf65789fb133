package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/teamrank/trs/logging"
)

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"

	invitationTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	invitationTokenLength   = 10
)

type InvitationStorage interface {
	GetByTeam(ctx context.Context, teamID int) ([]*Invitation, error)
	Create(ctx context.Context, inv *Invitation) error
	SetStatus(ctx context.Context, id, status string) error
}

type DynamoInvitationStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoInvitationStorage) GetByTeam(ctx context.Context, teamID int) ([]*Invitation, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		IndexName:              aws.String("TeamIDIndex"),
		KeyConditionExpression: aws.String("TeamID = :tid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": &types.AttributeValueMemberN{Value: itoa(teamID)},
		},
	})
	if err != nil {
		logging.Log.Errorf("INVITATION: query failed for team %d: %v", teamID, err)
		return nil, err
	}
	var invites []*Invitation
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// Create assigns a short, unguessable token to the invitation if one isn't
// already set -- the link that gets shared with the invited user.
func (s *DynamoInvitationStorage) Create(ctx context.Context, inv *Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Token == "" {
		token, err := gonanoid.Generate(invitationTokenAlphabet, invitationTokenLength)
		if err != nil {
			logging.Log.Errorf("INVITATION: failed to generate token: %v", err)
			return err
		}
		inv.Token = token
	}
	if inv.Status == "" {
		inv.Status = InvitationStatusPending
	}
	item, err := attributevalue.MarshalMap(inv)
	if err != nil {
		return err
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.TableName, Item: item})
	if err != nil {
		logging.Log.Errorf("INVITATION: failed to create: %v", err)
	}
	return err
}

func (s *DynamoInvitationStorage) SetStatus(ctx context.Context, id, status string) error {
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
		logging.Log.Errorf("INVITATION: failed to set status for %s: %v", id, err)
	}
	return err
}
