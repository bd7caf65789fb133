package controllers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// newLocalDynamoClient points at a local DynamoDB endpoint (e.g. localstack
// or dynamodb-local) rather than talking to a real AWS account.
func newLocalDynamoClient(t *testing.T) *dynamodb.Client {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("us-east-1"),
		//nolint:staticcheck
		config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: "http://localhost:4566", HostnameImmutable: true}, nil
			}),
		),
	)
	if err != nil {
		t.Fatalf("failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// cleanupDynamoTable scans and deletes every item in tableName keyed on PK.
func cleanupDynamoTable(t *testing.T, client *dynamodb.Client, tableName string) {
	t.Helper()
	out, err := client.Scan(context.TODO(), &dynamodb.ScanInput{TableName: aws.String(tableName)})
	if err != nil {
		t.Fatalf("cleanup scan of %s failed: %v", tableName, err)
	}
	for _, item := range out.Items {
		_, err := client.DeleteItem(context.TODO(), &dynamodb.DeleteItemInput{
			TableName: aws.String(tableName),
			Key:       map[string]types.AttributeValue{"PK": item["PK"]},
		})
		if err != nil {
			t.Fatalf("cleanup delete from %s failed: %v", tableName, err)
		}
	}
}
