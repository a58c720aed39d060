package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/theom/scoreboard-api/internal/domain"
)

// ScoreboardRepo provides typed DynamoDB operations for the scoreboards table.
// Counter mutations are single UpdateItem calls so concurrent taps on the same
// scoreboard never lose increments.
type ScoreboardRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewScoreboardRepo(client *dynamodb.Client, tableName string) *ScoreboardRepo {
	return &ScoreboardRepo{client: client, tableName: tableName}
}

// Get returns the scoreboard for slug, or ErrNotFound when no record exists.
func (r *ScoreboardRepo) Get(ctx context.Context, slug string) (*domain.Scoreboard, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("slug", slug),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("scoreboard not found: %w", domain.ErrNotFound)
	}
	var sb domain.Scoreboard
	if err := attributevalue.UnmarshalMap(out.Item, &sb); err != nil {
		return nil, err
	}
	return &sb, nil
}

// Increment adds one to the given side, creating the record on first write.
func (r *ScoreboardRepo) Increment(ctx context.Context, slug string, side domain.Side) error {
	now := time.Now().Unix()
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("slug", slug),
		UpdateExpression: aws.String("ADD #side :one SET updated_at = :now, created_at = if_not_exists(created_at, :now)"),
		ExpressionAttributeNames: map[string]string{
			"#side": string(side),
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now)},
		},
	})
	return err
}

// Decrement subtracts one from the given side. It floors at zero: when the
// record is absent or the side is already zero the condition fails and the
// call is a no-op.
func (r *ScoreboardRepo) Decrement(ctx context.Context, slug string, side domain.Side) error {
	now := time.Now().Unix()
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("slug", slug),
		UpdateExpression:    aws.String("SET #side = #side - :one, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(slug) AND #side > :zero"),
		ExpressionAttributeNames: map[string]string{
			"#side": string(side),
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":  &types.AttributeValueMemberN{Value: "1"},
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":now":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now)},
		},
	})
	if err != nil && isConditionalCheckFailed(err) {
		return nil
	}
	return err
}

// Reset zeroes both counters, creating the record on first write.
func (r *ScoreboardRepo) Reset(ctx context.Context, slug string) error {
	now := time.Now().Unix()
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("slug", slug),
		UpdateExpression: aws.String("SET #l = :zero, #r = :zero, updated_at = :now, created_at = if_not_exists(created_at, :now)"),
		ExpressionAttributeNames: map[string]string{
			"#l": string(domain.SideLeft),
			"#r": string(domain.SideRight),
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":now":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now)},
		},
	})
	return err
}
