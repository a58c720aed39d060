package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/theom/scoreboard-api/internal/domain"
)

// VerificationRepo stores the single active sign-in code per identifier.
// PK: identifier. Put is an unconditional replace-or-insert (last writer
// wins); Consume uses a conditional delete so a code can only ever be
// redeemed once, even under concurrent submissions.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
	now       func() time.Time
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName, now: time.Now}
}

func (r *VerificationRepo) Put(ctx context.Context, v *domain.PendingVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Consume checks submittedCode against the active record for identifier.
// Matched deletes the record atomically; Expired invalidates it; Mismatched
// leaves it in place for further attempts within the TTL.
func (r *VerificationRepo) Consume(ctx context.Context, identifier, submittedCode string) (domain.ConsumeOutcome, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("identifier", identifier),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.ConsumeNotFound, err
	}
	if out.Item == nil {
		return domain.ConsumeNotFound, nil
	}
	var v domain.PendingVerification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return domain.ConsumeNotFound, err
	}

	if r.now().Unix() > v.ExpiresAt {
		// Invalidate only the exact record we observed; a concurrent Put
		// may have installed a fresh code under the same identifier.
		if err := r.deleteObserved(ctx, &v); err != nil && !isConditionalCheckFailed(err) {
			slog.Warn("failed to delete expired verification", "identifier", identifier, "err", err)
		}
		return domain.ConsumeExpired, nil
	}
	if v.Code != submittedCode {
		return domain.ConsumeMismatched, nil
	}

	// Single use: the delete must observe the same code and expiry we just
	// read. A concurrent consume or a superseding Put makes it fail, in which
	// case this submission no longer corresponds to an active code.
	if err := r.deleteObserved(ctx, &v); err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ConsumeNotFound, nil
		}
		return domain.ConsumeNotFound, err
	}
	return domain.ConsumeMatched, nil
}

// Delete removes the active record unconditionally. Used for cleanup, not
// for code redemption.
func (r *VerificationRepo) Delete(ctx context.Context, identifier string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("identifier", identifier),
	})
	return err
}

func (r *VerificationRepo) deleteObserved(ctx context.Context, v *domain.PendingVerification) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("identifier", v.Identifier),
		ConditionExpression: aws.String("code = :code AND expires_at = :exp"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: v.Code},
			":exp":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", v.ExpiresAt)},
		},
	})
	return err
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
