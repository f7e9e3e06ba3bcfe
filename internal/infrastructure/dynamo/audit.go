package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/classroom-accounts/internal/domain"
)

// AuditRepo appends audit events to the audit_events table.
type AuditRepo struct {
	client    API
	tableName string
}

func NewAuditRepo(client API, tableName string) *AuditRepo {
	return &AuditRepo{client: client, tableName: tableName}
}

// Append writes e once. Replaying the same event_id is rejected.
func (r *AuditRepo) Append(ctx context.Context, e *domain.AuditEvent) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(" + attrEventID + ")"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("audit event %q already recorded: %w", e.EventID, domain.ErrConflict)
	}
	return err
}
