package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/classroom-accounts/internal/domain"
	"github.com/classroom-accounts/internal/pkg/id"
)

// AccountRepo provides typed DynamoDB operations for the accounts table.
//
// Username and email uniqueness is enforced with marker items in a separate
// table (PK unique_key = "username#<v>" / "email#<v>") written in the same
// transaction as the account. GSIs are only eventually consistent, so they
// serve lookups but never uniqueness decisions.
type AccountRepo struct {
	client       API
	tableName    string
	uniquesTable string
}

func NewAccountRepo(client API, tableName, uniquesTable string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName, uniquesTable: uniquesTable}
}

// Create assigns a new id when a.AccountID is empty and persists the account
// together with its uniqueness markers.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	if a.AccountID == "" {
		a.AccountID = id.New()
	}
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(" + attrAccountID + ")"),
			}},
			r.uniqueMarker(usernameKey(a.Username), a.AccountID),
			r.uniqueMarker(emailKey(a.Email), a.AccountID),
		},
	})
	if err == nil {
		return nil
	}
	codes := cancellationCodes(err)
	switch {
	case len(codes) > 1 && codes[1] == codeConditionFailed:
		return fmt.Errorf("username already exists: %w", domain.ErrConflict)
	case len(codes) > 2 && codes[2] == codeConditionFailed:
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	case len(codes) > 0 && codes[0] == codeConditionFailed:
		return fmt.Errorf("account id already exists: %w", domain.ErrConflict)
	}
	return fmt.Errorf("create account: %w", err)
}

func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(attrAccountID, accountID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account with id %q not found: %w", accountID, domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.queryGSI(ctx, indexUsername, attrUsername, username)
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.queryGSI(ctx, indexEmail, attrEmail, email)
}

func (r *AccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.markerExists(ctx, usernameKey(username))
}

func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.markerExists(ctx, emailKey(email))
}

// Update applies a partial SET to an existing account and bumps updated_at.
// Username and email are immutable here because their markers would go stale.
func (r *AccountRepo) Update(ctx context.Context, accountID string, updates map[string]interface{}) error {
	if _, ok := updates[attrUsername]; ok {
		return fmt.Errorf("username cannot be updated: %w", domain.ErrBadRequest)
	}
	if _, ok := updates[attrEmail]; ok {
		return fmt.Errorf("email cannot be updated: %w", domain.ErrBadRequest)
	}
	fields := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		fields[k] = v
	}
	fields[attrUpdatedAt] = time.Now().UTC()

	ue, err := buildUpdateExpr(fields)
	if err != nil {
		return err
	}
	ue.Names["#pk"] = attrAccountID
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(attrAccountID, accountID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("account with id %q not found: %w", accountID, domain.ErrNotFound)
	}
	return err
}

// ConsumeOTP swaps in the new password hash and removes both OTP attributes in
// one conditional write. It fails with domain.ErrConflict when the stored
// otp_hash no longer matches, i.e. the code was consumed or reissued.
func (r *AccountRepo) ConsumeOTP(ctx context.Context, accountID, expectedOTPHash, newPasswordHash string) error {
	now, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(attrAccountID, accountID),
		UpdateExpression:    aws.String("SET #pw = :pw, #ua = :ua REMOVE #oh, #oi"),
		ConditionExpression: aws.String("#oh = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#pw": attrPassword,
			"#ua": attrUpdatedAt,
			"#oh": attrOTPHash,
			"#oi": attrOTPIssuedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pw":       &types.AttributeValueMemberS{Value: newPasswordHash},
			":ua":       now,
			":expected": &types.AttributeValueMemberS{Value: expectedOTPHash},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("otp no longer pending: %w", domain.ErrConflict)
	}
	return err
}

// ListAll scans every page of the accounts table.
func (r *AccountRepo) ListAll(ctx context.Context) ([]domain.Account, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	var accounts []domain.Account
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var page []domain.Account
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		accounts = append(accounts, page...)
	}
	return accounts, nil
}

func (r *AccountRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.Account, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("account with %s %q not found: %w", attr, value, domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) uniqueMarker(key, accountID string) types.TransactWriteItem {
	return types.TransactWriteItem{Put: &types.Put{
		TableName: aws.String(r.uniquesTable),
		Item: map[string]types.AttributeValue{
			attrUniqueKey: &types.AttributeValueMemberS{Value: key},
			attrAccountID: &types.AttributeValueMemberS{Value: accountID},
		},
		ConditionExpression: aws.String("attribute_not_exists(" + attrUniqueKey + ")"),
	}}
}

func (r *AccountRepo) markerExists(ctx context.Context, key string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.uniquesTable),
		Key:            strKey(attrUniqueKey, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

// codeConditionFailed is the cancellation reason code of a failed transact condition.
const codeConditionFailed = "ConditionalCheckFailed"

func usernameKey(username string) string { return "username#" + username }

func emailKey(email string) string { return "email#" + email }
