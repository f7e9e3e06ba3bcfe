package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type tableDescriber interface {
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// TableCheck reports whether every named table exists and is ACTIVE.
type TableCheck struct {
	client tableDescriber
	tables []string
}

func NewTableCheck(client tableDescriber, tables ...string) *TableCheck {
	return &TableCheck{client: client, tables: tables}
}

func (c *TableCheck) Check(ctx context.Context) error {
	for _, name := range c.tables {
		out, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if err != nil {
			return fmt.Errorf("describe table %s: %w", name, err)
		}
		if out.Table == nil || out.Table.TableStatus != types.TableStatusActive {
			return fmt.Errorf("table %s is not active", name)
		}
	}
	return nil
}
