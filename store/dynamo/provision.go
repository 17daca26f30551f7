package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/pkg/errors"
)

// CreateTable provisions the chunk table with on-demand billing and waits
// until it is active. An existing table is left as is.
func (t *Table) CreateTable(ctx context.Context) error {
	_, err := t.client.CreateTableWithContext(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(t.name),
		BillingMode: aws.String(dynamodb.BillingModePayPerRequest),
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{AttributeName: aws.String(keyAttribute), AttributeType: aws.String(dynamodb.ScalarAttributeTypeS)},
			{AttributeName: aws.String(indexAttribute), AttributeType: aws.String(dynamodb.ScalarAttributeTypeN)},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{AttributeName: aws.String(keyAttribute), KeyType: aws.String(dynamodb.KeyTypeHash)},
			{AttributeName: aws.String(indexAttribute), KeyType: aws.String(dynamodb.KeyTypeRange)},
		},
	})
	var awsErr awserr.Error
	switch {
	case err == nil:
		t.logger.Infow("created state table")
	case errors.As(err, &awsErr) && awsErr.Code() == dynamodb.ErrCodeResourceInUseException:
		t.logger.Infow("state table already exists")
	default:
		return errors.WithMessagef(err, "failed to create table %s", t.name)
	}
	if err = t.client.WaitUntilTableExistsWithContext(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(t.name),
	}); err != nil {
		return errors.WithMessagef(err, "failed to wait for table %s", t.name)
	}
	return nil
}
