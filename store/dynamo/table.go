// Package dynamo implements the remote chunk table on DynamoDB.
//
// Every chunk is one item addressed by the partition key "key" (the
// canonical state key) and the sort key "index". The payload lives in "val"
// and every item repeats the chunk count in "size", so a consistent read of
// index 0 tells how many items to fetch.
package dynamo

import (
	"context"
	"strings"

	"github.com/RuiFG/streaming/streaming-state/log"
	"github.com/RuiFG/streaming/streaming-state/store"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
)

const (
	keyAttribute   = "key"
	indexAttribute = "index"
	valAttribute   = "val"
	sizeAttribute  = "size"
)

type chunkKey struct {
	Key   string `dynamodbav:"key"`
	Index int    `dynamodbav:"index"`
}

type chunkItem struct {
	Key   string `dynamodbav:"key"`
	Index int    `dynamodbav:"index"`
	Val   []byte `dynamodbav:"val"`
	Size  int    `dynamodbav:"size"`
}

// TableName turns a store name into a valid table name.
func TableName(name string) string {
	return strings.ReplaceAll(name, "/", "-")
}

type Table struct {
	logger log.Logger
	client dynamodbiface.DynamoDBAPI
	name   string
}

func New(client dynamodbiface.DynamoDBAPI, name string) *Table {
	return &Table{
		logger: log.Global().Named("state.dynamo").With("table", name),
		client: client,
		name:   name,
	}
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) itemKey(key store.Key, index int) (map[string]*dynamodb.AttributeValue, error) {
	return dynamodbattribute.MarshalMap(chunkKey{Key: key.String(), Index: index})
}

func (t *Table) getItem(ctx context.Context, key store.Key, index int, attribute string) (*chunkItem, error) {
	itemKey, err := t.itemKey(key, index)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to marshal chunk key")
	}
	output, err := t.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(t.name),
		Key:                      itemKey,
		ConsistentRead:           aws.Bool(true),
		ProjectionExpression:     aws.String("#" + attribute),
		ExpressionAttributeNames: map[string]*string{"#" + attribute: aws.String(attribute)},
	})
	if err != nil {
		return nil, t.classify(err, "get %s chunk %d", key, index)
	}
	if len(output.Item) == 0 {
		return nil, nil
	}
	item := &chunkItem{}
	if err = dynamodbattribute.UnmarshalMap(output.Item, item); err != nil {
		return nil, errors.WithMessagef(err, "failed to unmarshal %s chunk %d", key, index)
	}
	return item, nil
}

func (t *Table) ChunkCount(ctx context.Context, key store.Key) (int, error) {
	item, err := t.getItem(ctx, key, 0, sizeAttribute)
	if err != nil || item == nil {
		return 0, err
	}
	return item.Size, nil
}

func (t *Table) GetChunk(ctx context.Context, key store.Key, index int) ([]byte, error) {
	item, err := t.getItem(ctx, key, index, valAttribute)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Val == nil {
		return nil, errors.Wrapf(store.ErrChunkMissing, "%s chunk %d", key, index)
	}
	return item.Val, nil
}

func (t *Table) PutChunk(ctx context.Context, key store.Key, index int, payload []byte, total int) error {
	item, err := dynamodbattribute.MarshalMap(chunkItem{Key: key.String(), Index: index, Val: payload, Size: total})
	if err != nil {
		return errors.WithMessagef(err, "failed to marshal %s chunk %d", key, index)
	}
	if _, err = t.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      item,
	}); err != nil {
		return t.classify(err, "put %s chunk %d", key, index)
	}
	return nil
}

func (t *Table) DeleteChunk(ctx context.Context, key store.Key, index int) error {
	itemKey, err := t.itemKey(key, index)
	if err != nil {
		return errors.WithMessage(err, "failed to marshal chunk key")
	}
	if _, err = t.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       itemKey,
	}); err != nil {
		return t.classify(err, "delete %s chunk %d", key, index)
	}
	return nil
}

// classify keeps a missing table apart from every other request failure.
func (t *Table) classify(err error, format string, args ...interface{}) error {
	var awsErr awserr.Error
	if errors.As(err, &awsErr) && awsErr.Code() == dynamodb.ErrCodeResourceNotFoundException {
		return errors.Wrapf(store.ErrTableUnavailable, "table %s: %s", t.name, awsErr.Message())
	}
	return errors.WithMessagef(err, "failed to "+format, args...)
}
