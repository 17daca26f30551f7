package dynamo

import (
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// fakeDynamoDB serves the item calls the table makes from memory.
type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI
	mutex  sync.Mutex
	tables map[string]map[string]map[string]*dynamodb.AttributeValue
	gets   []*dynamodb.GetItemInput
}

func newFakeDynamoDB(tables ...string) *fakeDynamoDB {
	f := &fakeDynamoDB{tables: map[string]map[string]map[string]*dynamodb.AttributeValue{}}
	for _, table := range tables {
		f.tables[table] = map[string]map[string]*dynamodb.AttributeValue{}
	}
	return f
}

func notFound() error {
	return awserr.New(dynamodb.ErrCodeResourceNotFoundException, "Requested resource not found", nil)
}

func itemID(key map[string]*dynamodb.AttributeValue) string {
	return aws.StringValue(key[keyAttribute].S) + "#" + aws.StringValue(key[indexAttribute].N)
}

func (f *fakeDynamoDB) items(table string) map[string]map[string]*dynamodb.AttributeValue {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	copied := map[string]map[string]*dynamodb.AttributeValue{}
	for id, item := range f.tables[table] {
		copied[id] = item
	}
	return copied
}

func (f *fakeDynamoDB) GetItemWithContext(_ aws.Context, input *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.gets = append(f.gets, input)
	table, ok := f.tables[aws.StringValue(input.TableName)]
	if !ok {
		return nil, notFound()
	}
	item, ok := table[itemID(input.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	if input.ProjectionExpression == nil {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	projected := map[string]*dynamodb.AttributeValue{}
	for _, name := range strings.Split(aws.StringValue(input.ProjectionExpression), ",") {
		name = strings.TrimSpace(name)
		if alias, ok := input.ExpressionAttributeNames[name]; ok {
			name = aws.StringValue(alias)
		}
		if value, ok := item[name]; ok {
			projected[name] = value
		}
	}
	return &dynamodb.GetItemOutput{Item: projected}, nil
}

func (f *fakeDynamoDB) PutItemWithContext(_ aws.Context, input *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	table, ok := f.tables[aws.StringValue(input.TableName)]
	if !ok {
		return nil, notFound()
	}
	table[itemID(input.Item)] = input.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) DeleteItemWithContext(_ aws.Context, input *dynamodb.DeleteItemInput, _ ...request.Option) (*dynamodb.DeleteItemOutput, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	table, ok := f.tables[aws.StringValue(input.TableName)]
	if !ok {
		return nil, notFound()
	}
	delete(table, itemID(input.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoDB) CreateTableWithContext(_ aws.Context, input *dynamodb.CreateTableInput, _ ...request.Option) (*dynamodb.CreateTableOutput, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	name := aws.StringValue(input.TableName)
	if _, ok := f.tables[name]; ok {
		return nil, awserr.New(dynamodb.ErrCodeResourceInUseException, "Table already exists: "+name, nil)
	}
	f.tables[name] = map[string]map[string]*dynamodb.AttributeValue{}
	return &dynamodb.CreateTableOutput{}, nil
}

func (f *fakeDynamoDB) WaitUntilTableExistsWithContext(_ aws.Context, input *dynamodb.DescribeTableInput, _ ...request.WaiterOption) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.tables[aws.StringValue(input.TableName)]; !ok {
		return notFound()
	}
	return nil
}
