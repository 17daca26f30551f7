package dynamo

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
)

const DefaultRegion = "us-west-1"

type ClientOptions struct {
	Region string
	//optional, e.g. a local DynamoDB
	Endpoint string
	//retries are left to the SDK retryer
	MaxRetries int
}

// NewClient builds a DynamoDB client from the shared AWS config chain
// (environment, shared credentials, instance role).
func NewClient(options ClientOptions) (dynamodbiface.DynamoDBAPI, error) {
	config := aws.NewConfig().
		WithRegion(DefaultRegion).
		WithMaxRetries(options.MaxRetries)
	if options.Region != "" {
		config = config.WithRegion(options.Region)
	}
	if options.Endpoint != "" {
		config = config.WithEndpoint(options.Endpoint)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *config,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create aws session")
	}
	return dynamodb.New(sess), nil
}
