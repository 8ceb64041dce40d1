package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/sirupsen/logrus"
)

// DynamoRefreshTokenRepository keeps issued refresh tokens in a single
// DynamoDB table keyed by PK=REFRESH_TOKEN#<jti>, SK=METADATA. Items carry a
// TTL attribute so the table can expire them on its own.
type DynamoRefreshTokenRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logrus.Logger
}

func NewDynamoRefreshTokenRepository(client *dynamodb.Client, tableName string, logger *logrus.Logger) *DynamoRefreshTokenRepository {
	return &DynamoRefreshTokenRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func refreshTokenKey(jti string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "REFRESH_TOKEN#" + jti},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

func (r *DynamoRefreshTokenRepository) Store(ctx context.Context, tokenData models.RefreshTokenData) error {
	item, err := attributevalue.MarshalMap(tokenData)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh token: %w", err)
	}
	for k, v := range refreshTokenKey(tokenData.JTI) {
		item[k] = v
	}
	item["TTL"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", tokenData.ExpiresAt.Unix())}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to store refresh token in DynamoDB")
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

func (r *DynamoRefreshTokenRepository) Get(ctx context.Context, jti string) (*models.RefreshTokenData, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       refreshTokenKey(jti),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var tokenData models.RefreshTokenData
	if err := attributevalue.UnmarshalMap(result.Item, &tokenData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}
	// DynamoDB TTL deletion lags behind the expiry time.
	if time.Now().After(tokenData.ExpiresAt) {
		return nil, ErrNotFound
	}

	return &tokenData, nil
}

func (r *DynamoRefreshTokenRepository) Revoke(ctx context.Context, jti string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 refreshTokenKey(jti),
		UpdateExpression:    aws.String("SET Revoked = :revoked"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":revoked": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		r.logger.WithError(err).Error("Failed to revoke refresh token in DynamoDB")
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}
