package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// ReviewRepository expects "product_id-index" and "user_id-index" GSIs.
//
// Next to each live review the table holds a guard item keyed by
// "live#<user_id>#<product_id>". It has no product_id or user_id attribute, so
// it stays out of both indexes. Creating a review claims the guard in the same
// transaction, and soft-deleting the review releases it.
type ReviewRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewReviewRepository(client *dynamodb.Client, tableName string) *ReviewRepository {
	return &ReviewRepository{
		client:    client,
		tableName: tableName,
	}
}

func liveReviewKey(userID, productID string) string {
	return "live#" + userID + "#" + productID
}

func (r *ReviewRepository) CreateReview(ctx context.Context, review *domain.Review) error {
	av, err := attributevalue.MarshalMap(review)
	if err != nil {
		return fmt.Errorf("failed to marshal review: %w", err)
	}

	notExists, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("review_id"))).
		Build()
	if err != nil {
		return err
	}

	guard := map[string]types.AttributeValue{
		"review_id":       &types.AttributeValueMemberS{Value: liveReviewKey(review.UserID, review.ProductID)},
		"owner_review_id": &types.AttributeValueMemberS{Value: review.ReviewID},
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     guard,
				ConditionExpression:      notExists.Condition(),
				ExpressionAttributeNames: notExists.Names(),
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     av,
				ConditionExpression:      notExists.Condition(),
				ExpressionAttributeNames: notExists.Names(),
			}},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			reasons := tce.CancellationReasons
			if len(reasons) > 0 && aws.ToString(reasons[0].Code) == "ConditionalCheckFailed" {
				return domain.ErrDuplicateReview
			}
			if len(reasons) > 1 && aws.ToString(reasons[1].Code) == "ConditionalCheckFailed" {
				return domain.ErrAlreadyExists
			}
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// SaveReview overwrites the review. Saving a deleted review also releases its
// guard item.
func (r *ReviewRepository) SaveReview(ctx context.Context, review *domain.Review) error {
	av, err := attributevalue.MarshalMap(review)
	if err != nil {
		return fmt.Errorf("failed to marshal review: %w", err)
	}

	if !review.Deleted() {
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      av,
		})
		if err != nil {
			return fmt.Errorf("failed to put item: %w", err)
		}
		return nil
	}

	owned, err := expression.NewBuilder().
		WithCondition(expression.Or(
			expression.AttributeNotExists(expression.Name("review_id")),
			expression.Name("owner_review_id").Equal(expression.Value(review.ReviewID)),
		)).
		Build()
	if err != nil {
		return err
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName: aws.String(r.tableName),
				Item:      av,
			}},
			{Delete: &types.Delete{
				TableName:                 aws.String(r.tableName),
				Key:                       stringKey("review_id", liveReviewKey(review.UserID, review.ProductID)),
				ConditionExpression:       owned.Condition(),
				ExpressionAttributeNames:  owned.Names(),
				ExpressionAttributeValues: owned.Values(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetReview(ctx context.Context, reviewID string) (*domain.Review, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey("review_id", reviewID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if result.Item == nil {
		return nil, domain.ErrNotFound
	}

	var review domain.Review
	if err := attributevalue.UnmarshalMap(result.Item, &review); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review: %w", err)
	}
	return &review, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return r.queryIndex(ctx, "product_id-index", "product_id", productID)
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return r.queryIndex(ctx, "user_id-index", "user_id", userID)
}

func (r *ReviewRepository) queryIndex(ctx context.Context, index, attr, value string) ([]domain.Review, error) {
	keyCond := expression.Key(attr).Equal(expression.Value(value))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}

	reviews := []domain.Review{}
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query reviews: %w", err)
		}
		var batch []domain.Review
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reviews: %w", err)
		}
		reviews = append(reviews, batch...)
	}
	return reviews, nil
}
