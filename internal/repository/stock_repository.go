package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// StockRepository stores one item per variant key. The table carries a
// "product_id-index" GSI for per-product listings.
type StockRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewStockRepository(client *dynamodb.Client, tableName string) *StockRepository {
	return &StockRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *StockRepository) GetStock(ctx context.Context, variantKey string) (*domain.VariantStock, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey("variant_key", variantKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if result.Item == nil {
		return nil, domain.ErrNotFound
	}

	var stock domain.VariantStock
	if err := attributevalue.UnmarshalMap(result.Item, &stock); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stock: %w", err)
	}
	return &stock, nil
}

func (r *StockRepository) PutStock(ctx context.Context, stock *domain.VariantStock) error {
	av, err := attributevalue.MarshalMap(stock)
	if err != nil {
		return fmt.Errorf("failed to marshal stock: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// AdjustStock applies delta atomically. Negative deltas only succeed while
// enough stock remains, so the level never drops below zero. A record created
// here gets the variant's product, color and size so it shows up in ListStock.
func (r *StockRepository) AdjustStock(ctx context.Context, ref domain.VariantRef, delta int) (*domain.StockMovement, error) {
	update := expression.Set(
		expression.Name("stock_level"),
		expression.Plus(
			expression.IfNotExists(expression.Name("stock_level"), expression.Value(0)),
			expression.Value(delta),
		),
	).Set(
		expression.Name("product_id"),
		expression.IfNotExists(expression.Name("product_id"), expression.Value(ref.ProductID)),
	).Set(
		expression.Name("color"),
		expression.IfNotExists(expression.Name("color"), expression.Value(ref.Color)),
	).Set(
		expression.Name("size"),
		expression.IfNotExists(expression.Name("size"), expression.Value(ref.Size)),
	).Set(
		expression.Name("updated_at"),
		expression.Value(time.Now()),
	)

	builder := expression.NewBuilder().WithUpdate(update)
	if delta < 0 {
		// 재고가 충분한 경우에만 차감
		condition := expression.GreaterThanEqual(
			expression.Name("stock_level"),
			expression.Value(-delta),
		)
		builder = builder.WithCondition(condition)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       stringKey("variant_key", ref.VariantKey),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	}

	result, err := r.client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionFailed(err) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	var updated domain.VariantStock
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, err
	}

	return &domain.StockMovement{
		VariantRef: domain.VariantRef{
			VariantKey: ref.VariantKey,
			ProductID:  updated.ProductID,
			Color:      updated.Color,
			Size:       updated.Size,
		},
		PreviousStock: updated.StockLevel - delta,
		NewStock:      updated.StockLevel,
		Delta:         delta,
	}, nil
}

func (r *StockRepository) ListStock(ctx context.Context, productID string) ([]domain.VariantStock, error) {
	keyCond := expression.Key("product_id").Equal(expression.Value(productID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}

	stocks := []domain.VariantStock{}
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("product_id-index"),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query stock: %w", err)
		}
		var batch []domain.VariantStock
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stock: %w", err)
		}
		stocks = append(stocks, batch...)
	}
	return stocks, nil
}
