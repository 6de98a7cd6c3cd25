package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

// DeductionError reports the order line whose stock could not be deducted.
type DeductionError struct {
	ProductID string
	Quantity  int
	Err       error
}

func (e *DeductionError) Error() string {
	return fmt.Sprintf("stock deduction failed for product %s (qty %d): %v", e.ProductID, e.Quantity, e.Err)
}

func (e *DeductionError) Unwrap() error { return e.Err }

// OrderService applies order lifecycle events from the order service to
// variant stock and keeps the order history used for verified purchases.
type OrderService struct {
	orders   OrderStore
	stock    StockStore
	resolver *StockResolver
	logger   *zap.Logger
}

func NewOrderService(orders OrderStore, stock StockStore, resolver *StockResolver, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		stock:    stock,
		resolver: resolver,
		logger:   logger,
	}
}

// PlaceOrder deducts stock for every line and records the order. It is all or
// nothing: lines already deducted are restocked when a later one fails.
// Redelivered events for a recorded order are ignored.
func (s *OrderService) PlaceOrder(ctx context.Context, order *domain.Order) ([]domain.StockMovement, error) {
	if _, err := s.orders.GetOrder(ctx, order.OrderID); err == nil {
		s.logger.Info("Order already recorded, skipping", zap.String("order_id", order.OrderID))
		return nil, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	movements := make([]domain.StockMovement, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Quantity < 1 {
			s.rollback(ctx, order.OrderID, movements)
			return nil, &DeductionError{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Err:       domain.NewValidationError("quantity", "must be a positive integer"),
			}
		}

		ref, err := s.resolver.RefFor(ctx, item.ProductID, item.Color, item.Size)
		if err == nil {
			var mv *domain.StockMovement
			mv, err = s.stock.AdjustStock(ctx, ref, -item.Quantity)
			if err == nil {
				movements = append(movements, *mv)
				s.logger.Info("Stock deducted successfully",
					zap.String("order_id", order.OrderID),
					zap.String("variant_key", ref.VariantKey),
					zap.Int("previous_stock", mv.PreviousStock),
					zap.Int("new_stock", mv.NewStock))
				continue
			}
		}

		s.logger.Error("Failed to deduct stock",
			zap.String("order_id", order.OrderID),
			zap.String("product_id", item.ProductID),
			zap.Int("quantity", item.Quantity),
			zap.Error(err))
		s.rollback(ctx, order.OrderID, movements)
		return nil, &DeductionError{ProductID: item.ProductID, Quantity: item.Quantity, Err: err}
	}

	now := time.Now()
	order.Status = domain.OrderStatusPlaced
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	if err := s.orders.PutOrder(ctx, order); err != nil {
		s.rollback(ctx, order.OrderID, movements)
		return nil, err
	}

	return movements, nil
}

// CompleteOrder marks a placed order completed. Redelivered or late
// completions for orders in another state are ignored.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID string) error {
	err := s.orders.TransitionStatus(ctx, orderID, domain.OrderStatusPlaced, domain.OrderStatusCompleted)
	if errors.Is(err, domain.ErrConflict) {
		order, gerr := s.orders.GetOrder(ctx, orderID)
		if gerr != nil {
			return gerr
		}
		if order.Status != domain.OrderStatusCompleted {
			s.logger.Warn("Ignoring completion of order",
				zap.String("order_id", orderID),
				zap.String("status", order.Status))
		}
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Info("Order completed", zap.String("order_id", orderID))
	return nil
}

// CancelOrder returns every line's quantity to stock. The order is moved to
// "cancelling" before any stock changes, and each line is marked as soon as
// its stock is back, so a retried cancellation only restocks the lines that
// are still pending. Cancelling twice is a no-op.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	switch order.Status {
	case domain.OrderStatusCancelled:
		return nil
	case domain.OrderStatusCancelling:
		s.logger.Info("Resuming order cancellation", zap.String("order_id", orderID))
	default:
		if err := s.orders.TransitionStatus(ctx, orderID, order.Status, domain.OrderStatusCancelling); err != nil {
			return err
		}
	}

	for i, item := range order.Items {
		if item.Restocked {
			continue
		}
		ref, err := s.resolver.RefFor(ctx, item.ProductID, item.Color, item.Size)
		if err != nil {
			return err
		}
		if _, err := s.stock.AdjustStock(ctx, ref, item.Quantity); err != nil {
			return fmt.Errorf("failed to restock %s: %w", ref.VariantKey, err)
		}
		if err := s.orders.MarkRestocked(ctx, orderID, i); err != nil {
			return err
		}
	}

	if err := s.orders.TransitionStatus(ctx, orderID, domain.OrderStatusCancelling, domain.OrderStatusCancelled); err != nil {
		return err
	}
	s.logger.Info("Order cancelled, stock restored",
		zap.String("order_id", orderID),
		zap.Int("items_count", len(order.Items)))
	return nil
}

func (s *OrderService) rollback(ctx context.Context, orderID string, movements []domain.StockMovement) {
	for _, mv := range movements {
		if _, err := s.stock.AdjustStock(ctx, mv.VariantRef, -mv.Delta); err != nil {
			s.logger.Error("Failed to roll back stock deduction",
				zap.String("order_id", orderID),
				zap.String("variant_key", mv.VariantKey),
				zap.Int("quantity", -mv.Delta),
				zap.Error(err))
		}
	}
}
