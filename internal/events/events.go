package events

import (
	"time"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

const (
	OrderPlaced    = "order.placed"
	OrderCompleted = "order.completed"
	OrderCancelled = "order.cancelled"

	StockDeductionFailed = "stock.deduction_failed"
)

// Order Service에서 받을 이벤트
type OrderEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func (e OrderEvent) toOrder() *domain.Order {
	items := make([]domain.OrderItem, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return &domain.Order{
		OrderID:   e.OrderID,
		UserID:    e.UserID,
		Items:     items,
		CreatedAt: e.Timestamp,
	}
}

// 재고 차감 실패 보상 이벤트
type StockDeductionFailedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

type ReviewEvent struct {
	EventID    string               `json:"event_id"`
	EventType  string               `json:"event_type"`
	ReviewID   string               `json:"review_id"`
	ProductID  string               `json:"product_id"`
	UserID     string               `json:"user_id"`
	Rating     int                  `json:"rating"`
	IsVerified bool                 `json:"is_verified"`
	Summary    domain.ReviewSummary `json:"summary"`
	Timestamp  time.Time            `json:"timestamp"`
}
