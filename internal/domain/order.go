package domain

import (
	"time"
)

const (
	OrderStatusPlaced    = "placed"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelling = "cancelling"
	OrderStatusCancelled  = "cancelled"
)

// Order is recorded from order-service events. The storefront never creates one itself.
type Order struct {
	OrderID   string      `dynamodbav:"order_id"   json:"order_id"`
	UserID    string      `dynamodbav:"user_id"    json:"user_id"`
	Status    string      `dynamodbav:"status"     json:"status"`
	Items     []OrderItem `dynamodbav:"items"      json:"items"`
	CreatedAt time.Time   `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt time.Time   `dynamodbav:"updated_at" json:"updated_at"`
}

type OrderItem struct {
	ProductID string  `dynamodbav:"product_id" json:"product_id"`
	Color     string  `dynamodbav:"color"      json:"color,omitempty"`
	Size      string  `dynamodbav:"size"       json:"size,omitempty"`
	Quantity  int     `dynamodbav:"quantity"   json:"quantity"`
	Price     float64 `dynamodbav:"price"      json:"price"`
	// set once the line's quantity has been returned to stock on cancellation
	Restocked bool `dynamodbav:"restocked" json:"restocked,omitempty"`
}

func (o *Order) Contains(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// VariantStock is the per-(product, color, size) inventory record.
type VariantStock struct {
	VariantKey string    `dynamodbav:"variant_key" json:"variant_key"`
	ProductID  string    `dynamodbav:"product_id"  json:"product_id"`
	Color      string    `dynamodbav:"color"       json:"color,omitempty"`
	Size       string    `dynamodbav:"size"        json:"size,omitempty"`
	StockLevel int       `dynamodbav:"stock_level" json:"stock_level"`
	UpdatedAt  time.Time `dynamodbav:"updated_at"  json:"updated_at"`
}

// VariantRef identifies the stock record of one variant.
type VariantRef struct {
	VariantKey string `json:"variant_key"`
	ProductID  string `json:"product_id"`
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
}

type StockMovement struct {
	VariantRef
	PreviousStock int `json:"previous_stock"`
	NewStock      int `json:"new_stock"`
	Delta         int `json:"delta"`
}
