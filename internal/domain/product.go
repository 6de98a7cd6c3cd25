package domain

import (
	"time"
)

type ColorOption struct {
	Name     string `dynamodbav:"name"                json:"name"`
	HexCode  string `dynamodbav:"hex_code"            json:"hex_code"`
	ImageURL string `dynamodbav:"image_url,omitempty" json:"image_url,omitempty"`
}

type Price struct {
	BasePrice float64 `dynamodbav:"base_price" json:"base_price"`
	SalePrice float64 `dynamodbav:"sale_price" json:"sale_price"`
	IsOnSale  bool    `dynamodbav:"is_on_sale" json:"is_on_sale"`
}

// Effective is what the customer pays.
func (p Price) Effective() float64 {
	if p.IsOnSale {
		return p.SalePrice
	}
	return p.BasePrice
}

func (p Price) Validate() error {
	if p.BasePrice < 0 || p.SalePrice < 0 {
		return NewValidationError("price", "prices must not be negative")
	}
	if p.IsOnSale && p.SalePrice > p.BasePrice {
		return NewValidationError("price.sale_price", "sale price must not exceed base price")
	}
	return nil
}

type Product struct {
	ProductID       string        `dynamodbav:"product_id"       json:"product_id"`
	Name            string        `dynamodbav:"name"             json:"name"`
	Description     string        `dynamodbav:"description"      json:"description"`
	Category        string        `dynamodbav:"category"         json:"category"`
	Brand           string        `dynamodbav:"brand"            json:"brand"`
	Images          []string      `dynamodbav:"images"           json:"images"`
	AvailableColors []ColorOption `dynamodbav:"available_colors" json:"available_colors"`
	AvailableSizes  []string      `dynamodbav:"available_sizes"  json:"available_sizes"`
	Price           Price         `dynamodbav:"price"            json:"price"`
	CreatedAt       time.Time     `dynamodbav:"created_at"       json:"created_at"`
	UpdatedAt       time.Time     `dynamodbav:"updated_at"       json:"updated_at"`
}

func (p *Product) HasColors() bool { return len(p.AvailableColors) > 0 }

func (p *Product) HasSizes() bool { return len(p.AvailableSizes) > 0 }

type CreateProductRequest struct {
	ProductID       string        `json:"product_id"       binding:"required"`
	Name            string        `json:"name"             binding:"required"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	Brand           string        `json:"brand"`
	Images          []string      `json:"images"`
	AvailableColors []ColorOption `json:"available_colors"`
	AvailableSizes  []string      `json:"available_sizes"`
	Price           Price         `json:"price"`
}

type UpdateProductRequest struct {
	Name            *string       `json:"name"`
	Description     *string       `json:"description"`
	Category        *string       `json:"category"`
	Brand           *string       `json:"brand"`
	Images          []string      `json:"images"`
	AvailableColors []ColorOption `json:"available_colors"`
	AvailableSizes  []string      `json:"available_sizes"`
	Price           *Price        `json:"price"`
}

type ProvisionStockRequest struct {
	Color      string `json:"color"`
	Size       string `json:"size"`
	StockLevel *int   `json:"stock_level" binding:"required"`
}

type VariantStockView struct {
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
	VariantKey string `json:"variant_key"`
	StockLevel int    `json:"stock_level"`
}

type ProductResponse struct {
	*Product
	EffectivePrice float64            `json:"effective_price"`
	Variants       []VariantStockView `json:"variants"`
}

type StockResponse struct {
	ProductID  string `json:"product_id"`
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
	StockLevel int    `json:"stock_level"`
}
