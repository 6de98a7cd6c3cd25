package domain

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the document that embeds cart, addresses and wishlist. Version guards
// every read-modify-write of those arrays.
type User struct {
	UserID    string     `dynamodbav:"user_id"    json:"user_id"`
	Name      string     `dynamodbav:"name"       json:"name"`
	Email     string     `dynamodbav:"email"      json:"email"`
	Phone     string     `dynamodbav:"phone"      json:"phone"`
	Role      string     `dynamodbav:"role"       json:"role"`
	Cart      []CartItem `dynamodbav:"cart"       json:"cart"`
	Addresses []Address  `dynamodbav:"addresses"  json:"addresses"`
	Wishlist  []string   `dynamodbav:"wishlist"   json:"wishlist"`
	Version   int        `dynamodbav:"version"    json:"-"`
	CreatedAt time.Time  `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt time.Time  `dynamodbav:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ID            string    `dynamodbav:"id"             json:"id"`
	ProductID     string    `dynamodbav:"product_id"     json:"product_id"`
	SelectedColor string    `dynamodbav:"selected_color" json:"selected_color,omitempty"`
	SelectedSize  string    `dynamodbav:"selected_size"  json:"selected_size,omitempty"`
	Quantity      int       `dynamodbav:"quantity"       json:"quantity"`
	AddedAt       time.Time `dynamodbav:"added_at"       json:"added_at"`
}

type Address struct {
	ID           string    `dynamodbav:"id"             json:"id"`
	IsDefault    bool      `dynamodbav:"is_default"     json:"is_default"`
	AddressLine1 string    `dynamodbav:"address_line_1" json:"address_line_1"`
	AddressLine2 string    `dynamodbav:"address_line_2" json:"address_line_2"`
	City         string    `dynamodbav:"city"           json:"city"`
	State        string    `dynamodbav:"state"          json:"state"`
	ZipCode      string    `dynamodbav:"zip_code"       json:"zip_code"`
	CreatedAt    time.Time `dynamodbav:"created_at"     json:"created_at"`
}

type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"   binding:"required,min=1"`
}

type CartSummary struct {
	ItemCount int `json:"item_count"`
	LineCount int `json:"line_count"`
}

type CartView struct {
	Items   []CartItem  `json:"items"`
	Summary CartSummary `json:"summary"`
}

type AddressRequest struct {
	AddressLine1 string `json:"address_line_1" binding:"required"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"           binding:"required"`
	State        string `json:"state"          binding:"required"`
	ZipCode      string `json:"zip_code"       binding:"required,len=6,numeric"`
}

// UpdateAddressRequest carries only the fields being changed.
type UpdateAddressRequest struct {
	IsDefault    *bool   `json:"is_default"`
	AddressLine1 *string `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	ZipCode      *string `json:"zip_code"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type WishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type ProfileResponse struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Addresses []Address `json:"addresses"`
	Wishlist  []string  `json:"wishlist"`
	CartCount int       `json:"cart_count"`
}
