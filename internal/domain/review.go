package domain

import (
	"time"
)

const (
	ReviewStatusPublished = "published"
	ReviewStatusDeleted   = "deleted"
)

type Review struct {
	ReviewID   string    `dynamodbav:"review_id"          json:"review_id"`
	OrderID    string    `dynamodbav:"order_id,omitempty" json:"order_id,omitempty"`
	ProductID  string    `dynamodbav:"product_id"         json:"product_id"`
	UserID     string    `dynamodbav:"user_id"            json:"user_id"`
	UserName   string    `dynamodbav:"user_name"          json:"user_name"`
	Rating     int       `dynamodbav:"rating"             json:"rating"`
	Title      string    `dynamodbav:"title"              json:"title"`
	Comment    string    `dynamodbav:"comment"            json:"comment"`
	IsVerified bool      `dynamodbav:"is_verified"        json:"isVerified"`
	Status     string    `dynamodbav:"status"             json:"status"`
	CreatedAt  time.Time `dynamodbav:"created_at"         json:"created_at"`
	UpdatedAt  time.Time `dynamodbav:"updated_at"         json:"updated_at"`
}

func (r *Review) Deleted() bool { return r.Status == ReviewStatusDeleted }

// ReviewSummary is derived on every read and never stored.
type ReviewSummary struct {
	Avg          float64     `json:"avg"`
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"`
}

// SubmitReviewRequest has no verification field; that flag is
// always computed from order history.
type SubmitReviewRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Rating    int    `json:"rating"     binding:"required,min=1,max=5"`
	Title     string `json:"title"      binding:"required"`
	Comment   string `json:"comment"    binding:"required"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"  binding:"omitempty,min=1,max=5"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

type ProductReviewsResponse struct {
	ProductID string        `json:"product_id"`
	Reviews   []Review      `json:"reviews"`
	Summary   ReviewSummary `json:"summary"`
}
