package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

const (
	ReviewSubmitted = "review.submitted"
	ReviewUpdated   = "review.updated"
	ReviewDeleted   = "review.deleted"
)

// ReviewPublisher announces review changes together with the product's fresh summary.
type ReviewPublisher interface {
	PublishReviewChanged(ctx context.Context, eventType string, review *domain.Review, summary domain.ReviewSummary) error
}

type nopReviewPublisher struct{}

func (nopReviewPublisher) PublishReviewChanged(context.Context, string, *domain.Review, domain.ReviewSummary) error {
	return nil
}

// Aggregate folds reviews into a summary. Ratings outside 1..5 are ignored.
func Aggregate(reviews []domain.Review) domain.ReviewSummary {
	summary := domain.ReviewSummary{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		summary.Distribution[r.Rating]++
		summary.Count++
		sum += r.Rating
	}
	if summary.Count > 0 {
		summary.Avg = float64(sum) / float64(summary.Count)
	}
	return summary
}

type ReviewService struct {
	reviews   ReviewStore
	products  ProductStore
	users     UserStore
	verifier  *PurchaseVerifier
	publisher ReviewPublisher
	logger    *zap.Logger
}

func NewReviewService(reviews ReviewStore, products ProductStore, users UserStore, verifier *PurchaseVerifier, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		users:     users,
		verifier:  verifier,
		publisher: nopReviewPublisher{},
		logger:    logger,
	}
}

// 런타임에 이벤트 프로듀서 주입
func (s *ReviewService) SetPublisher(p ReviewPublisher) {
	if p == nil {
		p = nopReviewPublisher{}
	}
	s.publisher = p
}

// ListProductReviews returns published reviews, newest first, and a summary
// aggregated from them on every call.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string) (*domain.ProductReviewsResponse, error) {
	published, err := s.publishedFor(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &domain.ProductReviewsResponse{
		ProductID: productID,
		Reviews:   published,
		Summary:   Aggregate(published),
	}, nil
}

func (s *ReviewService) Summary(ctx context.Context, productID string) (domain.ReviewSummary, error) {
	published, err := s.publishedFor(ctx, productID)
	if err != nil {
		return domain.ReviewSummary{}, err
	}
	return Aggregate(published), nil
}

func (s *ReviewService) publishedFor(ctx context.Context, productID string) ([]domain.Review, error) {
	all, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	published := make([]domain.Review, 0, len(all))
	for _, r := range all {
		if r.Status == domain.ReviewStatusPublished {
			published = append(published, r)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].CreatedAt.After(published[j].CreatedAt)
	})
	return published, nil
}

// GetUserReview returns ErrNotFound when the user has not reviewed the product yet.
func (s *ReviewService) GetUserReview(ctx context.Context, userID, productID string) (*domain.Review, error) {
	mine, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range mine {
		if mine[i].ProductID == productID && !mine[i].Deleted() {
			return &mine[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *ReviewService) SubmitReview(ctx context.Context, userID string, req domain.SubmitReviewRequest) (*domain.Review, error) {
	if err := validateReviewContent(req.Rating, req.Title, req.Comment); err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetUserReview(ctx, userID, product.ProductID); err == nil {
		return nil, domain.ErrDuplicateReview
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user, err := loadOrCreateUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	orderID, verified, err := s.verifier.Verify(ctx, userID, product.ProductID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := &domain.Review{
		ReviewID:   uuid.NewString(),
		OrderID:    orderID,
		ProductID:  product.ProductID,
		UserID:     userID,
		UserName:   user.Name,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(req.Title),
		Comment:    strings.TrimSpace(req.Comment),
		IsVerified: verified,
		Status:     domain.ReviewStatusPublished,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.reviews.CreateReview(ctx, review); err != nil {
		if errors.Is(err, domain.ErrDuplicateReview) {
			return nil, err
		}
		s.logger.Error("Failed to save review",
			zap.String("product_id", review.ProductID),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Review submitted",
		zap.String("review_id", review.ReviewID),
		zap.String("product_id", review.ProductID),
		zap.Int("rating", review.Rating),
		zap.Bool("verified", review.IsVerified))

	s.announce(ctx, ReviewSubmitted, review)
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID string, req domain.UpdateReviewRequest) (*domain.Review, error) {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Deleted() {
		return nil, domain.ErrNotFound
	}
	if review.UserID != userID {
		return nil, domain.ErrForbidden
	}

	rating, title, comment := review.Rating, review.Title, review.Comment
	if req.Rating != nil {
		rating = *req.Rating
	}
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if req.Comment != nil {
		comment = strings.TrimSpace(*req.Comment)
	}
	if err := validateReviewContent(rating, title, comment); err != nil {
		return nil, err
	}

	orderID, verified, err := s.verifier.Verify(ctx, userID, review.ProductID)
	if err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Title = title
	review.Comment = comment
	review.IsVerified = verified
	review.OrderID = orderID
	review.UpdatedAt = time.Now()

	if err := s.reviews.SaveReview(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("Review updated",
		zap.String("review_id", review.ReviewID),
		zap.Int("rating", review.Rating),
		zap.Bool("verified", review.IsVerified))

	s.announce(ctx, ReviewUpdated, review)
	return review, nil
}

// DeleteReview soft-deletes, so the user can review the product again afterwards.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID string, isAdmin bool) error {
	review, err := s.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.Deleted() {
		return domain.ErrNotFound
	}
	if review.UserID != userID && !isAdmin {
		return domain.ErrForbidden
	}

	review.Status = domain.ReviewStatusDeleted
	review.UpdatedAt = time.Now()
	if err := s.reviews.SaveReview(ctx, review); err != nil {
		return err
	}

	s.logger.Info("Review deleted",
		zap.String("review_id", review.ReviewID),
		zap.String("deleted_by", userID))

	s.announce(ctx, ReviewDeleted, review)
	return nil
}

func (s *ReviewService) announce(ctx context.Context, eventType string, review *domain.Review) {
	summary, err := s.Summary(ctx, review.ProductID)
	if err == nil {
		err = s.publisher.PublishReviewChanged(ctx, eventType, review, summary)
	}
	if err != nil {
		s.logger.Warn("Failed to publish review event",
			zap.String("event_type", eventType),
			zap.String("review_id", review.ReviewID),
			zap.Error(err))
	}
}

func validateReviewContent(rating int, title, comment string) error {
	if rating < 1 || rating > 5 {
		return domain.NewValidationError("rating", "must be between 1 and 5")
	}
	if strings.TrimSpace(title) == "" {
		return domain.NewValidationError("title", "is required")
	}
	if strings.TrimSpace(comment) == "" {
		return domain.NewValidationError("comment", "is required")
	}
	return nil
}
