package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

func TestUserRepository_VersionGuard(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.CreateUser(ctx, &domain.User{UserID: "u1"}))
	assert.ErrorIs(t, repo.CreateUser(ctx, &domain.User{UserID: "u1"}), domain.ErrAlreadyExists)

	first, err := repo.GetUser(ctx, "u1")
	require.NoError(t, err)
	second, err := repo.GetUser(ctx, "u1")
	require.NoError(t, err)

	first.Wishlist = append(first.Wishlist, "P1")
	require.NoError(t, repo.SaveUser(ctx, first))
	assert.Equal(t, 1, first.Version)

	second.Wishlist = append(second.Wishlist, "P2")
	assert.ErrorIs(t, repo.SaveUser(ctx, second), domain.ErrConflict)

	stored, err := repo.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, stored.Wishlist)

	// callers cannot mutate stored slices
	stored.Wishlist[0] = "changed"
	again, _ := repo.GetUser(ctx, "u1")
	assert.Equal(t, "P1", again.Wishlist[0])
}

func ref(key string) domain.VariantRef {
	return domain.VariantRef{VariantKey: key, ProductID: "P1"}
}

func TestStockRepository_AdjustNeverNegative(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository()

	_, err := repo.AdjustStock(ctx, ref("p1_black_m"), -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, repo.PutStock(ctx, &domain.VariantStock{VariantKey: "p1_black_m", ProductID: "P1", StockLevel: 2}))
	mv, err := repo.AdjustStock(ctx, ref("p1_black_m"), -2)
	require.NoError(t, err)
	assert.Equal(t, 2, mv.PreviousStock)
	assert.Equal(t, 0, mv.NewStock)

	_, err = repo.AdjustStock(ctx, ref("p1_black_m"), -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStockRepository_AdjustCreatesListedRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewStockRepository()

	mv, err := repo.AdjustStock(ctx, domain.VariantRef{
		VariantKey: "p1_navy-blue_l",
		ProductID:  "P1",
		Color:      "Navy Blue",
		Size:       "L",
	}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, mv.NewStock)
	assert.Equal(t, "P1", mv.ProductID)

	list, err := repo.ListStock(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1_navy-blue_l", list[0].VariantKey)
	assert.Equal(t, "Navy Blue", list[0].Color)
	assert.Equal(t, "L", list[0].Size)
	assert.Equal(t, 4, list[0].StockLevel)

	// an existing record keeps its own identity
	_, err = repo.AdjustStock(ctx, domain.VariantRef{VariantKey: "p1_navy-blue_l", ProductID: "P1", Color: "navy blue"}, 1)
	require.NoError(t, err)
	got, err := repo.GetStock(ctx, "p1_navy-blue_l")
	require.NoError(t, err)
	assert.Equal(t, "Navy Blue", got.Color)
	assert.Equal(t, 5, got.StockLevel)
}

func TestReviewRepository_OneLiveReviewPerProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository()

	first := &domain.Review{ReviewID: "r1", UserID: "u1", ProductID: "P1", Status: domain.ReviewStatusPublished}
	require.NoError(t, repo.CreateReview(ctx, first))

	second := &domain.Review{ReviewID: "r2", UserID: "u1", ProductID: "P1", Status: domain.ReviewStatusPublished}
	assert.ErrorIs(t, repo.CreateReview(ctx, second), domain.ErrDuplicateReview)

	other := &domain.Review{ReviewID: "r3", UserID: "u1", ProductID: "P2", Status: domain.ReviewStatusPublished}
	require.NoError(t, repo.CreateReview(ctx, other))

	first.Status = domain.ReviewStatusDeleted
	require.NoError(t, repo.SaveReview(ctx, first))
	require.NoError(t, repo.CreateReview(ctx, second))
}

func TestOrderRepository_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	require.NoError(t, repo.PutOrder(ctx, &domain.Order{
		OrderID: "o-1",
		Status:  domain.OrderStatusPlaced,
		Items:   []domain.OrderItem{{ProductID: "P1", Quantity: 1}, {ProductID: "P2", Quantity: 1}},
	}))

	assert.ErrorIs(t, repo.TransitionStatus(ctx, "missing", domain.OrderStatusPlaced, domain.OrderStatusCompleted), domain.ErrNotFound)
	assert.ErrorIs(t, repo.TransitionStatus(ctx, "o-1", domain.OrderStatusCompleted, domain.OrderStatusCancelled), domain.ErrConflict)
	require.NoError(t, repo.TransitionStatus(ctx, "o-1", domain.OrderStatusPlaced, domain.OrderStatusCancelling))

	require.NoError(t, repo.MarkRestocked(ctx, "o-1", 1))
	assert.ErrorIs(t, repo.MarkRestocked(ctx, "o-1", 2), domain.ErrNotFound)

	o, err := repo.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelling, o.Status)
	assert.False(t, o.Items[0].Restocked)
	assert.True(t, o.Items[1].Restocked)
}
