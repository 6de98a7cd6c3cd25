package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

const defaultSimilarLimit = 8

type ProductService struct {
	products ProductStore
	stock    StockStore
	resolver *StockResolver
	logger   *zap.Logger
}

func NewProductService(products ProductStore, stock StockStore, resolver *StockResolver, logger *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		stock:    stock,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if err := req.Price.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ProductID:       strings.TrimSpace(req.ProductID),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Category:        req.Category,
		Brand:           req.Brand,
		Images:          nonNil(req.Images),
		AvailableColors: req.AvailableColors,
		AvailableSizes:  nonNil(req.AvailableSizes),
		Price:           req.Price,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if product.ProductID == "" || product.Name == "" {
		return nil, domain.NewValidationError("product", "product_id and name are required")
	}
	if product.AvailableColors == nil {
		product.AvailableColors = []domain.ColorOption{}
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		s.logger.Error("Failed to save product",
			zap.String("product_id", product.ProductID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created successfully",
		zap.String("product_id", product.ProductID),
		zap.Int("colors", len(product.AvailableColors)),
		zap.Int("sizes", len(product.AvailableSizes)))

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.AvailableColors != nil {
		product.AvailableColors = req.AvailableColors
	}
	if req.AvailableSizes != nil {
		product.AvailableSizes = req.AvailableSizes
	}
	if req.Price != nil {
		if err := req.Price.Validate(); err != nil {
			return nil, err
		}
		product.Price = *req.Price
	}
	if product.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	product.UpdatedAt = time.Now()

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*domain.ProductResponse, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	stocks, err := s.stock.ListStock(ctx, product.ProductID)
	if err != nil {
		return nil, err
	}
	variants := make([]domain.VariantStockView, 0, len(stocks))
	for _, st := range stocks {
		variants = append(variants, domain.VariantStockView{
			Color:      st.Color,
			Size:       st.Size,
			VariantKey: st.VariantKey,
			StockLevel: st.StockLevel,
		})
	}

	return &domain.ProductResponse{
		Product:        product,
		EffectivePrice: product.Price.Effective(),
		Variants:       variants,
	}, nil
}

func (s *ProductService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return s.products.ListProducts(ctx, category)
}

// SimilarProducts returns other products of the same category, most recent first.
func (s *ProductService) SimilarProducts(ctx context.Context, productID string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Category == "" {
		return []domain.Product{}, nil
	}

	candidates, err := s.products.ListProducts(ctx, product.Category)
	if err != nil {
		return nil, err
	}
	similar := make([]domain.Product, 0, len(candidates))
	for _, c := range candidates {
		if c.ProductID != product.ProductID {
			similar = append(similar, c)
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].CreatedAt.After(similar[j].CreatedAt)
	})
	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

func (s *ProductService) GetStock(ctx context.Context, productID, color, size string) (*domain.StockResponse, error) {
	level, err := s.resolver.ResolveStock(ctx, productID, color, size)
	if err != nil {
		return nil, err
	}
	return &domain.StockResponse{
		ProductID:  productID,
		Color:      color,
		Size:       size,
		StockLevel: level,
	}, nil
}

// ProvisionStock sets the absolute stock level of one variant.
func (s *ProductService) ProvisionStock(ctx context.Context, productID string, req domain.ProvisionStockRequest) (*domain.VariantStock, error) {
	if req.StockLevel == nil || *req.StockLevel < 0 {
		return nil, domain.NewValidationError("stock_level", "must be zero or positive")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	sel, err := SelectionFor(product, req.Color, req.Size)
	if err != nil {
		return nil, err
	}

	stock := &domain.VariantStock{
		VariantKey: VariantKey(product.ProductID, sel.Color, sel.Size),
		ProductID:  product.ProductID,
		Color:      sel.Color,
		Size:       sel.Size,
		StockLevel: *req.StockLevel,
		UpdatedAt:  time.Now(),
	}
	if err := s.stock.PutStock(ctx, stock); err != nil {
		return nil, err
	}

	s.logger.Info("Variant stock provisioned",
		zap.String("product_id", product.ProductID),
		zap.String("variant_key", stock.VariantKey),
		zap.Int("stock_level", stock.StockLevel))

	return stock, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
