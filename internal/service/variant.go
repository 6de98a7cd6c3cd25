package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

func normalizeColor(color string) string {
	return strings.ToLower(strings.Join(strings.Fields(color), "-"))
}

func normalizeSize(size string) string {
	return strings.ToLower(strings.TrimSpace(size))
}

// VariantKey builds the stock key for a product variant, e.g. ("P1", "Black", "M")
// gives "p1_black_m". Empty axes are left out of the key.
func VariantKey(productID, color, size string) string {
	parts := []string{strings.ToLower(strings.TrimSpace(productID))}
	if c := normalizeColor(color); c != "" {
		parts = append(parts, c)
	}
	if s := normalizeSize(size); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "_")
}

// sameVariant reports whether two selections address the same variant.
func sameVariant(colorA, sizeA, colorB, sizeB string) bool {
	return normalizeColor(colorA) == normalizeColor(colorB) &&
		normalizeSize(sizeA) == normalizeSize(sizeB)
}

// Selection is a color/size choice reduced to the axes the product declares.
type Selection struct {
	Color string
	Size  string
}

// SelectionFor drops axes the product does not declare and reports
// domain.ErrIncompleteSelection when a declared axis was left empty.
func SelectionFor(product *domain.Product, color, size string) (Selection, error) {
	var sel Selection
	if product.HasColors() {
		sel.Color = strings.TrimSpace(color)
		if sel.Color == "" {
			return Selection{}, domain.ErrIncompleteSelection
		}
	}
	if product.HasSizes() {
		sel.Size = strings.TrimSpace(size)
		if sel.Size == "" {
			return Selection{}, domain.ErrIncompleteSelection
		}
	}
	return sel, nil
}

type StockResolver struct {
	products ProductStore
	stock    StockStore
}

func NewStockResolver(products ProductStore, stock StockStore) *StockResolver {
	return &StockResolver{
		products: products,
		stock:    stock,
	}
}

// ResolveStock returns the stock level of one variant. An unprovisioned variant
// has stock 0.
func (r *StockResolver) ResolveStock(ctx context.Context, productID, color, size string) (int, error) {
	product, err := r.products.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	sel, err := SelectionFor(product, color, size)
	if err != nil {
		return 0, err
	}
	return r.StockFor(ctx, product.ProductID, sel)
}

func (r *StockResolver) StockFor(ctx context.Context, productID string, sel Selection) (int, error) {
	stock, err := r.stock.GetStock(ctx, VariantKey(productID, sel.Color, sel.Size))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if stock.StockLevel < 0 {
		return 0, nil
	}
	return stock.StockLevel, nil
}

// RefFor resolves the stock record for a selection coming from outside the
// storefront (order events). When the product is unknown the raw selection is used.
func (r *StockResolver) RefFor(ctx context.Context, productID, color, size string) (domain.VariantRef, error) {
	product, err := r.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return variantRef(productID, Selection{Color: strings.TrimSpace(color), Size: strings.TrimSpace(size)}), nil
		}
		return domain.VariantRef{}, err
	}
	sel, err := SelectionFor(product, color, size)
	if err != nil {
		return domain.VariantRef{}, err
	}
	return variantRef(product.ProductID, sel), nil
}

func variantRef(productID string, sel Selection) domain.VariantRef {
	return domain.VariantRef{
		VariantKey: VariantKey(productID, sel.Color, sel.Size),
		ProductID:  productID,
		Color:      sel.Color,
		Size:       sel.Size,
	}
}
