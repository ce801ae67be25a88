package service

import (
	"context"
	"errors"
	"fmt"

	"grocery-api/internal/models"
	"grocery-api/internal/redisclient"
	"grocery-api/internal/store"
	"grocery-api/internal/util"

	"go.uber.org/zap"
)

// ProductStore is the catalog persistence surface used by CatalogClient.
// *store.Store satisfies it.
type ProductStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	SetProductStock(ctx context.Context, id string, inStock bool) error
}

// ProductCache is the read-through cache in front of the catalog. A nil cache
// is allowed; everything falls through to the store.
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	InvalidateProduct(ctx context.Context, id string) error
}

// CatalogClient resolves product references for checkout and serves the read
// side of the catalog. Cache failures degrade to database reads; they never
// fail a lookup.
type CatalogClient struct {
	store  ProductStore
	cache  ProductCache
	logger *zap.Logger
}

// NewCatalogClient creates a new catalog client
func NewCatalogClient(store ProductStore, cache ProductCache) *CatalogClient {
	return &CatalogClient{
		store:  store,
		cache:  cache,
		logger: util.Named("catalog"),
	}
}

// Resolve looks up a product by reference, cache first. A missing product
// yields ErrProductNotFound.
func (cc *CatalogClient) Resolve(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogClient.Resolve")
	defer span.End()

	if cc.cache != nil {
		product, err := cc.cache.GetProduct(ctx, id)
		if err == nil {
			return product, nil
		}
		if !redisclient.IsCacheMiss(err) {
			cc.logger.Warn("Product cache read failed, falling back to DB",
				zap.String("product_id", id),
				zap.Error(err))
		}
	}

	product, err := cc.store.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if cc.cache != nil {
		if err := cc.cache.SetProduct(ctx, product); err != nil {
			cc.logger.Warn("Failed to cache product",
				zap.String("product_id", id),
				zap.Error(err))
		}
	}

	return product, nil
}

// List returns the whole catalog, uncached.
func (cc *CatalogClient) List(ctx context.Context) ([]models.Product, error) {
	return cc.store.GetProducts(ctx)
}

// SetStock flips a product's in-stock flag and invalidates its cache entry so
// checkout sees the live record.
func (cc *CatalogClient) SetStock(ctx context.Context, id string, inStock bool) error {
	err := cc.store.SetProductStock(ctx, id, inStock)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return err
	}

	if cc.cache != nil {
		if err := cc.cache.InvalidateProduct(ctx, id); err != nil {
			cc.logger.Warn("Failed to invalidate product cache",
				zap.String("product_id", id),
				zap.Error(err))
		}
	}

	return nil
}
