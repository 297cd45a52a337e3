package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/cache"
	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// CatalogService owns product lifecycle and the catalog read paths.
type CatalogService struct {
	store repository.Store
	cache *cache.CatalogCache
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(store repository.Store, catalogCache *cache.CatalogCache) *CatalogService {
	return &CatalogService{store: store, cache: catalogCache}
}

// validateProductInput enforces the listing rules shared by create and update.
func validateProductInput(input *models.ProductInput) error {
	if input.Price <= 0 {
		return utils.ErrInvalidPrice
	}
	if input.Stock < 0 {
		return utils.ErrInvalidStock
	}
	if len(input.Images) == 0 {
		return utils.ErrNoImages
	}
	if len(input.Images) > models.MaxProductImages {
		return utils.ErrTooManyImages
	}
	return nil
}

// checkCategoryBinding verifies the category and sub-category are active
// and that the sub-category belongs to the category.
func checkCategoryBinding(ctx context.Context, tx repository.Store, categoryID, subCategoryID int64) error {
	cat, err := tx.Categories().GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrInvalidCategory
		}
		return err
	}
	sub, err := tx.Categories().GetSubCategory(ctx, subCategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrInvalidCategory
		}
		return err
	}
	if !cat.IsActive || !sub.IsActive || sub.ParentCategoryID != categoryID {
		return utils.ErrInvalidCategory
	}
	return nil
}

// CreateProduct lists a new product for the calling seller, who must be
// Verified. initialStock is fixed to the stock given here.
func (s *CatalogService) CreateProduct(ctx context.Context, principal models.Principal, input *models.ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var out *models.Product
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		seller, err := tx.Sellers().Get(ctx, principal.Address)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrSellerNotVerified
			}
			return err
		}
		if seller.Status != models.SellerVerified {
			return utils.ErrSellerNotVerified
		}
		if err := checkCategoryBinding(ctx, tx, input.CategoryID, input.SubCategoryID); err != nil {
			return err
		}

		product := &models.Product{
			Seller:        principal.Address,
			Name:          input.Name,
			Description:   input.Description,
			Price:         input.Price,
			Stock:         input.Stock,
			InitialStock:  input.Stock,
			Colors:        input.Colors,
			Sizes:         input.Sizes,
			Images:        input.Images,
			CategoryID:    input.CategoryID,
			SubCategoryID: input.SubCategoryID,
			Weight:        input.Weight,
			Model:         input.Model,
			Brand:         input.Brand,
			SKU:           input.SKU,
			Soldout:       input.Stock == 0,
		}
		if err := tx.Products().Create(ctx, product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	log.Info().Int64("product_id", out.ID).Str("seller", principal.Address).Msg("Product created")
	return out, nil
}

// UpdateProduct replaces a product's listing fields. Only the owning
// seller or an admin may update; initialStock never changes.
func (s *CatalogService) UpdateProduct(ctx context.Context, principal models.Principal, id int64, input *models.ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var out *models.Product
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		product, err := tx.Products().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrProductNotFound
			}
			return err
		}
		if product.Deleted {
			return utils.ErrProductNotFound
		}
		if product.Seller != principal.Address && !principal.Admin {
			return utils.ErrNotOwningSeller
		}
		if err := checkCategoryBinding(ctx, tx, input.CategoryID, input.SubCategoryID); err != nil {
			return err
		}

		product.Name = input.Name
		product.Description = input.Description
		product.Price = input.Price
		product.Stock = input.Stock
		product.Colors = input.Colors
		product.Sizes = input.Sizes
		product.Images = input.Images
		product.CategoryID = input.CategoryID
		product.SubCategoryID = input.SubCategoryID
		product.Weight = input.Weight
		product.Model = input.Model
		product.Brand = input.Brand
		product.SKU = input.SKU
		product.Soldout = input.Stock == 0
		if err := tx.Products().Update(ctx, product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	log.Info().Int64("product_id", id).Msg("Product updated")
	return out, nil
}

// DeleteProduct soft-deletes a product. Only the owning seller or an
// admin may delete; purchase history is untouched.
func (s *CatalogService) DeleteProduct(ctx context.Context, principal models.Principal, id int64) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		product, err := tx.Products().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrProductNotFound
			}
			return err
		}
		if product.Deleted {
			return utils.ErrProductNotFound
		}
		if product.Seller != principal.Address && !principal.Admin {
			return utils.ErrNotOwningSeller
		}
		return tx.Products().SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	log.Info().Int64("product_id", id).Msg("Product deleted")
	return nil
}

// GetProduct returns a single live product with its average rating.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.store.Products().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if product.Deleted {
		return nil, utils.ErrProductNotFound
	}
	avg, _, err := s.store.Reviews().AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	product.AverageRating = avg
	return product, nil
}

// ListProducts returns all live products, newest first. Served from the
// catalog cache when warm.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetProducts(ctx); ok {
			return cached, nil
		}
	}
	products, err := s.store.Products().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetProducts(ctx, products)
	}
	return products, nil
}

// ListProductsByCategory returns live products in a category, newest first.
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	if _, err := s.store.Categories().GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	return s.store.Products().ListByCategory(ctx, categoryID)
}

// ListSellerProducts returns a seller's live products, newest first.
func (s *CatalogService) ListSellerProducts(ctx context.Context, sellerAddress string) ([]models.Product, error) {
	return s.store.Products().ListBySeller(ctx, sellerAddress)
}
