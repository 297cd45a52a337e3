package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/hemshop/hemshop-api/internal/models"
	"github.com/hemshop/hemshop-api/internal/repository"
	"github.com/hemshop/hemshop-api/internal/utils"
)

// CategoryService owns the two-level category tree. All mutations are
// admin only; reads are public.
type CategoryService struct {
	store repository.Store
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(store repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

// CreateCategory adds a top-level category.
func (s *CategoryService) CreateCategory(ctx context.Context, principal models.Principal, name string) (*models.Category, error) {
	if !principal.Admin {
		return nil, utils.ErrUnauthorized
	}
	category := &models.Category{Name: name, IsActive: true}
	if err := s.store.Categories().CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	log.Info().Int64("category_id", category.ID).Str("name", name).Msg("Category created")
	return category, nil
}

// CreateSubCategory adds a sub-category under an active parent.
func (s *CategoryService) CreateSubCategory(ctx context.Context, principal models.Principal, parentID int64, name string) (*models.SubCategory, error) {
	subs, err := s.CreateSubCategoriesBulk(ctx, principal, parentID, []string{name})
	if err != nil {
		return nil, err
	}
	return &subs[0], nil
}

// CreateSubCategoriesBulk adds several sub-categories under one parent in
// a single transaction; either all land or none do.
func (s *CategoryService) CreateSubCategoriesBulk(ctx context.Context, principal models.Principal, parentID int64, names []string) ([]models.SubCategory, error) {
	if !principal.Admin {
		return nil, utils.ErrUnauthorized
	}

	var out []models.SubCategory
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		parent, err := tx.Categories().GetCategory(ctx, parentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrCategoryNotFound
			}
			return err
		}
		if !parent.IsActive {
			return utils.ErrInvalidCategory
		}
		for _, name := range names {
			sub := &models.SubCategory{ParentCategoryID: parentID, Name: name, IsActive: true}
			if err := tx.Categories().CreateSubCategory(ctx, sub); err != nil {
				return err
			}
			out = append(out, *sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("category_id", parentID).Int("count", len(out)).Msg("Sub-categories created")
	return out, nil
}

// UpdateCategory renames a category and/or flips its active flag.
func (s *CategoryService) UpdateCategory(ctx context.Context, principal models.Principal, id int64, name string, isActive bool) (*models.Category, error) {
	if !principal.Admin {
		return nil, utils.ErrUnauthorized
	}
	var out *models.Category
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		category, err := tx.Categories().GetCategory(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrCategoryNotFound
			}
			return err
		}
		if err := tx.Categories().UpdateCategory(ctx, id, name, isActive); err != nil {
			return err
		}
		category.Name = name
		category.IsActive = isActive
		out = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSubCategory renames a sub-category and/or flips its active flag.
func (s *CategoryService) UpdateSubCategory(ctx context.Context, principal models.Principal, id int64, name string, isActive bool) (*models.SubCategory, error) {
	if !principal.Admin {
		return nil, utils.ErrUnauthorized
	}
	var out *models.SubCategory
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		sub, err := tx.Categories().GetSubCategory(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrCategoryNotFound
			}
			return err
		}
		if err := tx.Categories().UpdateSubCategory(ctx, id, name, isActive); err != nil {
			return err
		}
		sub.Name = name
		sub.IsActive = isActive
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCategory deactivates a category. Products already bound to it
// keep their binding; new listings can no longer use it.
func (s *CategoryService) DeleteCategory(ctx context.Context, principal models.Principal, id int64) error {
	if !principal.Admin {
		return utils.ErrUnauthorized
	}
	return s.store.InTx(ctx, func(tx repository.Store) error {
		category, err := tx.Categories().GetCategory(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrCategoryNotFound
			}
			return err
		}
		return tx.Categories().UpdateCategory(ctx, id, category.Name, false)
	})
}

// DeleteSubCategory deactivates a sub-category.
func (s *CategoryService) DeleteSubCategory(ctx context.Context, principal models.Principal, id int64) error {
	if !principal.Admin {
		return utils.ErrUnauthorized
	}
	return s.store.InTx(ctx, func(tx repository.Store) error {
		sub, err := tx.Categories().GetSubCategory(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.ErrCategoryNotFound
			}
			return err
		}
		return tx.Categories().UpdateSubCategory(ctx, id, sub.Name, false)
	})
}

// GetCategory returns a category with its sub-category ids attached.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.store.Categories().GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	ids, err := s.store.Categories().SubCategoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	category.SubCategoryIDs = ids
	return category, nil
}

// GetSubCategory returns a single sub-category.
func (s *CategoryService) GetSubCategory(ctx context.Context, id int64) (*models.SubCategory, error) {
	sub, err := s.store.Categories().GetSubCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

// ListCategories returns every category, deactivated ones included, with
// sub-category ids attached. Callers filter on IsActive when they only
// want live ones.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Categories().ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		ids, err := s.store.Categories().SubCategoryIDs(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].SubCategoryIDs = ids
	}
	return categories, nil
}

// ListSubCategories returns the sub-categories of a category.
func (s *CategoryService) ListSubCategories(ctx context.Context, parentID int64) ([]models.SubCategory, error) {
	if _, err := s.store.Categories().GetCategory(ctx, parentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrCategoryNotFound
		}
		return nil, err
	}
	return s.store.Categories().ListSubCategories(ctx, parentID)
}
