package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/noname01054/LaCoupole-back/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// CatalogRepository exposes the read-only catalog inputs the verifier
	// prices against. Lookups return nil (no error) when the row is absent so
	// the verifier can translate absence into its own error taxonomy.
	CatalogRepository interface {
		GetMenuItem(ctx context.Context, id uuid.UUID) (*entities.MenuItem, error)
		GetSupplementPrices(ctx context.Context, menuItemID uuid.UUID, supplementIDs []uuid.UUID) ([]*entities.MenuItemSupplement, error)
		GetBreakfast(ctx context.Context, id uuid.UUID) (*entities.Breakfast, error)
		GetBreakfastGroups(ctx context.Context, breakfastID uuid.UUID) ([]*entities.BreakfastOptionGroup, error)
		GetOptions(ctx context.Context, optionIDs []uuid.UUID) ([]*entities.BreakfastOption, error)
		GetActivePromotion(ctx context.Context, id uuid.UUID, now time.Time) (*entities.Promotion, error)
	}

	catalogRepository struct {
		db *gorm.DB
	}
)

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetMenuItem(ctx context.Context, id uuid.UUID) (*entities.MenuItem, error) {
	var item entities.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) GetSupplementPrices(ctx context.Context, menuItemID uuid.UUID, supplementIDs []uuid.UUID) ([]*entities.MenuItemSupplement, error) {
	var rows []*entities.MenuItemSupplement
	if err := r.db.WithContext(ctx).
		Where("menu_item_id = ? AND supplement_id IN ?", menuItemID, supplementIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *catalogRepository) GetBreakfast(ctx context.Context, id uuid.UUID) (*entities.Breakfast, error) {
	var breakfast entities.Breakfast
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&breakfast).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &breakfast, nil
}

// GetBreakfastGroups returns both groups owned by the breakfast and reusable
// groups attached through breakfast_group_mappings.
func (r *catalogRepository) GetBreakfastGroups(ctx context.Context, breakfastID uuid.UUID) ([]*entities.BreakfastOptionGroup, error) {
	var owned []*entities.BreakfastOptionGroup
	if err := r.db.WithContext(ctx).
		Where("breakfast_id = ?", breakfastID).
		Find(&owned).Error; err != nil {
		return nil, err
	}

	var mapped []*entities.BreakfastOptionGroup
	if err := r.db.WithContext(ctx).
		Joins("JOIN breakfast_group_mappings ON breakfast_group_mappings.group_id = breakfast_option_groups.id").
		Where("breakfast_group_mappings.breakfast_id = ?", breakfastID).
		Find(&mapped).Error; err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(owned))
	groups := make([]*entities.BreakfastOptionGroup, 0, len(owned)+len(mapped))
	for _, g := range append(owned, mapped...) {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		groups = append(groups, g)
	}
	return groups, nil
}

func (r *catalogRepository) GetOptions(ctx context.Context, optionIDs []uuid.UUID) ([]*entities.BreakfastOption, error) {
	var options []*entities.BreakfastOption
	if err := r.db.WithContext(ctx).
		Where("id IN ?", optionIDs).
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *catalogRepository) GetActivePromotion(ctx context.Context, id uuid.UUID, now time.Time) (*entities.Promotion, error) {
	var promotion entities.Promotion
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ? AND start_date <= ? AND end_date >= ?", id, true, now, now).
		First(&promotion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}
