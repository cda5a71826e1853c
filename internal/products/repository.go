package products

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/brandcorner-backend/pkg/db/models"
	"github.com/angelmondragon/brandcorner-backend/pkg/pagination"
)

// Repository reads and writes catalog rows.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Upsert(ctx context.Context, product *models.Product) error
}

// ListFilter narrows the catalog listing. Limit already includes the
// look-ahead row used to detect a next page.
type ListFilter struct {
	CategorySlug string
	Limit        int
	After        *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.CategorySlug != "" {
		q = q.Where("category_slug = ?", filter.CategorySlug)
	}
	if filter.After != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.After.CreatedAt, filter.After.CreatedAt, filter.After.ID)
	}
	var rows []models.Product
	err := q.Order("created_at DESC").Order("id DESC").Limit(filter.Limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Upsert(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "slug", "brand", "category_name", "category_slug", "description",
			"compatibility", "features", "images", "sizes", "price", "offer_price",
			"sold_out", "updated_at",
		}),
	}).Create(product).Error
}
