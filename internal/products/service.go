package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/brandcorner-backend/pkg/db"
	"github.com/angelmondragon/brandcorner-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/pagination"
	"github.com/angelmondragon/brandcorner-backend/pkg/types"
)

// Service exposes catalog reads for the storefront and writes for admins.
type Service interface {
	Get(ctx context.Context, id string) (*Product, error)
	Lookup(ctx context.Context, ids []string) (map[string]Product, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Upsert(ctx context.Context, id string, input UpsertInput) (*Product, error)
}

// ListInput captures the listing filters.
type ListInput struct {
	CategorySlug string
	Pagination   pagination.Params
}

// UpsertInput is the admin payload for creating or replacing a product.
type UpsertInput struct {
	Name          string    `json:"name" validate:"required,max=200"`
	Slug          string    `json:"slug" validate:"omitempty,max=200"`
	Brand         string    `json:"brand" validate:"omitempty,max=120"`
	Category      *Category `json:"category"`
	Description   string    `json:"description"`
	Compatibility string    `json:"compatibility"`
	Features      []string  `json:"features" validate:"omitempty,dive,required"`
	Images        []string  `json:"images" validate:"omitempty,dive,url"`
	Sizes         []int     `json:"sizes" validate:"omitempty,dive,gt=0"`
	Price         int       `json:"price" validate:"gte=0"`
	OfferPrice    *int      `json:"offerPrice" validate:"omitempty,gte=0"`
	SoldOut       bool      `json:"soldOut"`
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, validate: validator.New()}, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	product := FromModel(*row)
	return &product, nil
}

func (s *service) Lookup(ctx context.Context, ids []string) (map[string]Product, error) {
	rows, err := s.repo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	out := make(map[string]Product, len(rows))
	for id, row := range rows {
		out[id] = FromModel(row)
	}
	return out, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	scope := strings.TrimSpace(input.CategorySlug)
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, ListFilter{
		CategorySlug: scope,
		Limit:        limit + 1,
		After:        cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ListResult{Products: make([]Product, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID, Scope: scope})
		rows = rows[:limit]
	}
	for _, row := range rows {
		result.Products = append(result.Products, FromModel(row))
	}
	return result, nil
}

func (s *service) Upsert(ctx context.Context, id string, input UpsertInput) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
	}
	if input.OfferPrice != nil && *input.OfferPrice > input.Price {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer price cannot exceed price")
	}

	row := &models.Product{
		ID:            id,
		Name:          strings.TrimSpace(input.Name),
		Slug:          optional(strings.TrimSpace(input.Slug)),
		Brand:         optional(strings.TrimSpace(input.Brand)),
		Description:   optional(input.Description),
		Compatibility: optional(input.Compatibility),
		Features:      types.StringList(input.Features),
		Images:        types.StringList(input.Images),
		Sizes:         types.IntList(input.Sizes),
		Price:         input.Price,
		OfferPrice:    input.OfferPrice,
		SoldOut:       input.SoldOut,
	}
	if input.Category != nil {
		row.CategoryName = optional(strings.TrimSpace(input.Category.Name))
		row.CategorySlug = optional(strings.TrimSpace(input.Category.Slug))
	}
	if existing, err := s.repo.FindByID(ctx, id); err == nil {
		row.CreatedAt = existing.CreatedAt
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	product := FromModel(*row)
	return &product, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
