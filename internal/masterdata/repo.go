package masterdata

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// ProductFilters narrows a product listing. Zero values mean "no filter".
type ProductFilters struct {
	Category enums.Category
	Search   string
	Limit    int
}

type PartyFilters struct {
	Category enums.Category
	Search   string
	Limit    int
}

type AddressFilters struct {
	Category enums.Category
	CardCode string
	Limit    int
}

type BranchFilters struct {
	Category   enums.Category
	ActiveOnly bool
}

// Repository reads the reconciled master-data tables. All writes go
// through the reconcile engine; this side is read-only.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(item_code) LIKE ? OR LOWER(item_name) LIKE ?)", pattern, pattern)
	}

	var products []models.Product
	err := query.
		Order("item_code ASC").
		Order("category ASC").
		Limit(clampLimit(filters.Limit)).
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (r *Repository) ListParties(ctx context.Context, filters PartyFilters) ([]models.Party, error) {
	query := r.db.WithContext(ctx).Model(&models.Party{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(card_code) LIKE ? OR LOWER(card_name) LIKE ?)", pattern, pattern)
	}

	var parties []models.Party
	err := query.
		Order("card_code ASC").
		Order("category ASC").
		Limit(clampLimit(filters.Limit)).
		Find(&parties).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parties")
	}
	return parties, nil
}

func (r *Repository) ListPartyAddresses(ctx context.Context, filters AddressFilters) ([]models.PartyAddress, error) {
	query := r.db.WithContext(ctx).Model(&models.PartyAddress{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.CardCode != "" {
		query = query.Where("card_code = ?", filters.CardCode)
	}

	var addresses []models.PartyAddress
	err := query.
		Order("card_code ASC").
		Order("address_name ASC").
		Limit(clampLimit(filters.Limit)).
		Find(&addresses).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list party addresses")
	}
	return addresses, nil
}

func (r *Repository) ListBranches(ctx context.Context, filters BranchFilters) ([]models.Branch, error) {
	query := r.db.WithContext(ctx).Model(&models.Branch{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var branches []models.Branch
	err := query.
		Order("bpl_id ASC").
		Order("category ASC").
		Find(&branches).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list branches")
	}
	return branches, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
