package reconcile

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/greenplains/sapbridge-backend/internal/remote"
	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

// Result tallies one reconciliation pass. Processed counts every fetched
// row, including rows skipped for a missing natural key, so Processed >=
// Created + Updated always holds.
type Result struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
}

// Merge folds another pass into the running total.
func (r *Result) Merge(other Result) {
	r.Processed += other.Processed
	r.Created += other.Created
	r.Updated += other.Updated
	r.Skipped += other.Skipped
}

// Engine applies remote catalog rows onto the local store with
// create-or-update semantics keyed on each entity's natural key. Replays
// of identical input are idempotent: every row resolves to the same local
// record and rewrites the same values.
type Engine struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewEngine(db *gorm.DB, logg *logger.Logger) *Engine {
	return &Engine{db: db, logger: logg}
}

// descriptor specializes the generic upsert loop for one entity: how to
// recognize a usable key, find the existing record, seed a new one with
// its immutable key fields, and overwrite the mutable fields.
type descriptor[R any, M any] struct {
	entity string
	keyed  func(R) bool
	lookup func(tx *gorm.DB, row R) *gorm.DB
	fresh  func(R) M
	apply  func(*M, R)
}

func reconcileRows[R any, M any](ctx context.Context, e *Engine, rows []R, d descriptor[R, M]) (Result, error) {
	var result Result
	for _, row := range rows {
		result.Processed++
		if !d.keyed(row) {
			result.Skipped++
			continue
		}

		var existing M
		err := d.lookup(e.db.WithContext(ctx), row).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			record := d.fresh(row)
			d.apply(&record, row)
			if err := e.db.WithContext(ctx).Create(&record).Error; err != nil {
				return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert "+d.entity)
			}
			result.Created++
		case err != nil:
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup "+d.entity)
		default:
			d.apply(&existing, row)
			if err := e.db.WithContext(ctx).Save(&existing).Error; err != nil {
				return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update "+d.entity)
			}
			result.Updated++
		}
	}
	e.logResult(ctx, d.entity, result)
	return result, nil
}

// Products upserts product rows keyed on (item_code, category).
func (e *Engine) Products(ctx context.Context, rows []remote.ProductRow) (Result, error) {
	return reconcileRows(ctx, e, rows, descriptor[remote.ProductRow, models.Product]{
		entity: "product",
		keyed: func(row remote.ProductRow) bool {
			return strings.TrimSpace(row.ItemCode) != ""
		},
		lookup: func(tx *gorm.DB, row remote.ProductRow) *gorm.DB {
			return tx.Where("item_code = ? AND category = ?", row.ItemCode, row.Category)
		},
		fresh: func(row remote.ProductRow) models.Product {
			return models.Product{ItemCode: row.ItemCode, Category: row.Category}
		},
		apply: func(record *models.Product, row remote.ProductRow) {
			record.ItemName = row.ItemName
			record.SalFactor2 = row.SalFactor2
			record.TaxRate = row.TaxRate
			record.IsDeleted = row.IsDeleted
			record.Variety = row.Variety
			record.SalPackUnit = row.SalPackUnit
			record.Brand = row.Brand
		},
	})
}

// Parties upserts customer rows keyed on (card_code, category).
func (e *Engine) Parties(ctx context.Context, rows []remote.PartyRow) (Result, error) {
	return reconcileRows(ctx, e, rows, descriptor[remote.PartyRow, models.Party]{
		entity: "party",
		keyed: func(row remote.PartyRow) bool {
			return strings.TrimSpace(row.CardCode) != ""
		},
		lookup: func(tx *gorm.DB, row remote.PartyRow) *gorm.DB {
			return tx.Where("card_code = ? AND category = ?", row.CardCode, row.Category)
		},
		fresh: func(row remote.PartyRow) models.Party {
			return models.Party{CardCode: row.CardCode, Category: row.Category}
		},
		apply: func(record *models.Party, row remote.PartyRow) {
			record.CardName = row.CardName
			record.Address = row.Address
			record.State = row.State
			record.MainGroup = row.MainGroup
			record.Chain = row.Chain
			record.Country = row.Country
			record.CardType = row.CardType
		},
	})
}

// PartyAddresses upserts address rows keyed on (card_code, address_name,
// category). An empty address label is a valid key component; only a
// missing card code skips the row.
func (e *Engine) PartyAddresses(ctx context.Context, rows []remote.PartyAddressRow) (Result, error) {
	return reconcileRows(ctx, e, rows, descriptor[remote.PartyAddressRow, models.PartyAddress]{
		entity: "party address",
		keyed: func(row remote.PartyAddressRow) bool {
			return strings.TrimSpace(row.CardCode) != ""
		},
		lookup: func(tx *gorm.DB, row remote.PartyAddressRow) *gorm.DB {
			return tx.Where("card_code = ? AND address_name = ? AND category = ?",
				row.CardCode, row.AddressName, row.Category)
		},
		fresh: func(row remote.PartyAddressRow) models.PartyAddress {
			return models.PartyAddress{
				CardCode:    row.CardCode,
				AddressName: row.AddressName,
				Category:    row.Category,
			}
		},
		apply: func(record *models.PartyAddress, row remote.PartyAddressRow) {
			record.AddressType = row.AddressType
			record.GSTNumber = row.GSTNumber
			record.State = row.State
			record.City = row.City
			record.ZipCode = row.ZipCode
			record.Country = row.Country
			record.FullAddress = row.FullAddress
		},
	})
}

// Branches upserts business place rows keyed on (bpl_id, category). The
// active flag is local state: it defaults to true on first sight and is
// never overwritten by a later sync.
func (e *Engine) Branches(ctx context.Context, rows []remote.BranchRow) (Result, error) {
	return reconcileRows(ctx, e, rows, descriptor[remote.BranchRow, models.Branch]{
		entity: "branch",
		keyed: func(row remote.BranchRow) bool {
			return row.BPLID != nil
		},
		lookup: func(tx *gorm.DB, row remote.BranchRow) *gorm.DB {
			return tx.Where("bpl_id = ? AND category = ?", *row.BPLID, row.Category)
		},
		fresh: func(row remote.BranchRow) models.Branch {
			return models.Branch{BPLID: *row.BPLID, Category: row.Category, IsActive: true}
		},
		apply: func(record *models.Branch, row remote.BranchRow) {
			record.BPLName = row.BPLName
		},
	})
}

func (e *Engine) logResult(ctx context.Context, entity string, result Result) {
	if e.logger == nil {
		return
	}
	ctx = e.logger.WithFields(ctx, map[string]any{
		"entity":    entity,
		"processed": result.Processed,
		"created":   result.Created,
		"updated":   result.Updated,
		"skipped":   result.Skipped,
	})
	e.logger.Info(ctx, "reconciliation pass complete")
}
