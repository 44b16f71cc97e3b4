package masterdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
)

func setupMasterdataTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Party{},
		&models.PartyAddress{},
		&models.Branch{},
	))
	for _, table := range []string{"sap_products", "sap_parties", "sap_party_addresses", "branches"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func seedMasterData(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create([]models.Product{
		{ItemCode: "FG-CAN-500", Category: enums.CategoryBeverages, ItemName: "Cola Can 500ml"},
		{ItemCode: "FG-CAN-500", Category: enums.CategoryMart, ItemName: "Cola Can 500ml (Mart)"},
		{ItemCode: "FG-OIL-1L", Category: enums.CategoryOil, ItemName: "Sunflower Oil 1L"},
	}).Error)
	require.NoError(t, db.Create([]models.Party{
		{CardCode: "C-ACME", Category: enums.CategoryOil, CardName: "Acme Distributors"},
		{CardCode: "C-NORTH", Category: enums.CategoryBeverages, CardName: "Northern Traders"},
	}).Error)
	require.NoError(t, db.Create([]models.PartyAddress{
		{CardCode: "C-ACME", AddressName: "BILL-HO", Category: enums.CategoryOil, AddressType: "B"},
		{CardCode: "C-ACME", AddressName: "SHIP-01", Category: enums.CategoryOil, AddressType: "S"},
		{CardCode: "C-NORTH", AddressName: "BILL-HO", Category: enums.CategoryBeverages, AddressType: "B"},
	}).Error)
	require.NoError(t, db.Create([]models.Branch{
		{BPLID: 1, Category: enums.CategoryOil, BPLName: "Head Office", IsActive: true},
		{BPLID: 2, Category: enums.CategoryOil, BPLName: "Closed Depot", IsActive: false},
	}).Error)
}

func TestListProductsFilters(t *testing.T) {
	db := setupMasterdataTestDB(t)
	seedMasterData(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	all, err := repo.ListProducts(ctx, ProductFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mart, err := repo.ListProducts(ctx, ProductFilters{Category: enums.CategoryMart})
	require.NoError(t, err)
	require.Len(t, mart, 1)
	assert.Equal(t, "FG-CAN-500", mart[0].ItemCode)

	byName, err := repo.ListProducts(ctx, ProductFilters{Search: "sunflower"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "FG-OIL-1L", byName[0].ItemCode)

	limited, err := repo.ListProducts(ctx, ProductFilters{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListPartiesSearch(t *testing.T) {
	db := setupMasterdataTestDB(t)
	seedMasterData(t, db)
	repo := NewRepository(db)

	parties, err := repo.ListParties(context.Background(), PartyFilters{Search: "C-NORTH"})
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, "Northern Traders", parties[0].CardName)
}

func TestListPartyAddressesByCard(t *testing.T) {
	db := setupMasterdataTestDB(t)
	seedMasterData(t, db)
	repo := NewRepository(db)

	addresses, err := repo.ListPartyAddresses(context.Background(), AddressFilters{CardCode: "C-ACME"})
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, "BILL-HO", addresses[0].AddressName)
	assert.Equal(t, "SHIP-01", addresses[1].AddressName)
}

func TestListBranchesActiveOnly(t *testing.T) {
	db := setupMasterdataTestDB(t)
	seedMasterData(t, db)
	repo := NewRepository(db)

	active, err := repo.ListBranches(context.Background(), BranchFilters{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Head Office", active[0].BPLName)

	all, err := repo.ListBranches(context.Background(), BranchFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestParseCategory(t *testing.T) {
	category, err := ParseCategory(" beverages ")
	require.NoError(t, err)
	assert.Equal(t, enums.CategoryBeverages, category)

	category, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, enums.Category(""), category)

	_, err = ParseCategory("FROZEN")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultListLimit, clampLimit(0))
	assert.Equal(t, defaultListLimit, clampLimit(-5))
	assert.Equal(t, 25, clampLimit(25))
	assert.Equal(t, maxListLimit, clampLimit(10_000))
}
