package remote

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
)

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	adapter, err := NewAdapter(db, "HANADB112", time.Minute, nil)
	require.NoError(t, err)
	return adapter, mock
}

func TestNewAdapterValidation(t *testing.T) {
	_, err := NewAdapter(nil, "HANADB112", time.Minute, nil)
	require.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewAdapter(db, "  ", time.Minute, nil)
	require.Error(t, err)
}

func TestProductsQueryShape(t *testing.T) {
	q := productsQuery("HANADB112")

	// One OPENQUERY per category, each labeled with its literal.
	assert.Equal(t, 3, strings.Count(q, "OPENQUERY(HANADB112"))
	assert.Equal(t, 2, strings.Count(q, "UNION ALL"))
	for _, category := range enums.Categories {
		assert.Contains(t, q, "''"+category.String()+"'' AS \"Category\"")
	}
	for _, prefix := range []string{"FG", "SCH", "RM", "PM"} {
		assert.Contains(t, q, `"ItemCode" LIKE ''`+prefix+`%''`)
	}
	assert.Contains(t, q, `"GP_OIL_HANADB"."OITM"`)
	assert.Contains(t, q, `"GP_BEVERAGES_HANADB"."OITM"`)
	assert.Contains(t, q, `"GP_MART_HANADB"."OITM"`)
}

func TestPartiesQueryFiltersCustomers(t *testing.T) {
	q := partiesQuery("HANADB112")
	assert.Equal(t, 3, strings.Count(q, `"CardType"=''C''`))
	assert.Contains(t, q, `"GP_MART_HANADB"."OCRD"`)
}

func TestPartyAddressesQueryComposesFullAddress(t *testing.T) {
	q := partyAddressesQuery("HANADB112")
	assert.Equal(t, 3, strings.Count(q, "AS MainAddress"))
	// All eight fragments participate, NULL-safe.
	for _, fragment := range []string{"Address2", "Address3", "Street", "Block", "City", "State", "Country", "ZipCode"} {
		assert.Contains(t, q, "ISNULL("+fragment+",'')")
	}
}

func TestFetchProducts(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{
		"ItemCode", "ItemName", "Category", "SalFactor2", "U_Rev_tax_Rate", "Deleted", "U_Variety", "SalPackUn", "U_Brand",
	}).
		AddRow("FG0001", "Sunflower Oil 1L", "OIL", 12.0, 5.0, "N", "Refined", "BOTTLE", "GreenPlains").
		AddRow("FG0001", "Sunflower Oil 1L", "MART", 12.0, 5.0, "N", "Refined", "BOTTLE", "GreenPlains").
		AddRow("SCH0002", nil, "BEVERAGES", nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery("OPENQUERY\\(HANADB112").WillReturnRows(rows)

	out, err := adapter.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Same item code in two catalogs stays two distinct rows.
	assert.Equal(t, enums.CategoryOil, out[0].Category)
	assert.Equal(t, enums.CategoryMart, out[1].Category)
	assert.Equal(t, out[0].ItemCode, out[1].ItemCode)

	// NULL columns collapse to zero values, deleted flag defaults to N.
	assert.Equal(t, "", out[2].ItemName)
	assert.Equal(t, "N", out[2].IsDeleted)
	assert.True(t, out[2].SalFactor2.IsZero())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchProductsRemoteDown(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	mock.ExpectQuery("OPENQUERY\\(HANADB112").
		WillReturnError(errors.New("linked server unreachable"))

	_, err := adapter.FetchProducts(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeRemoteUnavailable))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchParties(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{
		"CardCode", "CardName", "Address", "State1", "U_Main_Group", "U_Chain", "Country", "CardType", "Category",
	}).
		AddRow("CUSTA000486", "Wal Mart India", "Ludhiana", "Punjab", "Retail", "WalMart", "IN", "C", "OIL").
		AddRow("CUSTB000123", nil, nil, nil, nil, nil, nil, nil, "MART")

	mock.ExpectQuery("OPENQUERY\\(HANADB112").WillReturnRows(rows)

	out, err := adapter.FetchParties(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "CUSTA000486", out[0].CardCode)
	assert.Equal(t, "C", out[1].CardType)
	assert.Equal(t, enums.CategoryMart, out[1].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPartyAddressesTrimsComposedAddress(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{
		"CardCode", "Address", "AdresType", "GSTRegnNo", "State", "City", "ZipCode", "Country", "Category", "MainAddress",
	}).
		AddRow("CUSTA000486", "SHIP LUDHIANA", "S", "03ABCDE1234F1Z5", "Punjab", "Ludhiana", "141001", "IN", "OIL", "  Plot 4  GT Road  Ludhiana Punjab IN 141001 ").
		AddRow("CUSTA000486", "BILL LUDHIANA", nil, nil, nil, nil, nil, nil, "OIL", nil)

	mock.ExpectQuery("OPENQUERY\\(HANADB112").WillReturnRows(rows)

	out, err := adapter.FetchPartyAddresses(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Plot 4  GT Road  Ludhiana Punjab IN 141001", out[0].FullAddress)
	assert.Equal(t, "S", out[0].AddressType)
	// Missing type falls back to billing.
	assert.Equal(t, "B", out[1].AddressType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchBranches(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{"BPLId", "BPLName", "Category"}).
		AddRow(2, "GP Oil Plant", "OIL").
		AddRow(nil, "Orphan", "MART")

	mock.ExpectQuery("OPENQUERY\\(HANADB112").WillReturnRows(rows)

	out, err := adapter.FetchBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].BPLID)
	assert.Equal(t, 2, *out[0].BPLID)
	assert.Nil(t, out[1].BPLID)
	require.NoError(t, mock.ExpectationsWereMet())
}
