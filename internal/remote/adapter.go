package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/shopspring/decimal"

	"github.com/greenplains/sapbridge-backend/pkg/config"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

// Catalog reads master data from the federated SAP catalogs. Implemented
// by Adapter; the sync coordinator depends on this interface so tests can
// substitute fixtures.
type Catalog interface {
	FetchProducts(ctx context.Context) ([]ProductRow, error)
	FetchParties(ctx context.Context) ([]PartyRow, error)
	FetchPartyAddresses(ctx context.Context) ([]PartyAddressRow, error)
	FetchBranches(ctx context.Context) ([]BranchRow, error)
}

// ProductRow is one OITM row merged across the three catalogs.
type ProductRow struct {
	ItemCode    string
	ItemName    string
	Category    enums.Category
	SalFactor2  decimal.Decimal
	TaxRate     decimal.Decimal
	IsDeleted   string
	Variety     string
	SalPackUnit string
	Brand       string
}

// PartyRow is one OCRD customer row.
type PartyRow struct {
	CardCode  string
	CardName  string
	Address   string
	State     string
	MainGroup string
	Chain     string
	Country   string
	CardType  string
	Category  enums.Category
}

// PartyAddressRow is one CRD1 row with the server-side composed address.
type PartyAddressRow struct {
	CardCode    string
	AddressName string
	AddressType string
	GSTNumber   string
	State       string
	City        string
	ZipCode     string
	Country     string
	Category    enums.Category
	FullAddress string
}

// BranchRow is one OBPL business place row. BPLID is nil when the source
// row carried no id; such rows count as processed but are never written.
type BranchRow struct {
	BPLID    *int
	BPLName  string
	Category enums.Category
}

// Adapter runs federated queries against the relay MSSQL server. The
// relay reaches the per-category HANA schemas through a linked server, so
// every fetch is a single round trip regardless of category count.
type Adapter struct {
	db           *sql.DB
	linkedServer string
	queryTimeout time.Duration
	logger       *logger.Logger
}

// Open dials the relay server. The connection is pooled and lazy: a relay
// outage surfaces on the first fetch, not at startup.
func Open(cfg config.RemoteConfig, logg *logger.Logger) (*Adapter, error) {
	db, err := sql.Open("sqlserver", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening remote catalog connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return NewAdapter(db, cfg.LinkedServer, cfg.QueryTimeout, logg)
}

// NewAdapter wraps an existing handle. Used by Open and by tests.
func NewAdapter(db *sql.DB, linkedServer string, queryTimeout time.Duration, logg *logger.Logger) (*Adapter, error) {
	if db == nil {
		return nil, fmt.Errorf("remote adapter requires a db handle")
	}
	if strings.TrimSpace(linkedServer) == "" {
		return nil, fmt.Errorf("remote adapter requires a linked server name")
	}
	if queryTimeout <= 0 {
		queryTimeout = time.Minute
	}
	return &Adapter{
		db:           db,
		linkedServer: linkedServer,
		queryTimeout: queryTimeout,
		logger:       logg,
	}, nil
}

// Ping verifies the relay server is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close releases the pooled connections.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// FetchProducts pulls sellable items across all categories. Only item
// codes with a known lifecycle prefix come back.
func (a *Adapter) FetchProducts(ctx context.Context) ([]ProductRow, error) {
	rows, cleanup, err := a.query(ctx, "products", productsQuery(a.linkedServer))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var out []ProductRow
	for rows.Next() {
		var (
			itemCode, itemName, category         sql.NullString
			salFactor2, taxRate                  sql.NullFloat64
			deleted, variety, salPackUnit, brand sql.NullString
		)
		if err := rows.Scan(&itemCode, &itemName, &category, &salFactor2, &taxRate, &deleted, &variety, &salPackUnit, &brand); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeMalformedRow, err, "scan product row")
		}
		out = append(out, ProductRow{
			ItemCode:    itemCode.String,
			ItemName:    itemName.String,
			Category:    enums.Category(category.String),
			SalFactor2:  decimal.NewFromFloat(salFactor2.Float64),
			TaxRate:     decimal.NewFromFloat(taxRate.Float64),
			IsDeleted:   stringOr(deleted, "N"),
			Variety:     variety.String,
			SalPackUnit: salPackUnit.String,
			Brand:       brand.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "iterate product rows")
	}
	a.logFetched(ctx, "products", len(out))
	return out, nil
}

// FetchParties pulls customer accounts (CardType C) across all categories.
func (a *Adapter) FetchParties(ctx context.Context) ([]PartyRow, error) {
	rows, cleanup, err := a.query(ctx, "parties", partiesQuery(a.linkedServer))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var out []PartyRow
	for rows.Next() {
		var cardCode, cardName, address, state, mainGroup, chain, country, cardType, category sql.NullString
		if err := rows.Scan(&cardCode, &cardName, &address, &state, &mainGroup, &chain, &country, &cardType, &category); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeMalformedRow, err, "scan party row")
		}
		out = append(out, PartyRow{
			CardCode:  cardCode.String,
			CardName:  cardName.String,
			Address:   address.String,
			State:     state.String,
			MainGroup: mainGroup.String,
			Chain:     chain.String,
			Country:   country.String,
			CardType:  stringOr(cardType, "C"),
			Category:  enums.Category(category.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "iterate party rows")
	}
	a.logFetched(ctx, "parties", len(out))
	return out, nil
}

// FetchPartyAddresses pulls bill/ship addresses across all categories.
func (a *Adapter) FetchPartyAddresses(ctx context.Context) ([]PartyAddressRow, error) {
	rows, cleanup, err := a.query(ctx, "party_addresses", partyAddressesQuery(a.linkedServer))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var out []PartyAddressRow
	for rows.Next() {
		var cardCode, addressName, addressType, gstNumber, state, city, zipCode, country, category, fullAddress sql.NullString
		if err := rows.Scan(&cardCode, &addressName, &addressType, &gstNumber, &state, &city, &zipCode, &country, &category, &fullAddress); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeMalformedRow, err, "scan party address row")
		}
		out = append(out, PartyAddressRow{
			CardCode:    cardCode.String,
			AddressName: addressName.String,
			AddressType: stringOr(addressType, "B"),
			GSTNumber:   gstNumber.String,
			State:       state.String,
			City:        city.String,
			ZipCode:     zipCode.String,
			Country:     country.String,
			Category:    enums.Category(category.String),
			FullAddress: strings.TrimSpace(fullAddress.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "iterate party address rows")
	}
	a.logFetched(ctx, "party_addresses", len(out))
	return out, nil
}

// FetchBranches pulls business places across all categories.
func (a *Adapter) FetchBranches(ctx context.Context) ([]BranchRow, error) {
	rows, cleanup, err := a.query(ctx, "branches", branchesQuery(a.linkedServer))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var out []BranchRow
	for rows.Next() {
		var (
			bplID    sql.NullInt64
			bplName  sql.NullString
			category sql.NullString
		)
		if err := rows.Scan(&bplID, &bplName, &category); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeMalformedRow, err, "scan branch row")
		}
		row := BranchRow{
			BPLName:  bplName.String,
			Category: enums.Category(category.String),
		}
		if bplID.Valid {
			id := int(bplID.Int64)
			row.BPLID = &id
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "iterate branch rows")
	}
	a.logFetched(ctx, "branches", len(out))
	return out, nil
}

func (a *Adapter) query(ctx context.Context, entity, stmt string) (*sql.Rows, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	rows, err := a.db.QueryContext(ctx, stmt)
	if err != nil {
		cancel()
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err,
			fmt.Sprintf("fetch %s from remote catalogs", entity))
	}
	return rows, func() {
		_ = rows.Close()
		cancel()
	}, nil
}

func (a *Adapter) logFetched(ctx context.Context, entity string, count int) {
	if a.logger == nil {
		return
	}
	ctx = a.logger.WithFields(ctx, map[string]any{"entity": entity, "rows": count})
	a.logger.Info(ctx, "remote catalog fetch complete")
}

func stringOr(value sql.NullString, fallback string) string {
	if value.Valid && strings.TrimSpace(value.String) != "" {
		return value.String
	}
	return fallback
}
