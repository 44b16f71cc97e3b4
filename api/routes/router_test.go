package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenplains/sapbridge-backend/internal/masterdata"
	"github.com/greenplains/sapbridge-backend/internal/orders"
	"github.com/greenplains/sapbridge-backend/internal/push"
	"github.com/greenplains/sapbridge-backend/internal/reconcile"
	"github.com/greenplains/sapbridge-backend/internal/remote"
	"github.com/greenplains/sapbridge-backend/internal/schedule"
	syncsvc "github.com/greenplains/sapbridge-backend/internal/sync"
	"github.com/greenplains/sapbridge-backend/pkg/config"
	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
	"github.com/greenplains/sapbridge-backend/pkg/sapsl"
)

type staticCatalog struct{}

func (staticCatalog) FetchProducts(ctx context.Context) ([]remote.ProductRow, error) {
	return []remote.ProductRow{{ItemCode: "FG-CAN-500", Category: enums.CategoryBeverages, ItemName: "Cola Can 500ml"}}, nil
}

func (staticCatalog) FetchParties(ctx context.Context) ([]remote.PartyRow, error) {
	return nil, nil
}

func (staticCatalog) FetchPartyAddresses(ctx context.Context) ([]remote.PartyAddressRow, error) {
	return nil, nil
}

func (staticCatalog) FetchBranches(ctx context.Context) ([]remote.BranchRow, error) {
	return nil, nil
}

type staticGateway struct{}

func (staticGateway) CreateQuotation(ctx context.Context, doc sapsl.Quotation) (*sapsl.QuotationResult, error) {
	return &sapsl.QuotationResult{DocEntry: 900, DocNum: 20269001, RawBody: "{}"}, nil
}

func setupRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Party{},
		&models.PartyAddress{},
		&models.Branch{},
		&models.SyncRun{},
		&models.SyncSchedule{},
		&models.Order{},
		&models.OrderItem{},
		&models.OutboundDocumentLog{},
	))
	for _, table := range []string{
		"sap_products", "sap_parties", "sap_party_addresses", "branches",
		"sap_sync_runs", "sap_sync_schedules", "orders", "order_items", "sales_quotation_logs",
	} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.Disabled, Output: io.Discard})

	syncService, err := syncsvc.NewService(syncsvc.ServiceParams{
		Logger:  logg,
		Repo:    syncsvc.NewRepository(db),
		Catalog: staticCatalog{},
		Engine:  reconcile.NewEngine(db, nil),
	})
	require.NoError(t, err)

	scheduleService, err := schedule.NewService(schedule.ServiceParams{
		Logger: logg,
		Repo:   schedule.NewRepository(db),
	})
	require.NoError(t, err)

	pushService, err := push.NewService(push.ServiceParams{
		Logger:  logg,
		Orders:  orders.NewRepository(db),
		Logs:    push.NewLogRepository(db),
		Gateway: staticGateway{},
	})
	require.NoError(t, err)

	masterdataService, err := masterdata.NewService(masterdata.NewRepository(db))
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:     &config.Config{App: config.AppConfig{Env: "test"}},
		Logger:     logg,
		Sync:       syncService,
		Schedules:  scheduleService,
		Push:       pushService,
		MasterData: masterdataService,
	})
	return handler, db
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	handler, _ := setupRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-SAPBridge-Env"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestSyncTriggerAndRuns(t *testing.T) {
	handler, _ := setupRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sync/trigger", `{"entity":"PRODUCT"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var trigger struct {
		Data struct {
			SyncType       string `json:"sync_type"`
			Status         string `json:"status"`
			RecordsCreated int    `json:"records_created"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trigger))
	assert.Equal(t, "PRODUCT", trigger.Data.SyncType)
	assert.Equal(t, "SUCCESS", trigger.Data.Status)
	assert.Equal(t, 1, trigger.Data.RecordsCreated)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/sync/runs?sync_type=PRODUCT", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs.Data, 1)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/sync/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active_schedules"`)
}

func TestSyncTriggerRejectsUnknownEntity(t *testing.T) {
	handler, _ := setupRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sync/trigger", `{"entity":"WAREHOUSE"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleLifecycleOverHTTP(t *testing.T) {
	handler, _ := setupRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/schedules/",
		`{"name":"nightly","sync_type":"ALL","frequency":"DAILY","hour":2,"is_active":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID      uint    `json:"id"`
			NextRun *string `json:"next_run"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.Data.ID)
	assert.NotNil(t, created.Data.NextRun)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/schedules/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nightly"`)

	idPath := "/api/v1/schedules/" + uintToString(created.Data.ID)
	rec = doJSON(t, handler, http.MethodPost, idPath+"/toggle", `{"is_active":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"is_active":false`)

	rec = doJSON(t, handler, http.MethodDelete, idPath+"/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, idPath+"/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleCreateValidation(t *testing.T) {
	handler, _ := setupRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/schedules/",
		`{"name":"bad","sync_type":"ALL","frequency":"MONTHLY"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderPushOverHTTP(t *testing.T) {
	handler, db := setupRouter(t)

	order := models.Order{
		OrderNumber: "ORD-1",
		CardCode:    "C-ACME",
		Status:      enums.OrderStatusApproved,
		Items:       []models.OrderItem{{ItemCode: "FG-CAN-500"}},
	}
	require.NoError(t, db.Create(&order).Error)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/"+uintToString(order.ID)+"/push", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"sap_doc_num":20269001`)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/orders/"+uintToString(order.ID)+"/push-logs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"SUCCESS"`)
}

func TestOrderPushMissingOrder(t *testing.T) {
	handler, _ := setupRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders/424242/push", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMasterDataEndpoints(t *testing.T) {
	handler, db := setupRouter(t)

	require.NoError(t, db.Create(&models.Product{
		ItemCode: "FG-OIL-1L",
		Category: enums.CategoryOil,
		ItemName: "Sunflower Oil 1L",
	}).Error)
	require.NoError(t, db.Create(&models.Branch{
		BPLID:    4,
		Category: enums.CategoryOil,
		BPLName:  "North Depot",
		IsActive: true,
	}).Error)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/master-data/products?category=OIL", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"FG-OIL-1L"`)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/master-data/products?category=FROZEN", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/master-data/branches?active=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"North Depot"`)
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
