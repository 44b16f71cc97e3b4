package sapsl

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/greenplains/sapbridge-backend/pkg/config"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "sapsl-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(config.ServiceLayerConfig{
		BaseURL:   baseURL,
		CompanyDB: "GPDB",
		Username:  "manager",
		Password:  "secret",
	}, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func sampleQuotation() Quotation {
	return Quotation{
		CardCode:               "C001",
		DocDate:                "2026-02-10",
		DocDueDate:             "2026-02-10",
		TaxDate:                "2026-02-10",
		NumAtCard:              "PO-44",
		Comments:               " ",
		ShipToCode:             "SHIP1",
		PayToCode:              "BILL1",
		BPLIDAssignedToInvoice: 3,
		DocumentLines: []QuotationLine{
			{
				ItemCode:      "FG0001",
				Quantity:      decimal.NewFromInt(10),
				UnitPrice:     decimal.RequireFromString("99.5"),
				WarehouseCode: "GP-FG",
			},
		},
	}
}

func TestNewClientValidation(t *testing.T) {
	logg := testLogger()
	if _, err := NewClient(config.ServiceLayerConfig{}, logg); err == nil {
		t.Fatal("expected error for missing base url")
	}
	if _, err := NewClient(config.ServiceLayerConfig{BaseURL: "https://sap:50000/b1s/v1"}, logg); err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if _, err := NewClient(config.ServiceLayerConfig{
		BaseURL: "https://sap:50000/b1s/v1", CompanyDB: "GPDB", Username: "manager", Password: "x",
	}, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestCreateQuotationLoginAndCreate(t *testing.T) {
	var logins atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginPath:
			logins.Add(1)
			var req loginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode login: %v", err)
			}
			if req.CompanyDB != "GPDB" || req.UserName != "manager" || req.Password != "secret" {
				t.Fatalf("unexpected login payload %+v", req)
			}
			http.SetCookie(w, &http.Cookie{Name: "B1SESSION", Value: "session-1"})
			w.WriteHeader(http.StatusOK)
		case quotationsPath:
			if cookie, err := r.Cookie("B1SESSION"); err != nil || cookie.Value != "session-1" {
				t.Fatal("quotation call missing session cookie")
			}
			var doc Quotation
			if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
				t.Fatalf("decode quotation: %v", err)
			}
			if doc.Comments != " " || doc.DocumentLines[0].WarehouseCode != "GP-FG" {
				t.Fatalf("unexpected quotation payload %+v", doc)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"DocEntry":120,"DocNum":305}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	res, err := c.CreateQuotation(context.Background(), sampleQuotation())
	if err != nil {
		t.Fatalf("CreateQuotation: %v", err)
	}
	if res.DocEntry != 120 || res.DocNum != 305 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.RawBody == "" {
		t.Fatal("expected raw response body to be captured")
	}
	if got := logins.Load(); got != 1 {
		t.Fatalf("expected a single login, got %d", got)
	}

	// Second document reuses the held session.
	if _, err := c.CreateQuotation(context.Background(), sampleQuotation()); err != nil {
		t.Fatalf("second CreateQuotation: %v", err)
	}
	if got := logins.Load(); got != 1 {
		t.Fatalf("expected session reuse, got %d logins", got)
	}
}

func TestCreateQuotationRetriesOnceOnExpiredSession(t *testing.T) {
	var logins, rejected atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginPath:
			logins.Add(1)
			w.WriteHeader(http.StatusOK)
		case quotationsPath:
			// First document call simulates a server-side session expiry.
			if rejected.CompareAndSwap(0, 1) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"DocEntry":7,"DocNum":7}`))
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	res, err := c.CreateQuotation(context.Background(), sampleQuotation())
	if err != nil {
		t.Fatalf("CreateQuotation: %v", err)
	}
	if res.DocEntry != 7 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := logins.Load(); got != 2 {
		t.Fatalf("expected re-login after 401, got %d logins", got)
	}
}

func TestCreateQuotationLoginFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":{"value":"Invalid credentials"}}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.CreateQuotation(context.Background(), sampleQuotation())
	if !pkgerrors.IsCode(err, pkgerrors.CodeAuthFailed) {
		t.Fatalf("expected AUTH_FAILED, got %v", err)
	}
}

func TestCreateQuotationRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginPath:
			w.WriteHeader(http.StatusOK)
		case quotationsPath:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":-5002,"message":{"value":"Item no longer exists"}}}`))
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.CreateQuotation(context.Background(), sampleQuotation())
	if !pkgerrors.IsCode(err, pkgerrors.CodeRemoteRejected) {
		t.Fatalf("expected REMOTE_REJECTED, got %v", err)
	}
	typed := pkgerrors.As(err)
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if details["status"] != http.StatusBadRequest {
		t.Fatalf("unexpected status detail %v", details["status"])
	}
}

func TestCreateQuotationUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.CreateQuotation(context.Background(), sampleQuotation())
	if !pkgerrors.IsCode(err, pkgerrors.CodeRemoteUnavailable) {
		t.Fatalf("expected REMOTE_UNAVAILABLE, got %v", err)
	}
}

func TestRedactSensitiveKeys(t *testing.T) {
	if got := redact("password", "secret"); got != "[REDACTED]" {
		t.Fatalf("expected redaction, got %v", got)
	}
	if got := redact("card_code", "C001"); got != "C001" {
		t.Fatalf("unexpected redaction for safe key: %v", got)
	}
}
