package sapsl

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/greenplains/sapbridge-backend/pkg/config"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
)

const (
	loginPath      = "/Login"
	quotationsPath = "/Quotations"
)

var (
	errBaseURLRequired     = errors.New("service layer base url is required")
	errCredentialsRequired = errors.New("service layer company db, username, and password are required")
	errLoggerRequired      = errors.New("service layer logger is required")
)

// Client wraps the SAP B1 Service Layer with session handling, logging,
// and error mapping. Sessions are cookie based: the Service Layer returns
// B1SESSION/ROUTEID cookies on login and expects them on every call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	companyDB  string
	username   string
	password   string
	logger     *logger.Logger

	mu       sync.Mutex
	loggedIn bool
}

// NewClient validates the Service Layer credentials and builds the wrapper.
// No network call happens here; login is lazy and refreshed on expiry.
func NewClient(cfg config.ServiceLayerConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if strings.TrimSpace(cfg.CompanyDB) == "" || strings.TrimSpace(cfg.Username) == "" || cfg.Password == "" {
		return nil, errCredentialsRequired
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("build cookie jar: %w", err)
	}

	transport := http.DefaultTransport
	if cfg.Insecure {
		// On-prem B1 installs commonly run the Service Layer on a
		// self-signed certificate.
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		httpClient: &http.Client{
			Jar:       jar,
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:   baseURL,
		companyDB: strings.TrimSpace(cfg.CompanyDB),
		username:  strings.TrimSpace(cfg.Username),
		password:  cfg.Password,
		logger:    logg,
	}, nil
}

type loginRequest struct {
	CompanyDB string `json:"CompanyDB"`
	UserName  string `json:"UserName"`
	Password  string `json:"Password"`
}

// Quotation is the Service Layer sales quotation document body.
type Quotation struct {
	CardCode               string          `json:"CardCode"`
	DocDate                string          `json:"DocDate"`
	DocDueDate             string          `json:"DocDueDate"`
	TaxDate                string          `json:"TaxDate"`
	NumAtCard              string          `json:"NumAtCard"`
	Comments               string          `json:"Comments"`
	ShipToCode             string          `json:"ShipToCode"`
	PayToCode              string          `json:"PayToCode"`
	BPLIDAssignedToInvoice int             `json:"BPL_IDAssignedToInvoice"`
	DocumentLines          []QuotationLine `json:"DocumentLines"`
}

// QuotationLine is a single document line on a quotation.
type QuotationLine struct {
	ItemCode      string          `json:"ItemCode"`
	Quantity      decimal.Decimal `json:"Quantity"`
	UnitPrice     decimal.Decimal `json:"UnitPrice"`
	WarehouseCode string          `json:"WarehouseCode"`
}

// QuotationResult carries the identifiers SAP assigned to the created
// document plus the verbatim response body for audit logging.
type QuotationResult struct {
	DocEntry int
	DocNum   int
	RawBody  string
}

// CreateQuotation posts the document, logging in first if no session is
// held. A session rejected with 401 is refreshed exactly once before the
// call is retried.
func (c *Client) CreateQuotation(ctx context.Context, doc Quotation) (*QuotationResult, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal quotation")
	}

	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	c.log(ctx, "request", "create_quotation", map[string]any{
		"card_code":   doc.CardCode,
		"num_at_card": doc.NumAtCard,
		"lines":       len(doc.DocumentLines),
	})

	status, respBody, err := c.post(ctx, quotationsPath, body)
	if err != nil {
		c.log(ctx, "error", "create_quotation", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "service layer unreachable")
	}

	if status == http.StatusUnauthorized {
		// Session expired server side. Re-login once and retry.
		c.invalidateSession()
		if err := c.ensureSession(ctx); err != nil {
			return nil, err
		}
		status, respBody, err = c.post(ctx, quotationsPath, body)
		if err != nil {
			c.log(ctx, "error", "create_quotation", map[string]any{"error": err.Error()})
			return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "service layer unreachable")
		}
	}

	if status != http.StatusCreated {
		c.log(ctx, "error", "create_quotation", map[string]any{
			"status": status,
			"error":  truncate(respBody, 500),
		})
		return nil, pkgerrors.New(pkgerrors.CodeRemoteRejected,
			fmt.Sprintf("service layer rejected quotation with status %d", status)).
			WithDetails(map[string]any{"status": status, "body": respBody})
	}

	var created struct {
		DocEntry int `json:"DocEntry"`
		DocNum   int `json:"DocNum"`
	}
	if err := json.Unmarshal([]byte(respBody), &created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRemoteRejected, err, "decode quotation response").
			WithDetails(map[string]any{"body": respBody})
	}

	c.log(ctx, "response", "create_quotation", map[string]any{
		"doc_entry": created.DocEntry,
		"doc_num":   created.DocNum,
	})
	return &QuotationResult{
		DocEntry: created.DocEntry,
		DocNum:   created.DocNum,
		RawBody:  respBody,
	}, nil
}

func (c *Client) ensureSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loggedIn {
		return nil
	}

	body, err := json.Marshal(loginRequest{
		CompanyDB: c.companyDB,
		UserName:  c.username,
		Password:  c.password,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal login")
	}

	c.log(ctx, "request", "login", map[string]any{"company_db": c.companyDB})
	status, respBody, err := c.post(ctx, loginPath, body)
	if err != nil {
		c.log(ctx, "error", "login", map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeRemoteUnavailable, err, "service layer unreachable")
	}
	if status != http.StatusOK {
		c.log(ctx, "error", "login", map[string]any{"status": status, "error": truncate(respBody, 500)})
		return pkgerrors.New(pkgerrors.CodeAuthFailed,
			fmt.Sprintf("service layer login failed with status %d", status)).
			WithDetails(map[string]any{"status": status, "body": respBody})
	}

	c.loggedIn = true
	c.log(ctx, "response", "login", nil)
	return nil
}

func (c *Client) invalidateSession() {
	c.mu.Lock()
	c.loggedIn = false
	c.mu.Unlock()
}

func (c *Client) post(ctx context.Context, path string, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(respBody), nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("service layer %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("service layer %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"password", "secret", "token", "session"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
