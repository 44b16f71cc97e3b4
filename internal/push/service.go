package push

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/greenplains/sapbridge-backend/internal/orders"
	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
	"github.com/greenplains/sapbridge-backend/pkg/logger"
	"github.com/greenplains/sapbridge-backend/pkg/metrics"
	"github.com/greenplains/sapbridge-backend/pkg/sapsl"
)

// Gateway is the outbound document surface the service needs from the
// Service Layer client.
type Gateway interface {
	CreateQuotation(ctx context.Context, doc sapsl.Quotation) (*sapsl.QuotationResult, error)
}

type ServiceParams struct {
	Logger  *logger.Logger
	Orders  *orders.Repository
	Logs    *LogRepository
	Gateway Gateway
	Metrics *metrics.SyncMetrics
}

// Service pushes local orders to SAP as sales quotations.
type Service struct {
	logger  *logger.Logger
	orders  *orders.Repository
	logs    *LogRepository
	gateway Gateway
	metrics *metrics.SyncMetrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "push service requires a logger")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "push service requires an order repository")
	}
	if params.Logs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "push service requires a log repository")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "push service requires a gateway")
	}
	return &Service{
		logger:  params.Logger,
		orders:  params.Orders,
		logs:    params.Logs,
		gateway: params.Gateway,
		metrics: params.Metrics,
	}, nil
}

// Push maps one order to a quotation and sends it over the Service
// Layer. Every call appends its own log row; the order is stamped with
// the SAP document number only on success. The returned log row carries
// the outcome even when the push itself failed.
func (s *Service) Push(ctx context.Context, orderID uint) (*models.OutboundDocumentLog, error) {
	order, err := s.orders.FindWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	doc := MapOrder(*order)
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quotation")
	}

	ctx = s.logger.WithFields(ctx, map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"card_code":    order.CardCode,
	})

	log, err := s.logs.CreateAttempt(ctx, order.ID, string(payload))
	if err != nil {
		return nil, err
	}

	result, pushErr := s.gateway.CreateQuotation(ctx, doc)
	if pushErr != nil {
		s.logger.Error(ctx, "quotation push failed", pushErr)
		if s.metrics != nil {
			s.metrics.IncPushResult("failure")
		}
		if err := s.logs.MarkFailed(ctx, log, pushErr.Error(), remoteBody(pushErr)); err != nil {
			s.logger.Error(ctx, "record push failure", err)
		}
		return log, pushErr
	}

	if err := s.logs.MarkSuccess(ctx, log, result.DocEntry, result.DocNum, result.RawBody); err != nil {
		return log, err
	}
	if err := s.orders.MarkPushed(ctx, order.ID, strconv.Itoa(result.DocNum)); err != nil {
		return log, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp order")
	}

	if s.metrics != nil {
		s.metrics.IncPushResult("success")
	}
	s.logger.Info(
		s.logger.WithFields(ctx, map[string]any{
			"doc_entry": result.DocEntry,
			"doc_num":   result.DocNum,
		}),
		"quotation created",
	)
	return log, nil
}

// History lists all push attempts recorded for the order.
func (s *Service) History(ctx context.Context, orderID uint) ([]models.OutboundDocumentLog, error) {
	if _, err := s.orders.FindWithItems(ctx, orderID); err != nil {
		return nil, err
	}
	return s.logs.ListByOrder(ctx, orderID)
}

// remoteBody pulls the raw response body out of a gateway error so the
// log row keeps what SAP actually said.
func remoteBody(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return ""
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return ""
	}
	body, _ := details["body"].(string)
	return body
}
