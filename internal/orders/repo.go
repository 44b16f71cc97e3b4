package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
	pkgerrors "github.com/greenplains/sapbridge-backend/pkg/errors"
)

// Repository reads local orders for the outbound gateway. Order entry
// itself lives in another system; the bridge only consumes the rows and
// stamps the SAP document number back after a successful push.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindWithItems loads an order and its lines.
func (r *Repository) FindWithItems(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return &order, nil
}

// MarkPushed stamps the SAP document number and flips the order status
// once the quotation exists remotely.
func (r *Repository) MarkPushed(ctx context.Context, orderID uint, docNum string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"sap_doc_number": docNum,
			"status":         enums.OrderStatusSAPCreated,
		}).Error
}
