package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// Order is the local sales order written by the order-entry layer. The
// bridge reads it when projecting an outbound SAP document and stamps
// sap_doc_number after a successful push.
type Order struct {
	ID             uint              `gorm:"column:id;primaryKey"`
	OrderNumber    string            `gorm:"column:order_number;size:50;not null"`
	CardCode       string            `gorm:"column:card_code;size:100;not null"`
	CardName       string            `gorm:"column:card_name;size:100;not null;default:''"`
	BillToID       string            `gorm:"column:bill_to_id;not null;default:''"`
	BillToAddress  string            `gorm:"column:bill_to_address;type:text;not null;default:''"`
	ShipToID       string            `gorm:"column:ship_to_id;not null;default:''"`
	ShipToAddress  string            `gorm:"column:ship_to_address;type:text;not null;default:''"`
	DispatchFromID int               `gorm:"column:dispatch_from_id;not null;default:0"`
	PONumber       string            `gorm:"column:po_number;size:100;not null;default:''"`
	TotalAmount    decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Status         enums.OrderStatus `gorm:"column:status;size:20;not null;default:'submitted'"`
	SAPDocNumber   string            `gorm:"column:sap_doc_number;size:100;not null;default:''"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line on a local order.
type OrderItem struct {
	ID         uint            `gorm:"column:id;primaryKey"`
	OrderID    uint            `gorm:"column:order_id;not null;index"`
	ItemCode   string          `gorm:"column:item_code;size:100;not null"`
	ItemName   string          `gorm:"column:item_name;size:255;not null;default:''"`
	Qty        decimal.Decimal `gorm:"column:qty;type:numeric(10,2);not null;default:0"`
	BasicPrice decimal.Decimal `gorm:"column:basic_price;type:numeric(10,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
