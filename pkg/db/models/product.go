package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// Product is a sellable item as known to one source catalog. The natural
// key is (item_code, category): the same item code exists independently
// per category.
type Product struct {
	ID          uint            `gorm:"column:id;primaryKey"`
	ItemCode    string          `gorm:"column:item_code;size:50;not null;uniqueIndex:ux_sap_products_code_category"`
	Category    enums.Category  `gorm:"column:category;size:20;not null;uniqueIndex:ux_sap_products_code_category"`
	ItemName    string          `gorm:"column:item_name;size:255;not null;default:''"`
	SalFactor2  decimal.Decimal `gorm:"column:sal_factor2;type:numeric(18,6);not null;default:0"`
	TaxRate     decimal.Decimal `gorm:"column:tax_rate;type:numeric(10,2);not null;default:0"`
	IsDeleted   string          `gorm:"column:is_deleted;size:1;not null;default:'N'"`
	Variety     string          `gorm:"column:variety;size:100;not null;default:''"`
	SalPackUnit string          `gorm:"column:sal_pack_unit;size:50;not null;default:''"`
	Brand       string          `gorm:"column:brand;size:100;not null;default:''"`
	SyncedAt    time.Time       `gorm:"column:synced_at;autoUpdateTime"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Product) TableName() string {
	return "sap_products"
}
