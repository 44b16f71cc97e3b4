package models

import (
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// Party is a customer account as known to one source catalog. Natural key
// is (card_code, category).
type Party struct {
	ID        uint           `gorm:"column:id;primaryKey"`
	CardCode  string         `gorm:"column:card_code;size:50;not null;index;uniqueIndex:ux_sap_parties_code_category"`
	Category  enums.Category `gorm:"column:category;size:20;not null;uniqueIndex:ux_sap_parties_code_category"`
	CardName  string         `gorm:"column:card_name;size:200;not null;default:''"`
	Address   string         `gorm:"column:address;size:100;not null;default:''"`
	State     string         `gorm:"column:state;size:100;not null;default:''"`
	MainGroup string         `gorm:"column:main_group;size:100;not null;default:''"`
	Chain     string         `gorm:"column:chain;size:100;not null;default:''"`
	Country   string         `gorm:"column:country;size:50;not null;default:''"`
	CardType  string         `gorm:"column:card_type;size:1;not null;default:'C'"`
	SyncedAt  time.Time      `gorm:"column:synced_at;autoUpdateTime"`
}

func (Party) TableName() string {
	return "sap_parties"
}
