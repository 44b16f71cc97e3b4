package models

import (
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// PartyAddress is a billing or shipping address attached to a party in one
// source catalog. Natural key is (card_code, address_name, category).
type PartyAddress struct {
	ID          uint           `gorm:"column:id;primaryKey"`
	CardCode    string         `gorm:"column:card_code;size:50;not null;index;uniqueIndex:ux_sap_party_addresses_key"`
	AddressName string         `gorm:"column:address_name;size:100;not null;default:'';uniqueIndex:ux_sap_party_addresses_key"`
	Category    enums.Category `gorm:"column:category;size:20;not null;uniqueIndex:ux_sap_party_addresses_key"`
	AddressType string         `gorm:"column:address_type;size:1;not null;default:'B'"`
	GSTNumber   string         `gorm:"column:gst_number;size:50;not null;default:''"`
	State       string         `gorm:"column:state;size:100;not null;default:''"`
	City        string         `gorm:"column:city;size:100;not null;default:''"`
	ZipCode     string         `gorm:"column:zip_code;size:20;not null;default:''"`
	Country     string         `gorm:"column:country;size:50;not null;default:''"`
	FullAddress string         `gorm:"column:full_address;type:text;not null;default:''"`
	SyncedAt    time.Time      `gorm:"column:synced_at;autoUpdateTime"`
}

func (PartyAddress) TableName() string {
	return "sap_party_addresses"
}
