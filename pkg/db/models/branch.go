package models

import (
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// Branch is a SAP business place (dispatch location) in one source catalog.
// Natural key is (bpl_id, category).
type Branch struct {
	ID        uint           `gorm:"column:id;primaryKey"`
	BPLID     int            `gorm:"column:bpl_id;not null;uniqueIndex:ux_branches_bpl_category"`
	Category  enums.Category `gorm:"column:category;size:20;not null;uniqueIndex:ux_branches_bpl_category"`
	BPLName   string         `gorm:"column:bpl_name;size:200;not null;default:''"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Branch) TableName() string {
	return "branches"
}
