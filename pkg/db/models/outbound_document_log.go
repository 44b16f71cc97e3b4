package models

import (
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// OutboundDocumentLog records one attempt to push a local order into SAP
// as a sales quotation. The table is append-only: a retried push creates
// a new row rather than reusing a failed one.
type OutboundDocumentLog struct {
	ID              uint             `gorm:"column:id;primaryKey"`
	OrderID         uint             `gorm:"column:order_id;not null;index"`
	SAPDocEntry     *int             `gorm:"column:sap_doc_entry"`
	SAPDocNum       *int             `gorm:"column:sap_doc_num"`
	Status          enums.SyncStatus `gorm:"column:status;size:10;not null;default:'STARTED'"`
	RequestPayload  string           `gorm:"column:request_payload;type:text;not null;default:''"`
	ResponsePayload string           `gorm:"column:response_payload;type:text;not null;default:''"`
	ErrorMessage    string           `gorm:"column:error_message;type:text;not null;default:''"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime;index:,sort:desc"`
	CompletedAt     *time.Time       `gorm:"column:completed_at"`
}

func (OutboundDocumentLog) TableName() string {
	return "sales_quotation_logs"
}
