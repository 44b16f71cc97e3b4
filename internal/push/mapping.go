package push

import (
	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/sapsl"
)

const (
	// SAP rejects an absent Comments field on some B1 patch levels; a
	// single space is the accepted no-comment value.
	quotationComments = " "

	// All outbound lines draw from the finished-goods warehouse.
	warehouseCode = "GP-FG"

	docDateLayout = "2006-01-02"
)

// MapOrder projects a local order into a Service Layer quotation. Pure
// function of its input: no lookups, no clock, no side effects. DocDate,
// DocDueDate, and TaxDate all derive from the order's creation time.
func MapOrder(order models.Order) sapsl.Quotation {
	docDate := order.CreatedAt.Format(docDateLayout)

	lines := make([]sapsl.QuotationLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, sapsl.QuotationLine{
			ItemCode:      item.ItemCode,
			Quantity:      item.Qty,
			UnitPrice:     item.BasicPrice,
			WarehouseCode: warehouseCode,
		})
	}

	return sapsl.Quotation{
		CardCode:               order.CardCode,
		DocDate:                docDate,
		DocDueDate:             docDate,
		TaxDate:                docDate,
		NumAtCard:              order.PONumber,
		Comments:               quotationComments,
		ShipToCode:             order.ShipToAddress,
		PayToCode:              order.BillToAddress,
		BPLIDAssignedToInvoice: order.DispatchFromID,
		DocumentLines:          lines,
	}
}
