package push

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
)

func TestMapOrder(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	order := models.Order{
		ID:             7,
		OrderNumber:    "ORD-2026-0042",
		CardCode:       "C-ACME",
		BillToAddress:  "BILL-HO",
		ShipToAddress:  "SHIP-NORTH",
		DispatchFromID: 3,
		PONumber:       "PO-9981",
		CreatedAt:      created,
		Items: []models.OrderItem{
			{
				ItemCode:   "FG-CAN-500",
				Qty:        decimal.NewFromInt(24),
				BasicPrice: decimal.RequireFromString("12.50"),
			},
			{
				ItemCode:   "FG-BTL-330",
				Qty:        decimal.NewFromInt(48),
				BasicPrice: decimal.RequireFromString("8.75"),
			},
		},
	}

	doc := MapOrder(order)

	assert.Equal(t, "C-ACME", doc.CardCode)
	assert.Equal(t, "2026-03-14", doc.DocDate)
	assert.Equal(t, "2026-03-14", doc.DocDueDate)
	assert.Equal(t, "2026-03-14", doc.TaxDate)
	assert.Equal(t, "PO-9981", doc.NumAtCard)
	assert.Equal(t, " ", doc.Comments)
	assert.Equal(t, "SHIP-NORTH", doc.ShipToCode)
	assert.Equal(t, "BILL-HO", doc.PayToCode)
	assert.Equal(t, 3, doc.BPLIDAssignedToInvoice)

	assert.Len(t, doc.DocumentLines, 2)
	assert.Equal(t, "FG-CAN-500", doc.DocumentLines[0].ItemCode)
	assert.True(t, doc.DocumentLines[0].Quantity.Equal(decimal.NewFromInt(24)))
	assert.True(t, doc.DocumentLines[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "GP-FG", doc.DocumentLines[0].WarehouseCode)
	assert.Equal(t, "GP-FG", doc.DocumentLines[1].WarehouseCode)
}

func TestMapOrderNoItems(t *testing.T) {
	doc := MapOrder(models.Order{CardCode: "C-EMPTY"})

	assert.Equal(t, "C-EMPTY", doc.CardCode)
	assert.NotNil(t, doc.DocumentLines)
	assert.Empty(t, doc.DocumentLines)
}
