package masterdata

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
)

type ProductView struct {
	ID          uint            `json:"id"`
	ItemCode    string          `json:"item_code"`
	Category    string          `json:"category"`
	ItemName    string          `json:"item_name"`
	SalFactor2  decimal.Decimal `json:"sal_factor2"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	IsDeleted   string          `json:"is_deleted"`
	Variety     string          `json:"variety"`
	SalPackUnit string          `json:"sal_pack_unit"`
	Brand       string          `json:"brand"`
	SyncedAt    time.Time       `json:"synced_at"`
}

type PartyView struct {
	ID        uint      `json:"id"`
	CardCode  string    `json:"card_code"`
	Category  string    `json:"category"`
	CardName  string    `json:"card_name"`
	Address   string    `json:"address"`
	State     string    `json:"state"`
	MainGroup string    `json:"main_group"`
	Chain     string    `json:"chain"`
	Country   string    `json:"country"`
	CardType  string    `json:"card_type"`
	SyncedAt  time.Time `json:"synced_at"`
}

type PartyAddressView struct {
	ID          uint      `json:"id"`
	CardCode    string    `json:"card_code"`
	AddressName string    `json:"address_name"`
	Category    string    `json:"category"`
	AddressType string    `json:"address_type"`
	GSTNumber   string    `json:"gst_number"`
	State       string    `json:"state"`
	City        string    `json:"city"`
	ZipCode     string    `json:"zip_code"`
	Country     string    `json:"country"`
	FullAddress string    `json:"full_address"`
	SyncedAt    time.Time `json:"synced_at"`
}

type BranchView struct {
	ID       uint   `json:"id"`
	BPLID    int    `json:"bpl_id"`
	Category string `json:"category"`
	BPLName  string `json:"bpl_name"`
	IsActive bool   `json:"is_active"`
}

func newProductView(p models.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		ItemCode:    p.ItemCode,
		Category:    p.Category.String(),
		ItemName:    p.ItemName,
		SalFactor2:  p.SalFactor2,
		TaxRate:     p.TaxRate,
		IsDeleted:   p.IsDeleted,
		Variety:     p.Variety,
		SalPackUnit: p.SalPackUnit,
		Brand:       p.Brand,
		SyncedAt:    p.SyncedAt,
	}
}

func newPartyView(p models.Party) PartyView {
	return PartyView{
		ID:        p.ID,
		CardCode:  p.CardCode,
		Category:  p.Category.String(),
		CardName:  p.CardName,
		Address:   p.Address,
		State:     p.State,
		MainGroup: p.MainGroup,
		Chain:     p.Chain,
		Country:   p.Country,
		CardType:  p.CardType,
		SyncedAt:  p.SyncedAt,
	}
}

func newPartyAddressView(a models.PartyAddress) PartyAddressView {
	return PartyAddressView{
		ID:          a.ID,
		CardCode:    a.CardCode,
		AddressName: a.AddressName,
		Category:    a.Category.String(),
		AddressType: a.AddressType,
		GSTNumber:   a.GSTNumber,
		State:       a.State,
		City:        a.City,
		ZipCode:     a.ZipCode,
		Country:     a.Country,
		FullAddress: a.FullAddress,
		SyncedAt:    a.SyncedAt,
	}
}

func newBranchView(b models.Branch) BranchView {
	return BranchView{
		ID:       b.ID,
		BPLID:    b.BPLID,
		Category: b.Category.String(),
		BPLName:  b.BPLName,
		IsActive: b.IsActive,
	}
}
