package remote

import (
	"fmt"
	"strings"

	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

// Each category lives in its own HANA schema behind the linked server.
// Queries against all three are stitched together with UNION ALL, and the
// category label is injected as a literal column so rows stay attributable
// after the merge.
var sourceSchemas = map[enums.Category]string{
	enums.CategoryOil:       "GP_OIL_HANADB",
	enums.CategoryBeverages: "GP_BEVERAGES_HANADB",
	enums.CategoryMart:      "GP_MART_HANADB",
}

// Master data item codes carry a lifecycle prefix; anything else in OITM
// (services, fixtures) is out of scope for the bridge.
var itemCodePrefixes = []string{"FG", "SCH", "RM", "PM"}

func productsQuery(linkedServer string) string {
	prefixFilters := make([]string, 0, len(itemCodePrefixes))
	for _, prefix := range itemCodePrefixes {
		prefixFilters = append(prefixFilters, fmt.Sprintf(`"ItemCode" LIKE ''%s%%''`, prefix))
	}
	where := strings.Join(prefixFilters, " OR ")

	parts := make([]string, 0, len(enums.Categories))
	for _, category := range enums.Categories {
		inner := fmt.Sprintf(
			`SELECT "ItemCode", "ItemName", ''%s'' AS "Category", "SalFactor2", "U_Rev_tax_Rate", "Deleted", "U_Variety", "SalPackUn", "U_Brand" FROM "%s"."OITM" WHERE %s`,
			category, sourceSchemas[category], where,
		)
		parts = append(parts, fmt.Sprintf(
			"SELECT ItemCode, ItemName, Category, SalFactor2, U_Rev_tax_Rate, Deleted, U_Variety, SalPackUn, U_Brand\nFROM OPENQUERY(%s, '%s')",
			linkedServer, inner,
		))
	}
	return strings.Join(parts, "\nUNION ALL\n")
}

func partiesQuery(linkedServer string) string {
	parts := make([]string, 0, len(enums.Categories))
	for _, category := range enums.Categories {
		inner := fmt.Sprintf(
			`SELECT "CardCode", "CardName", "Address", "State1", "U_Main_Group", "U_Chain", "Country", "CardType", ''%s'' AS "Category" FROM "%s"."OCRD" WHERE "CardType"=''C''`,
			category, sourceSchemas[category],
		)
		parts = append(parts, fmt.Sprintf(
			"SELECT CardCode, CardName, Address, State1, U_Main_Group, U_Chain, Country, CardType, Category\nFROM OPENQUERY(%s, '%s')",
			linkedServer, inner,
		))
	}
	return strings.Join(parts, "\nUNION ALL\n")
}

// The composed MainAddress joins eight nullable CRD1 fragments with single
// spaces; NULLs collapse to empty strings so the shape is stable.
const mainAddressExpr = `CONCAT(ISNULL(Address2,''), ' ', ISNULL(Address3,''), ' ', ISNULL(Street,''), ' ', ISNULL(Block,''), ' ', ISNULL(City,''), ' ', ISNULL(State,''), ' ', ISNULL(Country,''), ' ', ISNULL(ZipCode,'')) AS MainAddress`

func partyAddressesQuery(linkedServer string) string {
	parts := make([]string, 0, len(enums.Categories))
	for _, category := range enums.Categories {
		inner := fmt.Sprintf(
			`SELECT "CardCode", "Address", "AdresType", "GSTRegnNo", "State", "City", "ZipCode", "Country", "Address2", "Address3", "Street", "Block", ''%s'' AS "Category" FROM "%s"."CRD1"`,
			category, sourceSchemas[category],
		)
		parts = append(parts, fmt.Sprintf(
			"SELECT CardCode, Address, AdresType, GSTRegnNo, State, City, ZipCode, Country, Category,\n%s\nFROM OPENQUERY(%s, '%s')",
			mainAddressExpr, linkedServer, inner,
		))
	}
	return strings.Join(parts, "\nUNION ALL\n")
}

func branchesQuery(linkedServer string) string {
	parts := make([]string, 0, len(enums.Categories))
	for _, category := range enums.Categories {
		inner := fmt.Sprintf(
			`SELECT "BPLId", "BPLName", ''%s'' AS "Category" FROM "%s"."OBPL"`,
			category, sourceSchemas[category],
		)
		parts = append(parts, fmt.Sprintf(
			"SELECT BPLId, BPLName, Category\nFROM OPENQUERY(%s, '%s')",
			linkedServer, inner,
		))
	}
	return strings.Join(parts, "\nUNION ALL\n")
}
