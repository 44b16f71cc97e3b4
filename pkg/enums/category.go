package enums

// Category labels the remote source catalog a master-data row came from.
// It is part of every local natural key: the same item or card code may
// legitimately exist once per category.
type Category string

const (
	CategoryOil       Category = "OIL"
	CategoryBeverages Category = "BEVERAGES"
	CategoryMart      Category = "MART"
)

// Categories lists the known source partitions in pull order.
var Categories = []Category{CategoryOil, CategoryBeverages, CategoryMart}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
