package enums

// OrderStatus mirrors the order-entry lifecycle. The bridge only reads
// it: an order becomes push-eligible once approved, and is stamped
// sap_created after a successful push.
type OrderStatus string

const (
	OrderStatusSubmitted       OrderStatus = "submitted"
	OrderStatusPendingApproval OrderStatus = "pending_approval"
	OrderStatusApproved        OrderStatus = "approved"
	OrderStatusRejected        OrderStatus = "rejected"
	OrderStatusSAPCreated      OrderStatus = "sap_created"
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}
