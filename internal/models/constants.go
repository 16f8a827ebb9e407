package models

// GigStatus константы статусов заданий
const (
	GigStatusOpen      = "open"
	GigStatusAssigned  = "assigned"
	GigStatusCompleted = "completed"
	GigStatusCancelled = "cancelled"
)

// BidStatus константы статусов откликов
const (
	BidStatusPending  = "pending"
	BidStatusHired    = "hired"
	BidStatusRejected = "rejected"
)

// ValidGigStatuses список валидных статусов заданий
var ValidGigStatuses = map[string]struct{}{
	GigStatusOpen:      {},
	GigStatusAssigned:  {},
	GigStatusCompleted: {},
	GigStatusCancelled: {},
}

// ValidBidStatuses список валидных статусов откликов
var ValidBidStatuses = map[string]struct{}{
	BidStatusPending:  {},
	BidStatusHired:    {},
	BidStatusRejected: {},
}
