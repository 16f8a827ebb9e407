package models

import (
	"time"

	"github.com/google/uuid"
)

// Bid представляет отклик фрилансера на задание.
// Терминальные статусы (hired/rejected) выставляются только протоколом найма.
type Bid struct {
	ID            uuid.UUID `db:"id" json:"id"`
	GigID         uuid.UUID `db:"gig_id" json:"gig_id"`
	FreelancerID  uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	Message       string    `db:"message" json:"message"`
	ProposedPrice float64   `db:"proposed_price" json:"proposed_price"`
	DeliveryDays  int       `db:"delivery_days" json:"delivery_days"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// IsOwnedBy сообщает, принадлежит ли отклик фрилансеру.
func (b *Bid) IsOwnedBy(userID uuid.UUID) bool {
	return b.FreelancerID == userID
}

// IsPending сообщает, находится ли отклик в решаемом состоянии.
func (b *Bid) IsPending() bool {
	return b.Status == BidStatusPending
}
