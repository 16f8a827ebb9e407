package models

import (
	"time"

	"github.com/google/uuid"
)

// Gig описывает размещённое задание с бюджетом.
// HiredBidID заполнен тогда и только тогда, когда Status == assigned.
type Gig struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OwnerID     uuid.UUID  `db:"owner_id" json:"owner_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Budget      float64    `db:"budget" json:"budget"`
	Category    string     `db:"category" json:"category"`
	Skills      []string   `db:"-" json:"skills"`
	Status      string     `db:"status" json:"status"`
	HiredBidID  *uuid.UUID `db:"hired_bid_id" json:"hired_bid_id,omitempty"`
	BidsCount   *int       `db:"bids_count" json:"bids_count,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// IsOwnedBy сообщает, принадлежит ли задание пользователю.
func (g *Gig) IsOwnedBy(userID uuid.UUID) bool {
	return g.OwnerID == userID
}

// IsOpen сообщает, принимает ли задание новые отклики.
func (g *Gig) IsOpen() bool {
	return g.Status == GigStatusOpen
}
