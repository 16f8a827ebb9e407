package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
)

// Ошибки уровня репозитория откликов.
var (
	ErrBidNotFound  = errors.New("bid not found")
	ErrDuplicateBid = errors.New("duplicate bid")
	ErrGigNotOpen   = errors.New("gig is not open for bids")
)

// BidRepository отвечает за работу с откликами.
type BidRepository struct {
	db *sqlx.DB
}

// NewBidRepository создаёт новый экземпляр.
func NewBidRepository(db *sqlx.DB) *BidRepository {
	return &BidRepository{db: db}
}

const bidColumns = `id, gig_id, freelancer_id, message, proposed_price, delivery_days, status, created_at, updated_at`

// Create вставляет отклик одной условной записью. Вставка проходит только
// пока задание открыто (guard через INSERT ... SELECT), а дубль по паре
// (gig_id, freelancer_id) отклоняется уникальным ограничением самой базы —
// двум конкурентным вставкам никакая проверка перед INSERT не нужна.
func (r *BidRepository) Create(ctx context.Context, bid *models.Bid) error {
	query := `
		INSERT INTO bids (gig_id, freelancer_id, message, proposed_price, delivery_days, status)
		SELECT $1, $2, $3, $4, $5, 'pending'
		WHERE EXISTS (SELECT 1 FROM gigs WHERE id = $1 AND status = 'open')
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		bid.GigID, bid.FreelancerID, bid.Message, bid.ProposedPrice, bid.DeliveryDays,
	).Scan(&bid.ID, &bid.CreatedAt, &bid.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateBid
		}
		if errors.Is(err, sql.ErrNoRows) {
			// Guard не нашёл открытое задание: оно закрылось между проверкой
			// предусловий и вставкой.
			return ErrGigNotOpen
		}
		return fmt.Errorf("bid repository: create %w", err)
	}

	bid.Status = models.BidStatusPending
	return nil
}

// GetByID возвращает отклик по идентификатору.
func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1`
	if err := r.db.GetContext(ctx, &bid, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("bid repository: get by id %w", err)
	}
	return &bid, nil
}

// ListByGig возвращает все отклики на задание, новые первыми.
func (r *BidRepository) ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	query := `SELECT ` + bidColumns + ` FROM bids WHERE gig_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &bids, query, gigID); err != nil {
		return nil, fmt.Errorf("bid repository: list by gig %w", err)
	}
	return bids, nil
}

// ListByFreelancer возвращает все отклики фрилансера, новые первыми.
func (r *BidRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	query := `SELECT ` + bidColumns + ` FROM bids WHERE freelancer_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &bids, query, freelancerID); err != nil {
		return nil, fmt.Errorf("bid repository: list by freelancer %w", err)
	}
	return bids, nil
}

// UpdateIfPending обновляет содержимое отклика условной записью с guard
// status = 'pending'. Возвращает false, если отклик уже решён: условная
// запись — единственный арбитр гонки с конкурентным наймом.
func (r *BidRepository) UpdateIfPending(ctx context.Context, id uuid.UUID, message string, proposedPrice float64, deliveryDays int) (bool, error) {
	query := `
		UPDATE bids
		SET message = $2, proposed_price = $3, delivery_days = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, query, id, message, proposedPrice, deliveryDays)
	if err != nil {
		return false, fmt.Errorf("bid repository: update %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("bid repository: update rows affected %w", err)
	}
	return affected > 0, nil
}

// DeleteIfPending удаляет отклик условной записью с guard status = 'pending'.
// Если найм успел зафиксироваться первым, предикат не выполнится и отклик
// останется нетронутым.
func (r *BidRepository) DeleteIfPending(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM bids WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("bid repository: delete %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("bid repository: delete rows affected %w", err)
	}
	return affected > 0, nil
}
