package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/repository/common"
)

// HireUnit — набор условных записей протокола найма. Каждая операция
// вычисляет свой предикат и применяет запись неделимо на уровне записи
// хранилища; булев результат сообщает, выполнился ли предикат.
type HireUnit interface {
	// AssignGigIfOpen — compare-and-set по заданию: status := assigned,
	// hired_bid_id := bidID, guard status = 'open'. Единственная точка
	// арбитража конкурентных наймов одного задания.
	AssignGigIfOpen(ctx context.Context, gigID, bidID uuid.UUID) (bool, error)
	// MarkBidHired переводит выигравший отклик pending -> hired.
	MarkBidHired(ctx context.Context, bidID uuid.UUID) (bool, error)
	// RejectPendingBids переводит остальные pending отклики задания в rejected
	// одной массовой условной записью. Возвращает число затронутых строк.
	RejectPendingBids(ctx context.Context, gigID, winnerID uuid.UUID) (int64, error)
}

// HiringRepository реализует примитивы протокола найма поверх PostgreSQL:
// одиночные условные записи на пуле соединений и ту же тройку операций
// внутри многозаписной транзакции через WithinHire.
type HiringRepository struct {
	db   *sqlx.DB
	gigs *GigRepository
	bids *BidRepository
}

// NewHiringRepository создаёт новый экземпляр.
func NewHiringRepository(db *sqlx.DB, gigs *GigRepository, bids *BidRepository) *HiringRepository {
	return &HiringRepository{db: db, gigs: gigs, bids: bids}
}

// GetBid возвращает отклик по идентификатору.
func (r *HiringRepository) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	return r.bids.GetByID(ctx, id)
}

// GetGig возвращает задание по идентификатору.
func (r *HiringRepository) GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	return r.gigs.GetByID(ctx, id)
}

// AssignGigIfOpen применяет CAS по заданию вне транзакции (последовательный режим).
func (r *HiringRepository) AssignGigIfOpen(ctx context.Context, gigID, bidID uuid.UUID) (bool, error) {
	return assignGigIfOpen(ctx, r.db, gigID, bidID)
}

// MarkBidHired переводит отклик в hired вне транзакции (последовательный режим).
func (r *HiringRepository) MarkBidHired(ctx context.Context, bidID uuid.UUID) (bool, error) {
	return markBidHired(ctx, r.db, bidID)
}

// RejectPendingBids отклоняет остальные отклики вне транзакции (последовательный режим).
func (r *HiringRepository) RejectPendingBids(ctx context.Context, gigID, winnerID uuid.UUID) (int64, error) {
	return rejectPendingBids(ctx, r.db, gigID, winnerID)
}

// WithinHire выполняет fn в одной транзакции хранилища: все условные записи,
// сделанные через переданный HireUnit, фиксируются или откатываются целиком.
// Хэндл транзакции живёт строго в рамках вызова и освобождается на всех путях.
func (r *HiringRepository) WithinHire(ctx context.Context, fn func(HireUnit) error) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&hireTxUnit{tx: tx})
	})
}

// hireTxUnit привязывает примитивы найма к открытой транзакции.
type hireTxUnit struct {
	tx *sqlx.Tx
}

func (u *hireTxUnit) AssignGigIfOpen(ctx context.Context, gigID, bidID uuid.UUID) (bool, error) {
	return assignGigIfOpen(ctx, u.tx, gigID, bidID)
}

func (u *hireTxUnit) MarkBidHired(ctx context.Context, bidID uuid.UUID) (bool, error) {
	return markBidHired(ctx, u.tx, bidID)
}

func (u *hireTxUnit) RejectPendingBids(ctx context.Context, gigID, winnerID uuid.UUID) (int64, error) {
	return rejectPendingBids(ctx, u.tx, gigID, winnerID)
}

func assignGigIfOpen(ctx context.Context, q sqlx.ExtContext, gigID, bidID uuid.UUID) (bool, error) {
	query := `
		UPDATE gigs
		SET status = 'assigned', hired_bid_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'open'
	`
	res, err := q.ExecContext(ctx, query, gigID, bidID)
	if err != nil {
		return false, fmt.Errorf("hiring repository: assign gig %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("hiring repository: assign gig rows affected %w", err)
	}
	return affected > 0, nil
}

func markBidHired(ctx context.Context, q sqlx.ExtContext, bidID uuid.UUID) (bool, error) {
	query := `
		UPDATE bids
		SET status = 'hired', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	res, err := q.ExecContext(ctx, query, bidID)
	if err != nil {
		return false, fmt.Errorf("hiring repository: mark bid hired %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("hiring repository: mark bid hired rows affected %w", err)
	}
	return affected > 0, nil
}

func rejectPendingBids(ctx context.Context, q sqlx.ExtContext, gigID, winnerID uuid.UUID) (int64, error) {
	query := `
		UPDATE bids
		SET status = 'rejected', updated_at = NOW()
		WHERE gig_id = $1 AND id <> $2 AND status = 'pending'
	`
	res, err := q.ExecContext(ctx, query, gigID, winnerID)
	if err != nil {
		return 0, fmt.Errorf("hiring repository: reject pending bids %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("hiring repository: reject pending bids rows affected %w", err)
	}
	return affected, nil
}
