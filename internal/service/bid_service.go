package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// BidStore описывает зависимости BidService от слоя хранилища.
type BidStore interface {
	Create(ctx context.Context, bid *models.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	ListByGig(ctx context.Context, gigID uuid.UUID) ([]models.Bid, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error)
	UpdateIfPending(ctx context.Context, id uuid.UUID, message string, proposedPrice float64, deliveryDays int) (bool, error)
	DeleteIfPending(ctx context.Context, id uuid.UUID) (bool, error)
}

// GigReader — чтение заданий, нужное проверкам предусловий по откликам.
type GigReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
}

// BidService инкапсулирует подачу, изменение и отзыв откликов.
type BidService struct {
	bids BidStore
	gigs GigReader
}

// NewBidService создаёт сервис откликов.
func NewBidService(bids BidStore, gigs GigReader) *BidService {
	return &BidService{bids: bids, gigs: gigs}
}

// SubmitBidInput содержит данные нового отклика.
type SubmitBidInput struct {
	GigID         uuid.UUID
	FreelancerID  uuid.UUID
	Message       string
	ProposedPrice float64
	DeliveryDays  int
}

// UpdateBidInput содержит изменяемые поля отклика.
type UpdateBidInput struct {
	Message       string
	ProposedPrice float64
	DeliveryDays  int
}

// Submit создаёт отклик на открытое задание. Предусловия проверяются по
// свежему чтению; сама вставка защищена на уровне базы guard'ом открытости
// задания и уникальным ограничением (gig_id, freelancer_id), так что гонка
// двух одинаковых подач всегда даёт ровно один успех и один ErrDuplicateBid.
func (s *BidService) Submit(ctx context.Context, in SubmitBidInput) (*models.Bid, error) {
	if err := validateBidContent(in.Message, in.ProposedPrice, in.DeliveryDays); err != nil {
		return nil, err
	}

	gig, err := s.gigs.GetByID(ctx, in.GigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать задание")
	}

	if !gig.IsOpen() {
		return nil, apperror.ErrGigNotOpen
	}
	if gig.IsOwnedBy(in.FreelancerID) {
		return nil, apperror.ErrSelfBidForbidden
	}

	bid := &models.Bid{
		GigID:         in.GigID,
		FreelancerID:  in.FreelancerID,
		Message:       in.Message,
		ProposedPrice: in.ProposedPrice,
		DeliveryDays:  in.DeliveryDays,
		Status:        models.BidStatusPending,
	}

	if err := s.bids.Create(ctx, bid); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateBid):
			return nil, apperror.ErrDuplicateBid
		case errors.Is(err, repository.ErrGigNotOpen):
			// Задание закрылось между проверкой предусловий и вставкой.
			return nil, apperror.ErrGigNotOpen
		default:
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать отклик")
		}
	}

	return bid, nil
}

// Update меняет содержимое отклика, пока он pending. Guard по статусу
// вычисляется атомарно на стороне хранилища; проигрыш гонки с наймом
// возвращается как ErrBidAlreadyDecided, запись остаётся нетронутой.
func (s *BidService) Update(ctx context.Context, bidID, actorID uuid.UUID, in UpdateBidInput) (*models.Bid, error) {
	if err := validateBidContent(in.Message, in.ProposedPrice, in.DeliveryDays); err != nil {
		return nil, err
	}

	bid, err := s.getOwnBid(ctx, bidID, actorID)
	if err != nil {
		return nil, err
	}

	updated, err := s.bids.UpdateIfPending(ctx, bid.ID, in.Message, in.ProposedPrice, in.DeliveryDays)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить отклик")
	}
	if !updated {
		return nil, apperror.ErrBidAlreadyDecided
	}

	fresh, err := s.bids.GetByID(ctx, bid.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось перечитать отклик")
	}
	return fresh, nil
}

// Withdraw удаляет отклик условной записью с guard status = 'pending'.
// Если конкурентный найм зафиксировался первым, предикат не выполняется и
// вызов завершается ErrBidAlreadyDecided — никакого тихого «успеха».
func (s *BidService) Withdraw(ctx context.Context, bidID, actorID uuid.UUID) error {
	bid, err := s.getOwnBid(ctx, bidID, actorID)
	if err != nil {
		return err
	}

	deleted, err := s.bids.DeleteIfPending(ctx, bid.ID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отозвать отклик")
	}
	if !deleted {
		return apperror.ErrBidAlreadyDecided
	}
	return nil
}

// ListForGig возвращает отклики на задание; доступно только его владельцу.
func (s *BidService) ListForGig(ctx context.Context, gigID, actorID uuid.UUID) ([]models.Bid, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать задание")
	}
	if !gig.IsOwnedBy(actorID) {
		return nil, apperror.ErrNotGigOwner
	}

	bids, err := s.bids.ListByGig(ctx, gigID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отклики")
	}
	return bids, nil
}

// ListMy возвращает все отклики текущего пользователя.
func (s *BidService) ListMy(ctx context.Context, actorID uuid.UUID) ([]models.Bid, error) {
	bids, err := s.bids.ListByFreelancer(ctx, actorID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отклики")
	}
	return bids, nil
}

// getOwnBid читает отклик и проверяет владельца.
func (s *BidService) getOwnBid(ctx context.Context, bidID, actorID uuid.UUID) (*models.Bid, error) {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, repository.ErrBidNotFound) {
			return nil, apperror.ErrBidNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать отклик")
	}
	if !bid.IsOwnedBy(actorID) {
		return nil, apperror.ErrNotBidOwner
	}
	return bid, nil
}

func validateBidContent(message string, proposedPrice float64, deliveryDays int) error {
	if err := validation.ValidateLength("сообщение", message, validation.MinBidMessageLength, validation.MaxBidMessageLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if proposedPrice < validation.MinPrice {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("цена должна быть не менее %.0f", validation.MinPrice))
	}
	if deliveryDays < validation.MinDeliveryDays {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("срок выполнения должен быть не менее %d дней", validation.MinDeliveryDays))
	}
	return nil
}
