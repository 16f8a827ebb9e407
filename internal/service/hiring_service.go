package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
)

// HiringStore описывает зависимости координатора найма от слоя хранилища:
// чтение по идентификатору плюс условные записи протокола (repository.HireUnit).
type HiringStore interface {
	repository.HireUnit
	GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error)
}

// HiringTransactor — опциональная способность хранилища применять условные
// записи протокола как одну многозаписную транзакцию. Хранилище без неё
// обслуживается последовательным режимом с более слабой гарантией.
type HiringTransactor interface {
	WithinHire(ctx context.Context, fn func(repository.HireUnit) error) error
}

// HiringService — координатор протокола найма. Единственный компонент,
// которому разрешено выводить задание из статуса open и менять статус
// откликов после создания.
type HiringService struct {
	store HiringStore
}

// NewHiringService создаёт координатор.
func NewHiringService(store HiringStore) *HiringService {
	return &HiringService{store: store}
}

// Hire назначает задание на отклик bidID от имени actorID.
//
// Шаг 1 — свежее чтение отклика и его задания, проверка владельца.
// Шаг 2 — арбитраж: CAS по заданию (status open -> assigned). Ровно один из
// конкурентных вызовов проходит guard; остальные получают ErrAlreadyAssigned
// без каких-либо записей. Повторный Hire после успешного — тоже
// ErrAlreadyAssigned, поэтому ретраи после таймаута безопасны.
// Шаг 3 — каскад победителя: выигравший отклик -> hired, остальные
// pending -> rejected. С транзакционным хранилищем CAS и каскад фиксируются
// или откатываются целиком; без него каскад применяется последовательно, и
// неподтверждённый каскад после зафиксированного CAS отдаётся как
// ErrPartialHire — это заведомо более слабая гарантия, лечится фоновой сверкой.
// Шаг 4 — итоговое состояние нанятого отклика перечитывается из хранилища.
func (s *HiringService) Hire(ctx context.Context, bidID, actorID uuid.UUID) (*models.Bid, error) {
	bid, err := s.store.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, repository.ErrBidNotFound) {
			return nil, apperror.ErrBidNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать отклик")
	}

	gig, err := s.store.GetGig(ctx, bid.GigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			// Отклик без задания — нарушение целостности, а не ошибка вызова.
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "задание отклика не найдено")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать задание")
	}

	if !gig.IsOwnedBy(actorID) {
		return nil, apperror.ErrNotGigOwner
	}

	if tx, ok := s.store.(HiringTransactor); ok {
		err = s.hireTransactional(ctx, tx, gig.ID, bid.ID)
	} else {
		err = s.hireSequential(ctx, gig.ID, bid.ID)
	}
	if err != nil {
		return nil, err
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"gig_id": gig.ID,
			"bid_id": bid.ID,
		}).Info("gig assigned")
	}

	hired, err := s.store.GetBid(ctx, bid.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось перечитать отклик")
	}
	return hired, nil
}

// hireTransactional применяет CAS и каскад как одну единицу: любой сбой после
// CAS откатывает всё, задание возвращается в open, инварианты не нарушаются
// даже на мгновение.
func (s *HiringService) hireTransactional(ctx context.Context, tx HiringTransactor, gigID, bidID uuid.UUID) error {
	err := tx.WithinHire(ctx, func(u repository.HireUnit) error {
		assigned, err := u.AssignGigIfOpen(ctx, gigID, bidID)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось назначить задание")
		}
		if !assigned {
			return apperror.ErrAlreadyAssigned
		}

		hired, err := u.MarkBidHired(ctx, bidID)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить отклик нанятым")
		}
		if !hired {
			// Отклик исчез между чтением и CAS: конкурентный отзыв успел
			// зафиксироваться первым. Откат вернёт задание в open.
			return apperror.ErrBidNotFound
		}

		if _, err := u.RejectPendingBids(ctx, gigID, bidID); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отклонить остальные отклики")
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		// Сбой фиксации транзакции: единица отката целиком, наружу — Internal.
		return apperror.Wrap(err, apperror.ErrCodeInternal, "транзакция найма не зафиксирована")
	}
	return nil
}

// hireSequential — режим для хранилищ с атомарностью только на уровне
// отдельной записи: после выигранного CAS каскад применяется как
// последовательные условные записи без пути отката.
func (s *HiringService) hireSequential(ctx context.Context, gigID, bidID uuid.UUID) error {
	assigned, err := s.store.AssignGigIfOpen(ctx, gigID, bidID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось назначить задание")
	}
	if !assigned {
		return apperror.ErrAlreadyAssigned
	}

	hired, err := s.store.MarkBidHired(ctx, bidID)
	if err != nil || !hired {
		// CAS по заданию уже зафиксирован, а статус отклика подтвердить не
		// удалось: окно, в котором задание assigned при недорешённых откликах.
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"gig_id": gigID,
				"bid_id": bidID,
			}).Error("hire cascade unconfirmed after gig assignment")
		}
		return apperror.ErrPartialHire
	}

	if _, err := s.store.RejectPendingBids(ctx, gigID, bidID); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"gig_id": gigID,
				"bid_id": bidID,
			}).Error("bid rejection cascade unconfirmed")
		}
		return apperror.ErrPartialHire
	}

	return nil
}
