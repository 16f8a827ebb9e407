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

// GigStore описывает зависимости GigService от слоя хранилища.
type GigStore interface {
	Create(ctx context.Context, gig *models.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	List(ctx context.Context, filter repository.GigFilter) ([]models.Gig, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Gig, error)
	UpdateIfOpen(ctx context.Context, gig *models.Gig) (bool, error)
	DeleteIfNotAssigned(ctx context.Context, id uuid.UUID) (bool, error)
}

// GigService инкапсулирует создание, поиск и редактирование заданий.
type GigService struct {
	gigs GigStore
}

// NewGigService создаёт сервис заданий.
func NewGigService(gigs GigStore) *GigService {
	return &GigService{gigs: gigs}
}

// GigInput содержит описательные поля задания.
type GigInput struct {
	Title       string
	Description string
	Budget      float64
	Category    string
	Skills      []string
}

// GigPage — страница списка заданий с общим количеством.
type GigPage struct {
	Gigs  []models.Gig
	Total int
	Page  int
	Limit int
}

// Create публикует новое задание в статусе open.
func (s *GigService) Create(ctx context.Context, ownerID uuid.UUID, in GigInput) (*models.Gig, error) {
	if err := validateGigContent(in); err != nil {
		return nil, err
	}

	gig := &models.Gig{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		Category:    normalizeCategory(in.Category),
		Skills:      in.Skills,
		Status:      models.GigStatusOpen,
	}

	if err := s.gigs.Create(ctx, gig); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать задание")
	}
	return gig, nil
}

// Get возвращает задание по идентификатору.
func (s *GigService) Get(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	gig, err := s.gigs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось прочитать задание")
	}
	return gig, nil
}

// List возвращает страницу заданий по фильтру.
func (s *GigService) List(ctx context.Context, filter repository.GigFilter) (*GigPage, error) {
	if filter.Status != "" {
		if _, ok := models.ValidGigStatuses[filter.Status]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус задания")
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	gigs, total, err := s.gigs.List(ctx, filter)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить список заданий")
	}

	return &GigPage{Gigs: gigs, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ListMy возвращает задания текущего пользователя.
func (s *GigService) ListMy(ctx context.Context, ownerID uuid.UUID) ([]models.Gig, error) {
	gigs, err := s.gigs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить задания")
	}
	return gigs, nil
}

// Update меняет описательные поля задания. Guard status = 'open' вычисляется
// на стороне хранилища: после назначения исполнителя правки невозможны.
func (s *GigService) Update(ctx context.Context, gigID, actorID uuid.UUID, in GigInput) (*models.Gig, error) {
	if err := validateGigContent(in); err != nil {
		return nil, err
	}

	gig, err := s.getOwnGig(ctx, gigID, actorID)
	if err != nil {
		return nil, err
	}

	gig.Title = in.Title
	gig.Description = in.Description
	gig.Budget = in.Budget
	gig.Category = normalizeCategory(in.Category)
	gig.Skills = in.Skills

	updated, err := s.gigs.UpdateIfOpen(ctx, gig)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить задание")
	}
	if !updated {
		return nil, apperror.ErrGigAssigned
	}

	fresh, err := s.gigs.GetByID(ctx, gig.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось перечитать задание")
	}
	return fresh, nil
}

// Delete удаляет задание вместе с откликами, пока исполнитель не назначен.
func (s *GigService) Delete(ctx context.Context, gigID, actorID uuid.UUID) error {
	if _, err := s.getOwnGig(ctx, gigID, actorID); err != nil {
		return err
	}

	deleted, err := s.gigs.DeleteIfNotAssigned(ctx, gigID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить задание")
	}
	if !deleted {
		return apperror.ErrGigAssigned
	}
	return nil
}

// getOwnGig читает задание и проверяет владельца.
func (s *GigService) getOwnGig(ctx context.Context, gigID, actorID uuid.UUID) (*models.Gig, error) {
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
	return gig, nil
}

func validateGigContent(in GigInput) error {
	if err := validation.ValidateLength("название", in.Title, validation.MinGigTitleLength, validation.MaxGigTitleLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание", in.Description, validation.MinGigDescriptionLength, validation.MaxGigDescriptionLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.Budget < validation.MinBudget || in.Budget > validation.MaxBudget {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("бюджет должен быть от %.0f до %.0f", validation.MinBudget, validation.MaxBudget))
	}
	if len(in.Skills) > validation.MaxSkillsCount {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("навыков должно быть не более %d", validation.MaxSkillsCount))
	}
	for _, skill := range in.Skills {
		if err := validation.ValidateLength("навык", skill, 1, validation.MaxSkillLength); err != nil {
			return apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}
	return nil
}

func normalizeCategory(category string) string {
	if category == "" {
		return "General"
	}
	return category
}
