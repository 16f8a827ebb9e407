package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
)

// Ошибки уровня репозитория заданий.
var ErrGigNotFound = errors.New("gig not found")

// GigRepository отвечает за работу с заданиями.
type GigRepository struct {
	db *sqlx.DB
}

// NewGigRepository создаёт новый экземпляр.
func NewGigRepository(db *sqlx.DB) *GigRepository {
	return &GigRepository{db: db}
}

// GigFilter описывает параметры поиска и пагинации списка заданий.
type GigFilter struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// gigRow маппит строку таблицы gigs вместе с массивом навыков.
type gigRow struct {
	models.Gig
	SkillsArr pq.StringArray `db:"skills"`
}

func (r gigRow) toModel() models.Gig {
	g := r.Gig
	g.Skills = []string(r.SkillsArr)
	return g
}

const gigColumns = `id, owner_id, title, description, budget, category, skills, status, hired_bid_id, created_at, updated_at`

// Create сохраняет новое задание в статусе open.
func (r *GigRepository) Create(ctx context.Context, gig *models.Gig) error {
	query := `
		INSERT INTO gigs (owner_id, title, description, budget, category, skills, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		gig.OwnerID, gig.Title, gig.Description, gig.Budget, gig.Category,
		pq.Array(gig.Skills), models.GigStatusOpen,
	).Scan(&gig.ID, &gig.CreatedAt, &gig.UpdatedAt); err != nil {
		return fmt.Errorf("gig repository: create %w", err)
	}

	gig.Status = models.GigStatusOpen
	return nil
}

// GetByID возвращает задание по идентификатору.
func (r *GigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var row gigRow
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGigNotFound
		}
		return nil, fmt.Errorf("gig repository: get by id %w", err)
	}

	gig := row.toModel()
	return &gig, nil
}

// List возвращает страницу заданий с учётом поиска и фильтра по статусу,
// вместе с общим количеством подходящих записей.
func (r *GigRepository) List(ctx context.Context, filter GigFilter) ([]models.Gig, int, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("g.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(g.title ILIKE $%d OR g.description ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM gigs g` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("gig repository: count %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
		SELECT g.id, g.owner_id, g.title, g.description, g.budget, g.category, g.skills,
		       g.status, g.hired_bid_id, g.created_at, g.updated_at,
		       COALESCE(bc.count, 0) AS bids_count
		FROM gigs g
		LEFT JOIN (
			SELECT gig_id, COUNT(*) AS count FROM bids GROUP BY gig_id
		) bc ON bc.gig_id = g.id
		%s
		ORDER BY g.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	var rows []struct {
		gigRow
		BidsCount int `db:"bids_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("gig repository: list %w", err)
	}

	gigs := make([]models.Gig, len(rows))
	for i, row := range rows {
		gig := row.toModel()
		count := row.BidsCount
		gig.BidsCount = &count
		gigs[i] = gig
	}

	return gigs, total, nil
}

// ListByOwner возвращает все задания пользователя.
func (r *GigRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Gig, error) {
	var rows []gigRow
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("gig repository: list by owner %w", err)
	}

	gigs := make([]models.Gig, len(rows))
	for i, row := range rows {
		gigs[i] = row.toModel()
	}
	return gigs, nil
}

// UpdateIfOpen обновляет описательные поля задания условной записью:
// UPDATE проходит только пока задание в статусе open. Возвращает false,
// если предикат не выполнился (задание уже назначено или закрыто).
func (r *GigRepository) UpdateIfOpen(ctx context.Context, gig *models.Gig) (bool, error) {
	query := `
		UPDATE gigs
		SET title = $2, description = $3, budget = $4, category = $5, skills = $6, updated_at = NOW()
		WHERE id = $1 AND status = 'open'
	`
	res, err := r.db.ExecContext(ctx, query,
		gig.ID, gig.Title, gig.Description, gig.Budget, gig.Category, pq.Array(gig.Skills))
	if err != nil {
		return false, fmt.Errorf("gig repository: update %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("gig repository: update rows affected %w", err)
	}
	return affected > 0, nil
}

// DeleteIfNotAssigned удаляет задание, если оно ещё не назначено исполнителю.
// Отклики удаляются каскадом на уровне схемы.
func (r *GigRepository) DeleteIfNotAssigned(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM gigs WHERE id = $1 AND status <> 'assigned'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("gig repository: delete %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("gig repository: delete rows affected %w", err)
	}
	return affected > 0, nil
}
