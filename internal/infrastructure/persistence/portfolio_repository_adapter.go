package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const portfolioColumns = `id, freelancer_id, title, description, media_url, media_kind, display_order, created_at`

type PortfolioRepositoryAdapter struct {
	db *sqlx.DB
}

func NewPortfolioRepositoryAdapter(db *sqlx.DB) *PortfolioRepositoryAdapter {
	return &PortfolioRepositoryAdapter{db: db}
}

func (r *PortfolioRepositoryAdapter) Create(ctx context.Context, item *entity.PortfolioItem) error {
	query := `INSERT INTO portfolio_items (` + portfolioColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.FreelancerID, item.Title, item.Description, item.MediaURL,
		string(item.MediaKind), item.DisplayOrder, item.CreatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось добавить работу в портфолио")
	}
	return nil
}

func (r *PortfolioRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.PortfolioItem, error) {
	var row portfolioRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+portfolioColumns+` FROM portfolio_items WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить работу портфолио")
	}
	return row.toEntity(), nil
}

func (r *PortfolioRepositoryAdapter) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.PortfolioItem, error) {
	var rows []portfolioRow
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_items WHERE freelancer_id = $1 ORDER BY display_order, created_at`
	if err := r.db.SelectContext(ctx, &rows, query, freelancerID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить портфолио")
	}
	result := make([]*entity.PortfolioItem, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *PortfolioRepositoryAdapter) MaxDisplayOrder(ctx context.Context, freelancerID uuid.UUID) (int, error) {
	var maxOrder int
	if err := r.db.GetContext(ctx, &maxOrder, `SELECT COALESCE(MAX(display_order), 0) FROM portfolio_items WHERE freelancer_id = $1`, freelancerID); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить порядок портфолио")
	}
	return maxOrder, nil
}

func (r *PortfolioRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM portfolio_items WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить работу портфолио")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrPortfolioNotFound
	}
	return nil
}

func (r *PortfolioRepositoryAdapter) Reorder(ctx context.Context, freelancerID uuid.UUID, ids []uuid.UUID) error {
	query := `UPDATE portfolio_items p SET display_order = v.ord
		FROM unnest($2::uuid[]) WITH ORDINALITY AS v(id, ord)
		WHERE p.id = v.id AND p.freelancer_id = $1`
	if _, err := r.db.ExecContext(ctx, query, freelancerID, pq.Array(uuidStrings(ids))); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось изменить порядок портфолио")
	}
	return nil
}

type portfolioRow struct {
	ID           uuid.UUID `db:"id"`
	FreelancerID uuid.UUID `db:"freelancer_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	MediaURL     string    `db:"media_url"`
	MediaKind    string    `db:"media_kind"`
	DisplayOrder int       `db:"display_order"`
	CreatedAt    time.Time `db:"created_at"`
}

func (p *portfolioRow) toEntity() *entity.PortfolioItem {
	return &entity.PortfolioItem{
		ID:           p.ID,
		FreelancerID: p.FreelancerID,
		Title:        p.Title,
		Description:  p.Description,
		MediaURL:     p.MediaURL,
		MediaKind:    valueobject.MediaKind(p.MediaKind),
		DisplayOrder: p.DisplayOrder,
		CreatedAt:    p.CreatedAt,
	}
}
