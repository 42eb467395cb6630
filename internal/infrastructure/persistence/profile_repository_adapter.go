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
	"github.com/ignatzorin/freelaav-backend/internal/repository/common"
)

const profileColumns = `id, display_name, email, role, city, state, avatar_url, whatsapp_opt_in, created_at, updated_at`

type ProfileRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProfileRepositoryAdapter(db *sqlx.DB) *ProfileRepositoryAdapter {
	return &ProfileRepositoryAdapter{db: db}
}

func (r *ProfileRepositoryAdapter) Create(ctx context.Context, p *entity.Profile) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO profiles (` + profileColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		if _, err := tx.ExecContext(ctx, query,
			p.ID, p.DisplayName, p.Email, string(p.Role), p.City, p.State,
			p.AvatarURL, p.WhatsAppOptIn, p.CreatedAt, p.UpdatedAt,
		); err != nil {
			return err
		}
		if !p.IsFreelancer() {
			return nil
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO freelancer_profiles (profile_id, updated_at) VALUES ($1, $2)`, p.ID, p.UpdatedAt)
		return err
	})
	if err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.Wrap(err, apperror.ErrCodeConflict, "профиль или email уже существует")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать профиль")
	}
	return nil
}

func (r *ProfileRepositoryAdapter) Update(ctx context.Context, p *entity.Profile) error {
	query := `UPDATE profiles SET display_name = $2, city = $3, state = $4, avatar_url = $5,
		whatsapp_opt_in = $6, updated_at = $7 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.DisplayName, p.City, p.State, p.AvatarURL, p.WhatsAppOptIn, p.UpdatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить профиль")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var row profileRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль")
	}
	return row.toEntity(), nil
}

func (r *ProfileRepositoryAdapter) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error) {
	if len(ids) == 0 {
		return []*entity.Profile{}, nil
	}
	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1::uuid[])`, pq.Array(uuidStrings(ids))); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профили")
	}
	result := make([]*entity.Profile, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type profileRow struct {
	ID            uuid.UUID `db:"id"`
	DisplayName   string    `db:"display_name"`
	Email         string    `db:"email"`
	Role          string    `db:"role"`
	City          string    `db:"city"`
	State         string    `db:"state"`
	AvatarURL     *string   `db:"avatar_url"`
	WhatsAppOptIn bool      `db:"whatsapp_opt_in"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (p *profileRow) toEntity() *entity.Profile {
	return &entity.Profile{
		ID:            p.ID,
		DisplayName:   p.DisplayName,
		Email:         p.Email,
		Role:          valueobject.Role(p.Role),
		City:          p.City,
		State:         p.State,
		AvatarURL:     p.AvatarURL,
		WhatsAppOptIn: p.WhatsAppOptIn,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func toSpecialties(codes pq.StringArray) []valueobject.Specialty {
	out := make([]valueobject.Specialty, 0, len(codes))
	for _, c := range codes {
		out = append(out, valueobject.Specialty(c))
	}
	return out
}

func specialtyStrings(specialties []valueobject.Specialty) []string {
	out := make([]string, len(specialties))
	for i, s := range specialties {
		out[i] = string(s)
	}
	return out
}
