package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/repository/common"
)

type FreelancerRepositoryAdapter struct {
	db *sqlx.DB
}

func NewFreelancerRepositoryAdapter(db *sqlx.DB) *FreelancerRepositoryAdapter {
	return &FreelancerRepositoryAdapter{db: db}
}

func (r *FreelancerRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.FreelancerProfile, error) {
	var row freelancerRow
	query := `SELECT profile_id, bio, hourly_rate, years_experience, equipment, rating, total_reviews,
		total_jobs, is_pro, profile_strength, updated_at
		FROM freelancer_profiles WHERE profile_id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrFreelancerNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль фрилансера")
	}

	var codes pq.StringArray
	if err := r.db.GetContext(ctx, &codes,
		`SELECT COALESCE(array_agg(specialty ORDER BY created_at, specialty), '{}') FROM freelancer_specialties WHERE freelancer_id = $1`, id,
	); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить специализации")
	}

	f := row.toEntity()
	f.Specialties = toSpecialties(codes)
	return f, nil
}

func (r *FreelancerRepositoryAdapter) UpdateDetails(ctx context.Context, f *entity.FreelancerProfile) error {
	query := `UPDATE freelancer_profiles SET bio = $2, hourly_rate = $3, years_experience = $4,
		equipment = $5, updated_at = $6 WHERE profile_id = $1`
	res, err := r.db.ExecContext(ctx, query, f.ProfileID, f.Bio, f.HourlyRate, f.YearsExperience, f.Equipment, f.UpdatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить профиль фрилансера")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrFreelancerNotFound
	}
	return nil
}

// lockFreelancerRow сериализует пересчёт агрегатов одного фрилансера.
// Для клиента строки нет, и блокировка ничего не делает.
func lockFreelancerRow(ctx context.Context, tx *sqlx.Tx, profileID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `SELECT profile_id FROM freelancer_profiles WHERE profile_id = $1 FOR UPDATE`, profileID)
	return err
}

// ReplaceSpecialties блокирует строку фрилансера и применяет только разницу наборов.
func (r *FreelancerRepositoryAdapter) ReplaceSpecialties(ctx context.Context, freelancerID uuid.UUID, specialties []valueobject.Specialty) (int, int, error) {
	var added, removed []string

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked uuid.UUID
		if err := tx.GetContext(ctx, &locked, `SELECT profile_id FROM freelancer_profiles WHERE profile_id = $1 FOR UPDATE`, freelancerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrFreelancerNotFound
			}
			return err
		}

		var current []string
		if err := tx.SelectContext(ctx, &current, `SELECT specialty FROM freelancer_specialties WHERE freelancer_id = $1`, freelancerID); err != nil {
			return err
		}

		added, removed = diffSpecialties(current, specialtyStrings(specialties))

		if len(removed) > 0 {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM freelancer_specialties WHERE freelancer_id = $1 AND specialty = ANY($2)`,
				freelancerID, pq.Array(removed),
			); err != nil {
				return err
			}
		}

		bi := common.NewBatchInserter(tx, `INSERT INTO freelancer_specialties (freelancer_id, specialty)`, 2, 50)
		for _, s := range added {
			if err := bi.Add(ctx, freelancerID, s); err != nil {
				return err
			}
		}
		if err := bi.Flush(ctx); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `UPDATE freelancer_profiles SET updated_at = NOW() WHERE profile_id = $1`, freelancerID)
		return err
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return 0, 0, err
		}
		return 0, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить специализации")
	}
	return len(added), len(removed), nil
}

func diffSpecialties(current, wanted []string) (added, removed []string) {
	have := make(map[string]struct{}, len(current))
	for _, s := range current {
		have[s] = struct{}{}
	}
	want := make(map[string]struct{}, len(wanted))
	for _, s := range wanted {
		want[s] = struct{}{}
		if _, ok := have[s]; !ok {
			added = append(added, s)
		}
	}
	for _, s := range current {
		if _, ok := want[s]; !ok {
			removed = append(removed, s)
		}
	}
	return added, removed
}

func (r *FreelancerRepositoryAdapter) UpdateStrength(ctx context.Context, freelancerID uuid.UUID, strength int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE freelancer_profiles SET profile_strength = $2 WHERE profile_id = $1`, freelancerID, strength)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить заполненность профиля")
	}
	return nil
}

// Search применяет индексируемые предикаты; город, штат и текст фильтруются выше.
func (r *FreelancerRepositoryAdapter) Search(ctx context.Context, q repository.FreelancerQuery) ([]*entity.FreelancerSummary, error) {
	where := ` WHERE p.role = 'freelancer'`
	args := []any{}
	argNum := 1

	if q.MinRating != nil {
		where += fmt.Sprintf(" AND f.rating >= $%d", argNum)
		args = append(args, *q.MinRating)
		argNum++
	}
	if q.Price.Min != nil {
		where += fmt.Sprintf(" AND f.hourly_rate >= $%d", argNum)
		args = append(args, *q.Price.Min)
		argNum++
	}
	if q.Price.Max != nil {
		where += fmt.Sprintf(" AND f.hourly_rate <= $%d", argNum)
		args = append(args, *q.Price.Max)
		argNum++
	}
	if len(q.Specialties) > 0 {
		where += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM freelancer_specialties fs
			WHERE fs.freelancer_id = f.profile_id AND fs.specialty = ANY($%d))`, argNum)
		args = append(args, pq.Array(specialtyStrings(q.Specialties)))
		argNum++
	}
	if q.AvailableDate != nil {
		where += fmt.Sprintf(` AND NOT EXISTS (SELECT 1 FROM bookings b
			WHERE b.freelancer_id = f.profile_id AND b.event_date = $%d::date
			AND b.status IN ('confirmed', 'in_progress'))`, argNum)
		args = append(args, q.AvailableDate.Format(time.DateOnly))
	}

	query := `SELECT p.id, p.display_name, p.city, p.state, p.avatar_url,
		f.bio, f.hourly_rate, f.years_experience, f.rating, f.total_reviews, f.total_jobs,
		f.is_pro, f.profile_strength,
		COALESCE(array_agg(s.specialty ORDER BY s.specialty) FILTER (WHERE s.specialty IS NOT NULL), '{}') AS specialties
		FROM freelancer_profiles f
		JOIN profiles p ON p.id = f.profile_id
		LEFT JOIN freelancer_specialties s ON s.freelancer_id = f.profile_id` +
		where + ` GROUP BY p.id, f.profile_id`

	var rows []freelancerSummaryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeSearchFailed, "не удалось выполнить поиск фрилансеров")
	}

	result := make([]*entity.FreelancerSummary, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type freelancerRow struct {
	ProfileID       uuid.UUID `db:"profile_id"`
	Bio             string    `db:"bio"`
	HourlyRate      *float64  `db:"hourly_rate"`
	YearsExperience int       `db:"years_experience"`
	Equipment       string    `db:"equipment"`
	Rating          float64   `db:"rating"`
	TotalReviews    int       `db:"total_reviews"`
	TotalJobs       int       `db:"total_jobs"`
	IsPro           bool      `db:"is_pro"`
	ProfileStrength int       `db:"profile_strength"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (f *freelancerRow) toEntity() *entity.FreelancerProfile {
	return &entity.FreelancerProfile{
		ProfileID:       f.ProfileID,
		Bio:             f.Bio,
		HourlyRate:      f.HourlyRate,
		YearsExperience: f.YearsExperience,
		Equipment:       f.Equipment,
		Rating:          f.Rating,
		TotalReviews:    f.TotalReviews,
		TotalJobs:       f.TotalJobs,
		IsPro:           f.IsPro,
		ProfileStrength: f.ProfileStrength,
		UpdatedAt:       f.UpdatedAt,
	}
}

type freelancerSummaryRow struct {
	ID              uuid.UUID      `db:"id"`
	DisplayName     string         `db:"display_name"`
	City            string         `db:"city"`
	State           string         `db:"state"`
	AvatarURL       *string        `db:"avatar_url"`
	Bio             string         `db:"bio"`
	HourlyRate      *float64       `db:"hourly_rate"`
	YearsExperience int            `db:"years_experience"`
	Rating          float64        `db:"rating"`
	TotalReviews    int            `db:"total_reviews"`
	TotalJobs       int            `db:"total_jobs"`
	IsPro           bool           `db:"is_pro"`
	ProfileStrength int            `db:"profile_strength"`
	Specialties     pq.StringArray `db:"specialties"`
}

func (f *freelancerSummaryRow) toEntity() *entity.FreelancerSummary {
	return &entity.FreelancerSummary{
		ID:              f.ID,
		DisplayName:     f.DisplayName,
		City:            f.City,
		State:           f.State,
		AvatarURL:       f.AvatarURL,
		Bio:             f.Bio,
		HourlyRate:      f.HourlyRate,
		YearsExperience: f.YearsExperience,
		Rating:          f.Rating,
		TotalReviews:    f.TotalReviews,
		TotalJobs:       f.TotalJobs,
		IsPro:           f.IsPro,
		ProfileStrength: f.ProfileStrength,
		Specialties:     toSpecialties(f.Specialties),
	}
}
