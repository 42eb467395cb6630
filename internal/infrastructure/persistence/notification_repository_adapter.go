package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/repository/common"
)

type NotificationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewNotificationRepositoryAdapter(db *sqlx.DB) *NotificationRepositoryAdapter {
	return &NotificationRepositoryAdapter{db: db}
}

func (r *NotificationRepositoryAdapter) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		bi := common.NewBatchInserter(tx, `INSERT INTO notifications (id, user_id, event, payload, is_read, created_at)`, 6, 100)
		for _, n := range notifications {
			payload, err := json.Marshal(n.Payload)
			if err != nil {
				return err
			}
			if err := bi.Add(ctx, n.ID, n.UserID, string(n.Event), payload, n.IsRead, n.CreatedAt); err != nil {
				return err
			}
		}
		return bi.Flush(ctx)
	})
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить уведомления")
	}
	return nil
}

func (r *NotificationRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entity.Notification, int, error) {
	where := ` FROM notifications WHERE user_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+where, userID); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать уведомления")
	}

	var rows []notificationRow
	query := `SELECT id, user_id, event, payload, is_read, created_at` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить уведомления")
	}

	result := make([]*entity.Notification, 0, len(rows))
	for i := range rows {
		n, err := rows[i].toEntity()
		if err != nil {
			return nil, 0, apperror.Wrap(err, apperror.ErrCodeInternal, "повреждённое уведомление")
		}
		result = append(result, n)
	}
	return result, total, nil
}

func (r *NotificationRepositoryAdapter) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать уведомления")
	}
	return n, nil
}

func (r *NotificationRepositoryAdapter) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить уведомление")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryAdapter) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить уведомления")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type notificationRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Event     string    `db:"event"`
	Payload   []byte    `db:"payload"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

func (n *notificationRow) toEntity() (*entity.Notification, error) {
	var payload map[string]any
	if len(n.Payload) > 0 {
		if err := json.Unmarshal(n.Payload, &payload); err != nil {
			return nil, err
		}
	}
	return &entity.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Event:     entity.EventType(n.Event),
		Payload:   payload,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}, nil
}
