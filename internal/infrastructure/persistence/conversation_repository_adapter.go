package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type ConversationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewConversationRepositoryAdapter(db *sqlx.DB) *ConversationRepositoryAdapter {
	return &ConversationRepositoryAdapter{db: db}
}

// Ensure идемпотентен: при гонке двух участников остаётся одна беседа на предложение.
func (r *ConversationRepositoryAdapter) Ensure(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, error) {
	query := `INSERT INTO conversations (id, offer_id, client_id, freelancer_id, created_at)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (offer_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, conv.ID, conv.OfferID, conv.ClientID, conv.FreelancerID, conv.CreatedAt); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать беседу")
	}
	return r.FindByOfferID(ctx, conv.OfferID)
}

func (r *ConversationRepositoryAdapter) FindByOfferID(ctx context.Context, offerID uuid.UUID) (*entity.Conversation, error) {
	var c conversationRow
	query := `SELECT id, offer_id, client_id, freelancer_id, created_at FROM conversations WHERE offer_id = $1`
	if err := r.db.GetContext(ctx, &c, query, offerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить беседу")
	}
	return c.toEntity(), nil
}

type conversationRow struct {
	ID           uuid.UUID `db:"id"`
	OfferID      uuid.UUID `db:"offer_id"`
	ClientID     uuid.UUID `db:"client_id"`
	FreelancerID uuid.UUID `db:"freelancer_id"`
	CreatedAt    time.Time `db:"created_at"`
}

func (c *conversationRow) toEntity() *entity.Conversation {
	return &entity.Conversation{
		ID:           c.ID,
		OfferID:      c.OfferID,
		ClientID:     c.ClientID,
		FreelancerID: c.FreelancerID,
		CreatedAt:    c.CreatedAt,
	}
}

type MessageRepositoryAdapter struct {
	db *sqlx.DB
}

func NewMessageRepositoryAdapter(db *sqlx.DB) *MessageRepositoryAdapter {
	return &MessageRepositoryAdapter{db: db}
}

func (r *MessageRepositoryAdapter) Create(ctx context.Context, msg *entity.Message) error {
	query := `INSERT INTO messages (id, conversation_id, sender_id, content, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, msg.ID, msg.ConversationID, msg.SenderID, msg.Content, msg.CreatedAt); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать сообщение")
	}
	return nil
}

func (r *MessageRepositoryAdapter) ListByConversation(ctx context.Context, conversationID uuid.UUID, after *time.Time, limit int) ([]*entity.Message, error) {
	query := `SELECT id, conversation_id, sender_id, content, created_at FROM messages WHERE conversation_id = $1`
	args := []any{conversationID}
	if after != nil {
		query += ` AND created_at > $2 ORDER BY created_at ASC LIMIT $3`
		args = append(args, *after, limit)
	} else {
		query += ` ORDER BY created_at ASC LIMIT $2`
		args = append(args, limit)
	}

	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить сообщения")
	}
	result := make([]*entity.Message, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type messageRow struct {
	ID             uuid.UUID `db:"id"`
	ConversationID uuid.UUID `db:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
}

func (m *messageRow) toEntity() *entity.Message {
	return &entity.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}
