package chatinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Abraxas-365/confidant/pkg/chat"
	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresSessionRepository implementación de PostgreSQL para SessionRepository
type PostgresSessionRepository struct {
	db *sqlx.DB
}

// NewPostgresSessionRepository crea una nueva instancia del repositorio de sesiones
func NewPostgresSessionRepository(db *sqlx.DB) chat.SessionRepository {
	return &PostgresSessionRepository{
		db: db,
	}
}

// FindByIDAndOwner busca una sesión del dueño dado
func (r *PostgresSessionRepository) FindByIDAndOwner(ctx context.Context, id kernel.SessionID, ownerID kernel.UserID) (*chat.Session, error) {
	query := `
		SELECT id, owner_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE id = $1 AND owner_id = $2`

	var s chat.Session
	err := r.db.GetContext(ctx, &s, query, id.String(), ownerID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, chat.ErrSessionNotFound().WithDetail("session_id", id.String())
		}
		return nil, errx.Wrap(err, "failed to find chat session", errx.TypeInternal).
			WithDetail("session_id", id.String())
	}

	return &s, nil
}

// SetTitle persiste el título generado de la sesión
func (r *PostgresSessionRepository) SetTitle(ctx context.Context, id kernel.SessionID, ownerID kernel.UserID, title string) error {
	query := `
		UPDATE chat_sessions
		SET title = $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id.String(), ownerID.String(), title)
	if err != nil {
		return errx.Wrap(err, "failed to set session title", errx.TypeInternal).
			WithDetail("session_id", id.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return chat.ErrSessionNotFound().WithDetail("session_id", id.String())
	}

	return nil
}

// PurgePage borra hasta limit sesiones del dueño y devuelve cuántas borró
func (r *PostgresSessionRepository) PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error) {
	query := `
		DELETE FROM chat_sessions
		WHERE id IN (
			SELECT id FROM chat_sessions WHERE owner_id = $1 LIMIT $2
		)`

	result, err := r.db.ExecContext(ctx, query, ownerID.String(), limit)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge chat sessions", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	return int(rowsAffected), nil
}

// ============================================================================
// Message Repository
// ============================================================================

// PostgresMessageRepository implementación de PostgreSQL para MessageRepository
type PostgresMessageRepository struct {
	db *sqlx.DB
}

// NewPostgresMessageRepository crea una nueva instancia del repositorio de mensajes
func NewPostgresMessageRepository(db *sqlx.DB) chat.MessageRepository {
	return &PostgresMessageRepository{
		db: db,
	}
}

// FindBySession devuelve los mensajes de la sesión en orden cronológico
func (r *PostgresMessageRepository) FindBySession(ctx context.Context, sessionID kernel.SessionID, ownerID kernel.UserID) ([]chat.Message, error) {
	query := `
		SELECT id, session_id, owner_id, sender, content, created_at
		FROM chat_messages
		WHERE session_id = $1 AND owner_id = $2
		ORDER BY created_at ASC, id ASC`

	var messages []chat.Message
	err := r.db.SelectContext(ctx, &messages, query, sessionID.String(), ownerID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to find session messages", errx.TypeInternal).
			WithDetail("session_id", sessionID.String())
	}

	return messages, nil
}

// Save persiste un mensaje, asignando ID si no trae uno
func (r *PostgresMessageRepository) Save(ctx context.Context, msg chat.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO chat_messages (id, session_id, owner_id, sender, content, created_at)
		VALUES (:id, :session_id, :owner_id, :sender, :content, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return errx.Wrap(err, "failed to save chat message", errx.TypeInternal).
			WithDetail("message_id", msg.ID).
			WithDetail("session_id", msg.SessionID.String())
	}

	return nil
}

// PurgePage borra hasta limit mensajes del dueño y devuelve cuántos borró
func (r *PostgresMessageRepository) PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error) {
	query := `
		DELETE FROM chat_messages
		WHERE id IN (
			SELECT id FROM chat_messages WHERE owner_id = $1 LIMIT $2
		)`

	result, err := r.db.ExecContext(ctx, query, ownerID.String(), limit)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge chat messages", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	return int(rowsAffected), nil
}
