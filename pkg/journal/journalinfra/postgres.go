package journalinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/journal"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresJournalRepository implementación de PostgreSQL para Repository
type PostgresJournalRepository struct {
	db *sqlx.DB
}

// NewPostgresJournalRepository crea una nueva instancia del repositorio de diario
func NewPostgresJournalRepository(db *sqlx.DB) journal.Repository {
	return &PostgresJournalRepository{
		db: db,
	}
}

// FindByIDAndOwner busca una entrada del dueño dado
func (r *PostgresJournalRepository) FindByIDAndOwner(ctx context.Context, id string, ownerID kernel.UserID) (*journal.Entry, error) {
	query := `
		SELECT id, owner_id, title, content, created_at, updated_at
		FROM journal_entries
		WHERE id = $1 AND owner_id = $2`

	var e journal.Entry
	err := r.db.GetContext(ctx, &e, query, id, ownerID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, journal.ErrEntryNotFound().WithDetail("entry_id", id)
		}
		return nil, errx.Wrap(err, "failed to find journal entry", errx.TypeInternal).
			WithDetail("entry_id", id)
	}

	return &e, nil
}

// SetTitle persiste el título generado de la entrada
func (r *PostgresJournalRepository) SetTitle(ctx context.Context, id string, ownerID kernel.UserID, title string) error {
	query := `
		UPDATE journal_entries
		SET title = $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID.String(), title)
	if err != nil {
		return errx.Wrap(err, "failed to set entry title", errx.TypeInternal).
			WithDetail("entry_id", id)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return journal.ErrEntryNotFound().WithDetail("entry_id", id)
	}

	return nil
}

// PurgePage borra hasta limit entradas del dueño y devuelve cuántas borró
func (r *PostgresJournalRepository) PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error) {
	query := `
		DELETE FROM journal_entries
		WHERE id IN (
			SELECT id FROM journal_entries WHERE owner_id = $1 LIMIT $2
		)`

	result, err := r.db.ExecContext(ctx, query, ownerID.String(), limit)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge journal entries", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	return int(rowsAffected), nil
}
