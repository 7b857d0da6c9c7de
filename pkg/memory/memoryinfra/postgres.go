package memoryinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/memory"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresFactRepository implementación de PostgreSQL para FactRepository
type PostgresFactRepository struct {
	db *sqlx.DB
}

// NewPostgresFactRepository crea una nueva instancia del repositorio de hechos
func NewPostgresFactRepository(db *sqlx.DB) memory.FactRepository {
	return &PostgresFactRepository{
		db: db,
	}
}

// Save persiste un hecho, asignando ID si no trae uno
func (r *PostgresFactRepository) Save(ctx context.Context, fact memory.Fact) error {
	if fact.ID == "" {
		fact.ID = uuid.NewString()
	}
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO memory_facts (id, owner_id, category, content, status, created_at)
		VALUES (:id, :owner_id, :category, :content, :status, :created_at)
		ON CONFLICT (id) DO UPDATE
		SET category = :category, content = :content, status = :status`

	if _, err := r.db.NamedExecContext(ctx, query, fact); err != nil {
		return errx.Wrap(err, "failed to save memory fact", errx.TypeInternal).
			WithDetail("fact_id", fact.ID).
			WithDetail("owner_id", fact.OwnerID.String())
	}

	return nil
}

// FindConfirmedByOwner devuelve los hechos confirmados del dueño en orden
// de creación, el orden estable que ve el recuperador
func (r *PostgresFactRepository) FindConfirmedByOwner(ctx context.Context, ownerID kernel.UserID) ([]memory.Fact, error) {
	query := `
		SELECT id, owner_id, category, content, status, created_at
		FROM memory_facts
		WHERE owner_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC`

	var facts []memory.Fact
	err := r.db.SelectContext(ctx, &facts, query, ownerID.String(), memory.FactStatusConfirmed)
	if err != nil {
		return nil, errx.Wrap(err, "failed to find confirmed facts", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	return facts, nil
}

// PurgePage borra hasta limit hechos del dueño y devuelve cuántos borró
func (r *PostgresFactRepository) PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error) {
	query := `
		DELETE FROM memory_facts
		WHERE id IN (
			SELECT id FROM memory_facts WHERE owner_id = $1 LIMIT $2
		)`

	result, err := r.db.ExecContext(ctx, query, ownerID.String(), limit)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge memory facts", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	return int(rowsAffected), nil
}
