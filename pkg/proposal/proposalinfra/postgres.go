package proposalinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/proposal"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresProposalRepository implementación de PostgreSQL para Repository
type PostgresProposalRepository struct {
	db *sqlx.DB
}

// NewPostgresProposalRepository crea una nueva instancia del repositorio de propuestas
func NewPostgresProposalRepository(db *sqlx.DB) proposal.Repository {
	return &PostgresProposalRepository{
		db: db,
	}
}

// SaveBatch persiste un lote de propuestas, asignando IDs a las que no
// traen uno
func (r *PostgresProposalRepository) SaveBatch(ctx context.Context, proposals []proposal.PendingProposal) error {
	if len(proposals) == 0 {
		return nil
	}

	query := `
		INSERT INTO pending_proposals (
			id, owner_id, point, source_field, operation, value, status, created_at
		) VALUES (
			:id, :owner_id, :point, :source_field, :operation, :value, :status, :created_at
		)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin proposals transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	now := time.Now()
	for i := range proposals {
		if proposals[i].ID == "" {
			proposals[i].ID = uuid.NewString()
		}
		if proposals[i].CreatedAt.IsZero() {
			proposals[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, proposals[i]); err != nil {
			return errx.Wrap(err, "failed to save proposal", errx.TypeInternal).
				WithDetail("proposal_id", proposals[i].ID).
				WithDetail("owner_id", proposals[i].OwnerID.String())
		}
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit proposals transaction", errx.TypeInternal)
	}

	return nil
}

// FindByIDAndOwner busca una propuesta del dueño dado. La ausencia y la
// falta de permiso son indistinguibles desde fuera.
func (r *PostgresProposalRepository) FindByIDAndOwner(ctx context.Context, id string, ownerID kernel.UserID) (*proposal.PendingProposal, error) {
	query := `
		SELECT id, owner_id, point, source_field, operation, value, status, created_at
		FROM pending_proposals
		WHERE id = $1 AND owner_id = $2`

	var p proposal.PendingProposal
	err := r.db.GetContext(ctx, &p, query, id, ownerID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, proposal.ErrProposalNotFound().WithDetail("proposal_id", id)
		}
		return nil, errx.Wrap(err, "failed to find proposal", errx.TypeInternal).
			WithDetail("proposal_id", id)
	}

	return &p, nil
}

// Delete borra una propuesta del dueño; cero filas afectadas significa que
// ya fue consumida
func (r *PostgresProposalRepository) Delete(ctx context.Context, id string, ownerID kernel.UserID) error {
	query := `DELETE FROM pending_proposals WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete proposal", errx.TypeInternal).
			WithDetail("proposal_id", id)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return proposal.ErrProposalNotFound().WithDetail("proposal_id", id)
	}

	return nil
}

// PurgePage borra hasta limit propuestas del dueño y devuelve cuántas borró
func (r *PostgresProposalRepository) PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error) {
	query := `
		DELETE FROM pending_proposals
		WHERE id IN (
			SELECT id FROM pending_proposals WHERE owner_id = $1 LIMIT $2
		)`

	result, err := r.db.ExecContext(ctx, query, ownerID.String(), limit)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge proposals", errx.TypeInternal).
			WithDetail("owner_id", ownerID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	return int(rowsAffected), nil
}
