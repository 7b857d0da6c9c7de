package accountsrv

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/confidant/pkg/chat"
	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/journal"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/logx"
	"github.com/Abraxas-365/confidant/pkg/memory"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/Abraxas-365/confidant/pkg/proposal"
)

const (
	// purgeBatchSize acota cada DELETE para no retener locks largos
	purgeBatchSize = 100

	// maxPurgeIterations corta el bucle si una colección no converge
	maxPurgeIterations = 1000
)

var ErrRegistry = errx.NewRegistry("ACCOUNT")

var CodePurgeIncomplete = ErrRegistry.Register("PURGE_INCOMPLETE", errx.TypeInternal, http.StatusInternalServerError, "No se pudo completar el borrado de la cuenta")

// PurgeResponse resume cuántos registros se eliminaron por colección
type PurgeResponse struct {
	Deleted map[string]int `json:"deleted"`
}

// pager es cualquier repositorio que sabe borrar por páginas
type pager interface {
	PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error)
}

// AccountService borra todos los datos de un usuario. El borrado procede por
// lotes acotados, colección por colección, y es idempotente: repetirlo sobre
// una cuenta ya vacía no falla.
type AccountService struct {
	profileRepo  profile.Repository
	settingsRepo profile.SettingsRepository
	proposalRepo proposal.Repository
	sessionRepo  chat.SessionRepository
	messageRepo  chat.MessageRepository
	journalRepo  journal.Repository
	factRepo     memory.FactRepository
	cache        memory.EmbeddingCache
}

// NewAccountService crea una nueva instancia del servicio de cuenta
func NewAccountService(
	profileRepo profile.Repository,
	settingsRepo profile.SettingsRepository,
	proposalRepo proposal.Repository,
	sessionRepo chat.SessionRepository,
	messageRepo chat.MessageRepository,
	journalRepo journal.Repository,
	factRepo memory.FactRepository,
	cache memory.EmbeddingCache,
) *AccountService {
	return &AccountService{
		profileRepo:  profileRepo,
		settingsRepo: settingsRepo,
		proposalRepo: proposalRepo,
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		journalRepo:  journalRepo,
		factRepo:     factRepo,
		cache:        cache,
	}
}

// Purge elimina todos los datos del usuario
func (s *AccountService) Purge(ctx context.Context, ownerID kernel.UserID) (*PurgeResponse, error) {
	// drop cached embeddings first so a partial purge never serves stale vectors
	if s.cache != nil {
		facts, err := s.factRepo.FindConfirmedByOwner(ctx, ownerID)
		if err == nil && len(facts) > 0 {
			ids := make([]string, len(facts))
			for i, f := range facts {
				ids[i] = f.ID
			}
			if err := s.cache.Delete(ctx, ids...); err != nil {
				logx.Warnf("failed to drop cached embeddings for %s: %v", ownerID.String(), err)
			}
		}
	}

	if err := s.profileRepo.Delete(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Delete(ctx, ownerID); err != nil {
		return nil, err
	}

	deleted := make(map[string]int)
	collections := []struct {
		name string
		repo pager
	}{
		{"proposals", s.proposalRepo},
		{"messages", s.messageRepo},
		{"sessions", s.sessionRepo},
		{"journal_entries", s.journalRepo},
		{"memory_facts", s.factRepo},
	}

	for _, col := range collections {
		total, err := s.purgeCollection(ctx, col.repo, ownerID)
		if err != nil {
			return nil, err
		}
		deleted[col.name] = total
	}

	logx.WithFields(logx.Fields{
		"owner_id": ownerID.String(),
	}).Info("account purged")

	return &PurgeResponse{Deleted: deleted}, nil
}

// purgeCollection borra en lotes hasta vaciar la colección o agotar el
// presupuesto de iteraciones
func (s *AccountService) purgeCollection(ctx context.Context, repo pager, ownerID kernel.UserID) (int, error) {
	total := 0
	for i := 0; i < maxPurgeIterations; i++ {
		n, err := repo.PurgePage(ctx, ownerID, purgeBatchSize)
		if err != nil {
			return total, err
		}
		total += n
		if n < purgeBatchSize {
			return total, nil
		}
	}
	return total, ErrRegistry.New(CodePurgeIncomplete).
		WithDetail("owner_id", ownerID.String()).
		WithDetail("deleted_so_far", total)
}
