package memorysrv

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/Abraxas-365/confidant/pkg/ai/embedding"
	"github.com/Abraxas-365/confidant/pkg/ai/retryx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/logx"
	"github.com/Abraxas-365/confidant/pkg/memory"
	"golang.org/x/sync/errgroup"
)

const (
	// similarityThreshold es el coseno mínimo para considerar un hecho relevante
	similarityThreshold = 0.65

	// maxResults limita cuántos hechos se inyectan en el contexto del modelo
	maxResults = 5
)

// MemoryService recupera los hechos confirmados más relevantes para una
// consulta mediante similitud de coseno. La falla de un candidato individual
// lo excluye del resultado sin abortar la recuperación completa.
type MemoryService struct {
	factRepo       memory.FactRepository
	cache          memory.EmbeddingCache
	embedClient    *embedding.Client
	embeddingModel string
	concurrency    int
	retryOpts      []retryx.Option
}

// NewMemoryService crea una nueva instancia del servicio de memoria
func NewMemoryService(
	factRepo memory.FactRepository,
	cache memory.EmbeddingCache,
	embedClient *embedding.Client,
	embeddingModel string,
	concurrency int,
	retryOpts ...retryx.Option,
) *MemoryService {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &MemoryService{
		factRepo:       factRepo,
		cache:          cache,
		embedClient:    embedClient,
		embeddingModel: embeddingModel,
		concurrency:    concurrency,
		retryOpts:      retryOpts,
	}
}

// Retrieve devuelve los hechos confirmados relevantes para la consulta,
// ordenados por similitud descendente, a lo sumo maxResults
func (s *MemoryService) Retrieve(ctx context.Context, ownerID kernel.UserID, req memory.RetrieveRequest) (*memory.RetrieveResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, memory.ErrQueryRequired()
	}

	facts, err := s.factRepo.FindConfirmedByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		return &memory.RetrieveResponse{Facts: []memory.ScoredFact{}}, nil
	}

	queryVec, err := retryx.Do(ctx, func(ctx context.Context) (embedding.Embedding, error) {
		return s.embedClient.EmbedQuery(ctx, req.Query, embedding.WithModel(s.embeddingModel))
	}, s.retryOpts...)
	if err != nil {
		return nil, memory.ErrEmbeddingFailed().WithCause(err)
	}
	if len(queryVec.Vector) == 0 {
		return &memory.RetrieveResponse{Facts: []memory.ScoredFact{}}, nil
	}

	scored := s.scoreCandidates(ctx, facts, queryVec.Vector)

	relevant := make([]memory.ScoredFact, 0, len(scored))
	for _, sf := range scored {
		if sf.Score > similarityThreshold {
			relevant = append(relevant, sf)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Score > relevant[j].Score
	})
	if len(relevant) > maxResults {
		relevant = relevant[:maxResults]
	}

	return &memory.RetrieveResponse{
		Facts: relevant,
		Total: len(relevant),
	}, nil
}

// RelevantFactTexts es la forma que consume el generador de respuestas:
// solo el texto de los hechos relevantes, ya ordenados
func (s *MemoryService) RelevantFactTexts(ctx context.Context, ownerID kernel.UserID, query string) []string {
	resp, err := s.Retrieve(ctx, ownerID, memory.RetrieveRequest{Query: query})
	if err != nil {
		// memory is an enhancement; the conversation continues without it
		logx.WithFields(logx.Fields{
			"owner_id": ownerID.String(),
		}).Warnf("memory retrieval unavailable: %v", err)
		return nil
	}
	texts := make([]string, 0, len(resp.Facts))
	for _, sf := range resp.Facts {
		texts = append(texts, sf.Fact.Text())
	}
	return texts
}

// scoreCandidates calcula la similitud de cada hecho contra la consulta con
// un abanico concurrente acotado. El índice preserva el orden de entrada
// para que el resultado sea determinista.
func (s *MemoryService) scoreCandidates(ctx context.Context, facts []memory.Fact, queryVec []float32) []memory.ScoredFact {
	type slot struct {
		ok     bool
		scored memory.ScoredFact
	}
	slots := make([]slot, len(facts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range facts {
		g.Go(func() error {
			fact := facts[i]
			vec, err := s.factVector(gctx, fact)
			if err != nil {
				logx.WithFields(logx.Fields{
					"fact_id": fact.ID,
				}).Warnf("skipping candidate, embedding failed: %v", err)
				return nil
			}
			score, err := cosineSimilarity(queryVec, vec)
			if err != nil {
				logx.WithFields(logx.Fields{
					"fact_id": fact.ID,
				}).Warnf("skipping candidate, incomparable vectors: %v", err)
				return nil
			}
			slots[i] = slot{ok: true, scored: memory.ScoredFact{Fact: fact, Score: score}}
			return nil
		})
	}
	// workers never return errors; Wait only joins them
	g.Wait()

	scored := make([]memory.ScoredFact, 0, len(facts))
	for _, sl := range slots {
		if sl.ok {
			scored = append(scored, sl.scored)
		}
	}
	return scored
}

// factVector obtiene el embedding de un hecho, pasando por la caché
func (s *MemoryService) factVector(ctx context.Context, fact memory.Fact) ([]float32, error) {
	if s.cache != nil {
		if vec, hit, err := s.cache.Get(ctx, fact.ID); err == nil && hit {
			return vec, nil
		}
	}

	emb, err := retryx.Do(ctx, func(ctx context.Context) (embedding.Embedding, error) {
		return s.embedClient.EmbedQuery(ctx, fact.Text(), embedding.WithModel(s.embeddingModel))
	}, s.retryOpts...)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, fact.ID, emb.Vector); err != nil {
			logx.Warnf("failed to cache fact embedding %s: %v", fact.ID, err)
		}
	}
	return emb.Vector, nil
}

// cosineSimilarity calcula el coseno entre dos vectores de igual dimensión
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, errDimensionMismatch{lenA: len(a), lenB: len(b)}
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

type errDimensionMismatch struct {
	lenA, lenB int
}

func (e errDimensionMismatch) Error() string {
	return "vector dimensions do not match"
}
