package memorysrv

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/Abraxas-365/confidant/pkg/ai/embedding"
	"github.com/Abraxas-365/confidant/pkg/ai/retryx"
	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

// mapEmbedder returns a fixed vector per text; unknown texts fail
type mapEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (m *mapEmbedder) EmbedQuery(ctx context.Context, text string, opts ...embedding.Option) (embedding.Embedding, error) {
	m.calls++
	vec, ok := m.vectors[text]
	if !ok {
		return embedding.Embedding{}, errors.New("embedding unavailable for text")
	}
	return embedding.Embedding{Vector: vec}, nil
}

func (m *mapEmbedder) EmbedDocuments(ctx context.Context, documents []string, opts ...embedding.Option) ([]embedding.Embedding, error) {
	out := make([]embedding.Embedding, 0, len(documents))
	for _, doc := range documents {
		emb, err := m.EmbedQuery(ctx, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, emb)
	}
	return out, nil
}

type fakeFactRepo struct {
	facts []memory.Fact
}

func (f *fakeFactRepo) Save(ctx context.Context, fact memory.Fact) error { return nil }

func (f *fakeFactRepo) FindConfirmedByOwner(ctx context.Context, ownerID kernel.UserID) ([]memory.Fact, error) {
	return f.facts, nil
}

func (f *fakeFactRepo) PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error) {
	return 0, nil
}

type memCache struct {
	vectors map[string][]float32
	hits    int
}

func newMemCache() *memCache {
	return &memCache{vectors: make(map[string][]float32)}
}

func (c *memCache) Get(ctx context.Context, factID string) ([]float32, bool, error) {
	vec, ok := c.vectors[factID]
	if ok {
		c.hits++
	}
	return vec, ok, nil
}

func (c *memCache) Set(ctx context.Context, factID string, vector []float32) error {
	c.vectors[factID] = vector
	return nil
}

func (c *memCache) Delete(ctx context.Context, factIDs ...string) error {
	for _, id := range factIDs {
		delete(c.vectors, id)
	}
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

var testOwner = kernel.NewUserID("user-1")

// unitVector builds a 2D unit vector whose cosine against [1,0] is cos
func unitVector(cos float64) []float32 {
	sin := math.Sqrt(1 - cos*cos)
	return []float32{float32(cos), float32(sin)}
}

func instantRetry() retryx.Option {
	return retryx.WithSleeper(func(ctx context.Context, d time.Duration) {})
}

func newRetriever(embedder *mapEmbedder, repo *fakeFactRepo, cache memory.EmbeddingCache) *MemoryService {
	return NewMemoryService(repo, cache, embedding.NewClient(embedder), "test-embed", 4, instantRetry())
}

// ============================================================================
// Tests
// ============================================================================

func TestRetrieveFiltersByThresholdAndOrdersDescending(t *testing.T) {
	scores := []float64{0.9, 0.72, 0.66, 0.5, 0.3}
	embedder := &mapEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	repo := &fakeFactRepo{}
	for i, score := range scores {
		content := fmt.Sprintf("fact-%d", i)
		repo.facts = append(repo.facts, memory.Fact{ID: content, Content: content, Status: memory.FactStatusConfirmed})
		embedder.vectors[content] = unitVector(score)
	}
	// shuffle the repo order so sorting is actually exercised
	repo.facts[0], repo.facts[3] = repo.facts[3], repo.facts[0]

	svc := newRetriever(embedder, repo, newMemCache())
	resp, err := svc.Retrieve(context.Background(), testOwner, memory.RetrieveRequest{Query: "query"})

	require.NoError(t, err)
	require.Len(t, resp.Facts, 3)
	assert.Equal(t, "fact-0", resp.Facts[0].Fact.ID)
	assert.Equal(t, "fact-1", resp.Facts[1].Fact.ID)
	assert.Equal(t, "fact-2", resp.Facts[2].Fact.ID)
	assert.InDelta(t, 0.9, resp.Facts[0].Score, 0.001)
	assert.GreaterOrEqual(t, resp.Facts[0].Score, resp.Facts[1].Score)
	assert.GreaterOrEqual(t, resp.Facts[1].Score, resp.Facts[2].Score)
}

func TestRetrieveEqualScoresKeepRepositoryOrder(t *testing.T) {
	// identical vectors produce identical scores; the stable sort must keep
	// the repository's created_at order among them
	embedder := &mapEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	repo := &fakeFactRepo{}
	for _, id := range []string{"f-a", "f-b", "f-c"} {
		repo.facts = append(repo.facts, memory.Fact{ID: id, Content: id, Status: memory.FactStatusConfirmed})
		embedder.vectors[id] = unitVector(0.8)
	}

	svc := newRetriever(embedder, repo, newMemCache())
	resp, err := svc.Retrieve(context.Background(), testOwner, memory.RetrieveRequest{Query: "query"})

	require.NoError(t, err)
	require.Len(t, resp.Facts, 3)
	assert.Equal(t, "f-a", resp.Facts[0].Fact.ID)
	assert.Equal(t, "f-b", resp.Facts[1].Fact.ID)
	assert.Equal(t, "f-c", resp.Facts[2].Fact.ID)
}

func TestRetrieveCapsResults(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	repo := &fakeFactRepo{}
	for i := 0; i < 8; i++ {
		content := fmt.Sprintf("fact-%d", i)
		repo.facts = append(repo.facts, memory.Fact{ID: content, Content: content, Status: memory.FactStatusConfirmed})
		embedder.vectors[content] = unitVector(0.99 - float64(i)*0.01)
	}

	svc := newRetriever(embedder, repo, newMemCache())
	resp, err := svc.Retrieve(context.Background(), testOwner, memory.RetrieveRequest{Query: "query"})

	require.NoError(t, err)
	assert.Len(t, resp.Facts, 5)
	assert.Equal(t, "fact-0", resp.Facts[0].Fact.ID)
}

func TestRetrieveBlankQueryRejected(t *testing.T) {
	svc := newRetriever(&mapEmbedder{}, &fakeFactRepo{}, newMemCache())

	_, err := svc.Retrieve(context.Background(), testOwner, memory.RetrieveRequest{Query: "   "})

	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, string(memory.CodeQueryRequired), e.Code)
}

func TestRetrieveNoFactsShortCircuits(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	svc := newRetriever(embedder, &fakeFactRepo{}, newMemCache())

	resp, err := svc.Retrieve(context.Background(), testOwner, memory.RetrieveRequest{Query: "query"})

	require.NoError(t, err)
	assert.Empty(t, resp.Facts)
	// without candidates, the embedder must never run
	assert.Zero(t, embedder.calls)
}

func TestRetrieveSkipsFailingCandidates(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"query": {1, 0},
		"good":  unitVector(0.8),
		// "broken" is missing on purpose
	}}
	repo := &fakeFactRepo{facts: []memory.Fact{
		{ID: "f1", Content: "good", Status: memory.FactStatusConfirmed},
		{ID: "f2", Content: "broken", Status: memory.FactStatusConfirmed},
	}}

	svc := newRetriever(embedder, repo, newMemCache())
	resp, err := svc.Retrieve(context.Background(), testOwner, memory.RetrieveRequest{Query: "query"})

	require.NoError(t, err)
	require.Len(t, resp.Facts, 1)
	assert.Equal(t, "f1", resp.Facts[0].Fact.ID)
}

func TestRetrieveUsesCachedVectors(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	cache := newMemCache()
	require.NoError(t, cache.Set(context.Background(), "f1", unitVector(0.9)))

	repo := &fakeFactRepo{facts: []memory.Fact{
		{ID: "f1", Content: "not embeddable", Status: memory.FactStatusConfirmed},
	}}

	svc := newRetriever(embedder, repo, cache)
	resp, err := svc.Retrieve(context.Background(), testOwner, memory.RetrieveRequest{Query: "query"})

	require.NoError(t, err)
	require.Len(t, resp.Facts, 1)
	assert.Equal(t, 1, cache.hits)
	// only the query needed the embedder
	assert.Equal(t, 1, embedder.calls)
}

func TestRetrieveEmbeddingFailureForQuery(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{}}
	repo := &fakeFactRepo{facts: []memory.Fact{
		{ID: "f1", Content: "fact", Status: memory.FactStatusConfirmed},
	}}

	svc := newRetriever(embedder, repo, newMemCache())
	_, err := svc.Retrieve(context.Background(), testOwner, memory.RetrieveRequest{Query: "query"})

	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, string(memory.CodeEmbeddingFailed), e.Code)
}

func TestCosineSimilarity(t *testing.T) {
	score, err := cosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)

	score, err = cosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-9)

	_, err = cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
	assert.Error(t, err)

	_, err = cosineSimilarity(nil, []float32{1})
	assert.Error(t, err)
}
