package accountsrv

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Abraxas-365/confidant/pkg/chat"
	"github.com/Abraxas-365/confidant/pkg/journal"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/memory"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/Abraxas-365/confidant/pkg/proposal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

// countingPager simulates a collection with a fixed number of rows, deleting
// up to limit per call
type countingPager struct {
	remaining int
	calls     int
}

func (p *countingPager) PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error) {
	p.calls++
	n := p.remaining
	if n > limit {
		n = limit
	}
	p.remaining -= n
	return n, nil
}

type nopProfileRepo struct{ deleted bool }

func (r *nopProfileRepo) Get(ctx context.Context, ownerID kernel.UserID) (*profile.Profile, error) {
	return &profile.Profile{}, nil
}

func (r *nopProfileRepo) SetField(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error {
	return nil
}

func (r *nopProfileRepo) AppendToList(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error {
	return nil
}

func (r *nopProfileRepo) Delete(ctx context.Context, ownerID kernel.UserID) error {
	r.deleted = true
	return nil
}

type nopSettingsRepo struct{ deleted bool }

func (r *nopSettingsRepo) Get(ctx context.Context, ownerID kernel.UserID) (profile.Settings, error) {
	return profile.DefaultSettings(), nil
}

func (r *nopSettingsRepo) Delete(ctx context.Context, ownerID kernel.UserID) error {
	r.deleted = true
	return nil
}

type fakeProposalRepo struct{ countingPager }

func (r *fakeProposalRepo) SaveBatch(ctx context.Context, proposals []proposal.PendingProposal) error {
	return nil
}

func (r *fakeProposalRepo) FindByIDAndOwner(ctx context.Context, id string, ownerID kernel.UserID) (*proposal.PendingProposal, error) {
	return nil, proposal.ErrProposalNotFound()
}

func (r *fakeProposalRepo) Delete(ctx context.Context, id string, ownerID kernel.UserID) error {
	return nil
}

type fakeSessionRepo struct{ countingPager }

func (r *fakeSessionRepo) FindByIDAndOwner(ctx context.Context, id kernel.SessionID, ownerID kernel.UserID) (*chat.Session, error) {
	return nil, chat.ErrSessionNotFound()
}

func (r *fakeSessionRepo) SetTitle(ctx context.Context, id kernel.SessionID, ownerID kernel.UserID, title string) error {
	return nil
}

type fakeMessageRepo struct{ countingPager }

func (r *fakeMessageRepo) FindBySession(ctx context.Context, sessionID kernel.SessionID, ownerID kernel.UserID) ([]chat.Message, error) {
	return nil, nil
}

func (r *fakeMessageRepo) Save(ctx context.Context, msg chat.Message) error { return nil }

type fakeJournalRepo struct{ countingPager }

func (r *fakeJournalRepo) FindByIDAndOwner(ctx context.Context, id string, ownerID kernel.UserID) (*journal.Entry, error) {
	return nil, journal.ErrEntryNotFound()
}

func (r *fakeJournalRepo) SetTitle(ctx context.Context, id string, ownerID kernel.UserID, title string) error {
	return nil
}

type fakeFactRepo struct {
	countingPager
	facts []memory.Fact
}

func (r *fakeFactRepo) Save(ctx context.Context, fact memory.Fact) error { return nil }

func (r *fakeFactRepo) FindConfirmedByOwner(ctx context.Context, ownerID kernel.UserID) ([]memory.Fact, error) {
	return r.facts, nil
}

type recordingCache struct {
	deleted []string
}

func (c *recordingCache) Get(ctx context.Context, factID string) ([]float32, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(ctx context.Context, factID string, vector []float32) error { return nil }

func (c *recordingCache) Delete(ctx context.Context, factIDs ...string) error {
	c.deleted = append(c.deleted, factIDs...)
	return nil
}

// ============================================================================
// Tests
// ============================================================================

var testOwner = kernel.NewUserID("user-1")

func TestPurgeDeletesEverything(t *testing.T) {
	profileRepo := &nopProfileRepo{}
	settingsRepo := &nopSettingsRepo{}
	proposalRepo := &fakeProposalRepo{countingPager{remaining: 250}}
	sessionRepo := &fakeSessionRepo{countingPager{remaining: 7}}
	messageRepo := &fakeMessageRepo{countingPager{remaining: 100}}
	journalRepo := &fakeJournalRepo{countingPager{remaining: 0}}
	factRepo := &fakeFactRepo{
		countingPager: countingPager{remaining: 2},
		facts: []memory.Fact{
			{ID: "f1", Status: memory.FactStatusConfirmed},
			{ID: "f2", Status: memory.FactStatusConfirmed},
		},
	}
	cache := &recordingCache{}

	svc := NewAccountService(profileRepo, settingsRepo, proposalRepo, sessionRepo, messageRepo, journalRepo, factRepo, cache)
	resp, err := svc.Purge(context.Background(), testOwner)

	require.NoError(t, err)
	assert.True(t, profileRepo.deleted)
	assert.True(t, settingsRepo.deleted)
	assert.Equal(t, []string{"f1", "f2"}, cache.deleted)

	assert.Equal(t, 250, resp.Deleted["proposals"])
	assert.Equal(t, 7, resp.Deleted["sessions"])
	assert.Equal(t, 100, resp.Deleted["messages"])
	assert.Equal(t, 0, resp.Deleted["journal_entries"])
	assert.Equal(t, 2, resp.Deleted["memory_facts"])
}

func TestPurgeBatchesInPagesOfAtMostBatchSize(t *testing.T) {
	proposalRepo := &fakeProposalRepo{countingPager{remaining: 250}}
	svc := NewAccountService(
		&nopProfileRepo{}, &nopSettingsRepo{},
		proposalRepo,
		&fakeSessionRepo{}, &fakeMessageRepo{}, &fakeJournalRepo{},
		&fakeFactRepo{}, &recordingCache{},
	)

	_, err := svc.Purge(context.Background(), testOwner)

	require.NoError(t, err)
	// 100 + 100 + 50: the last short page ends the loop
	assert.Equal(t, 3, proposalRepo.calls)
}

func TestPurgeIsIdempotent(t *testing.T) {
	svc := NewAccountService(
		&nopProfileRepo{}, &nopSettingsRepo{},
		&fakeProposalRepo{},
		&fakeSessionRepo{}, &fakeMessageRepo{}, &fakeJournalRepo{},
		&fakeFactRepo{}, &recordingCache{},
	)

	_, err := svc.Purge(context.Background(), testOwner)
	require.NoError(t, err)

	resp, err := svc.Purge(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Deleted["proposals"])
}

func TestPurgeExactMultipleOfBatchTerminates(t *testing.T) {
	// 200 rows: two full pages, then one empty page confirms completion
	messageRepo := &fakeMessageRepo{countingPager{remaining: 200}}
	svc := NewAccountService(
		&nopProfileRepo{}, &nopSettingsRepo{},
		&fakeProposalRepo{},
		&fakeSessionRepo{}, messageRepo, &fakeJournalRepo{},
		&fakeFactRepo{}, &recordingCache{},
	)

	resp, err := svc.Purge(context.Background(), testOwner)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.Deleted["messages"])
	assert.Equal(t, 3, messageRepo.calls)
}
