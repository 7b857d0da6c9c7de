package proposalsrv

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/Abraxas-365/confidant/pkg/proposal"
	"github.com/Abraxas-365/confidant/pkg/ptrx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type memProposalRepo struct {
	proposals map[string]proposal.PendingProposal
}

func newMemProposalRepo(proposals ...proposal.PendingProposal) *memProposalRepo {
	repo := &memProposalRepo{proposals: make(map[string]proposal.PendingProposal)}
	for _, p := range proposals {
		repo.proposals[p.ID] = p
	}
	return repo
}

func (r *memProposalRepo) SaveBatch(ctx context.Context, proposals []proposal.PendingProposal) error {
	for _, p := range proposals {
		r.proposals[p.ID] = p
	}
	return nil
}

func (r *memProposalRepo) FindByIDAndOwner(ctx context.Context, id string, ownerID kernel.UserID) (*proposal.PendingProposal, error) {
	p, ok := r.proposals[id]
	if !ok || p.OwnerID != ownerID {
		return nil, proposal.ErrProposalNotFound()
	}
	return &p, nil
}

func (r *memProposalRepo) Delete(ctx context.Context, id string, ownerID kernel.UserID) error {
	p, ok := r.proposals[id]
	if !ok || p.OwnerID != ownerID {
		return proposal.ErrProposalNotFound()
	}
	delete(r.proposals, id)
	return nil
}

func (r *memProposalRepo) PurgePage(ctx context.Context, ownerID kernel.UserID, limit int) (int, error) {
	return 0, nil
}

type mutation struct {
	op    string
	field string
	value string
}

type recordingProfileRepo struct {
	mutations []mutation
}

func (r *recordingProfileRepo) Get(ctx context.Context, ownerID kernel.UserID) (*profile.Profile, error) {
	return &profile.Profile{}, nil
}

func (r *recordingProfileRepo) SetField(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error {
	r.mutations = append(r.mutations, mutation{op: "set", field: field, value: string(value)})
	return nil
}

func (r *recordingProfileRepo) AppendToList(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error {
	r.mutations = append(r.mutations, mutation{op: "append", field: field, value: string(value)})
	return nil
}

func (r *recordingProfileRepo) Delete(ctx context.Context, ownerID kernel.UserID) error { return nil }

// ============================================================================
// Helpers
// ============================================================================

var testOwner = kernel.NewUserID("user-1")

func pendingSet(id, field, jsonValue string) proposal.PendingProposal {
	return proposal.PendingProposal{
		ID:          id,
		OwnerID:     testOwner,
		SourceField: field,
		Operation:   proposal.OperationSet,
		Value:       types.JSONText(jsonValue),
		Status:      proposal.StatusPending,
	}
}

func pendingAppend(id, field, jsonValue string) proposal.PendingProposal {
	p := pendingSet(id, field, jsonValue)
	p.Operation = proposal.OperationAppendToList
	return p
}

func errxCode(t *testing.T, err error) string {
	t.Helper()
	var e *errx.Error
	require.ErrorAs(t, err, &e)
	return e.Code
}

// ============================================================================
// Tests
// ============================================================================

func TestResolveConfirmAppliesSetAndDeletes(t *testing.T) {
	repo := newMemProposalRepo(pendingSet("prop-1", "occupation", `"مهندس"`))
	profileRepo := &recordingProfileRepo{}
	svc := NewProposalService(repo, profileRepo)

	resp, err := svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{Action: proposal.ActionConfirm})

	require.NoError(t, err)
	assert.Equal(t, string(proposal.StatusConfirmed), resp.Status)

	require.Len(t, profileRepo.mutations, 1)
	assert.Equal(t, mutation{op: "set", field: "occupation", value: `"مهندس"`}, profileRepo.mutations[0])
	assert.Empty(t, repo.proposals)
}

func TestResolveConfirmAppliesAppend(t *testing.T) {
	repo := newMemProposalRepo(pendingAppend("prop-1", "hobbies", `"الرسم"`))
	profileRepo := &recordingProfileRepo{}
	svc := NewProposalService(repo, profileRepo)

	_, err := svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{Action: proposal.ActionConfirm})

	require.NoError(t, err)
	require.Len(t, profileRepo.mutations, 1)
	assert.Equal(t, "append", profileRepo.mutations[0].op)
	assert.Equal(t, "hobbies", profileRepo.mutations[0].field)
}

func TestResolveRejectDeletesWithoutMutating(t *testing.T) {
	repo := newMemProposalRepo(pendingSet("prop-1", "occupation", `"مهندس"`))
	profileRepo := &recordingProfileRepo{}
	svc := NewProposalService(repo, profileRepo)

	resp, err := svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{Action: proposal.ActionReject})

	require.NoError(t, err)
	assert.Equal(t, string(proposal.StatusRejected), resp.Status)
	assert.Empty(t, profileRepo.mutations)
	assert.Empty(t, repo.proposals)
}

func TestResolveSecondUseReportsNotFound(t *testing.T) {
	repo := newMemProposalRepo(pendingSet("prop-1", "occupation", `"مهندس"`))
	svc := NewProposalService(repo, &recordingProfileRepo{})

	_, err := svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{Action: proposal.ActionConfirm})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{Action: proposal.ActionConfirm})
	assert.Equal(t, string(proposal.CodeProposalNotFound), errxCode(t, err))
}

func TestResolveForeignProposalReportsNotFound(t *testing.T) {
	repo := newMemProposalRepo(pendingSet("prop-1", "occupation", `"مهندس"`))
	svc := NewProposalService(repo, &recordingProfileRepo{})

	_, err := svc.Resolve(context.Background(), kernel.NewUserID("intruder"), "prop-1", proposal.ResolveRequest{Action: proposal.ActionConfirm})

	assert.Equal(t, string(proposal.CodeProposalNotFound), errxCode(t, err))
	// the row must survive a failed foreign attempt
	assert.Len(t, repo.proposals, 1)
}

func TestResolveInvalidAction(t *testing.T) {
	svc := NewProposalService(newMemProposalRepo(), &recordingProfileRepo{})

	_, err := svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{Action: "maybe"})

	assert.Equal(t, string(proposal.CodeInvalidAction), errxCode(t, err))
}

func TestResolveEditedValueOverridesStringProposal(t *testing.T) {
	repo := newMemProposalRepo(pendingSet("prop-1", "occupation", `"مهندس"`))
	profileRepo := &recordingProfileRepo{}
	svc := NewProposalService(repo, profileRepo)

	_, err := svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{
		Action:      proposal.ActionConfirm,
		EditedValue: ptrx.String("مهندس معماري"),
	})

	require.NoError(t, err)
	require.Len(t, profileRepo.mutations, 1)
	assert.Equal(t, `"مهندس معماري"`, profileRepo.mutations[0].value)
}

func TestResolveEditIgnoredForNonStringValues(t *testing.T) {
	repo := newMemProposalRepo(pendingSet("prop-1", "seesTherapist", `true`))
	profileRepo := &recordingProfileRepo{}
	svc := NewProposalService(repo, profileRepo)

	_, err := svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{
		Action:      proposal.ActionConfirm,
		EditedValue: ptrx.String("false maybe"),
	})

	require.NoError(t, err)
	require.Len(t, profileRepo.mutations, 1)
	assert.Equal(t, `true`, profileRepo.mutations[0].value)
}

func TestResolveCorruptValue(t *testing.T) {
	repo := newMemProposalRepo(pendingSet("prop-1", "occupation", `{not-json`))
	svc := NewProposalService(repo, &recordingProfileRepo{})

	_, err := svc.Resolve(context.Background(), testOwner, "prop-1", proposal.ResolveRequest{Action: proposal.ActionConfirm})

	assert.Equal(t, string(proposal.CodeMalformedValue), errxCode(t, err))
}
