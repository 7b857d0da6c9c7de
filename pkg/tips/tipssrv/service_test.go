package tipssrv

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Abraxas-365/confidant/pkg/ai/llm"
	"github.com/Abraxas-365/confidant/pkg/ai/retryx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/Abraxas-365/confidant/pkg/tips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct{ value int }

func (f fixedRand) Intn(n int) int { return f.value % n }

type echoLLM struct {
	lastSystem string
	lastUser   string
}

func (e *echoLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			e.lastSystem = msg.Content
		case llm.RoleUser:
			e.lastUser = msg.Content
		}
	}
	return llm.Response{Message: llm.NewAssistantMessage("نصيحة اليوم")}, nil
}

type stubProfileRepo struct {
	profile *profile.Profile
}

func (s *stubProfileRepo) Get(ctx context.Context, ownerID kernel.UserID) (*profile.Profile, error) {
	if s.profile == nil {
		return &profile.Profile{}, nil
	}
	return s.profile, nil
}

func (s *stubProfileRepo) SetField(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error {
	return nil
}

func (s *stubProfileRepo) AppendToList(ctx context.Context, ownerID kernel.UserID, field string, value json.RawMessage) error {
	return nil
}

func (s *stubProfileRepo) Delete(ctx context.Context, ownerID kernel.UserID) error { return nil }

var testOwner = kernel.NewUserID("user-1")

func instantRetry() retryx.Option {
	return retryx.WithSleeper(func(ctx context.Context, d time.Duration) {})
}

func TestDailyTipPersonalizedUsesProfileThemes(t *testing.T) {
	model := &echoLLM{}
	repo := &stubProfileRepo{profile: &profile.Profile{
		LifeChallenges: []string{"القلق"},
		Ambitions:      []string{"تعلم البرمجة"},
	}}
	svc := NewTipsService(repo, llm.NewClient(model), "test-model", fixedRand{0}, instantRetry())

	tip, err := svc.DailyTip(context.Background(), testOwner)

	require.NoError(t, err)
	assert.Equal(t, tips.KindPersonalized, tip.Kind)
	assert.Equal(t, "نصيحة اليوم", tip.Content)
	assert.Contains(t, model.lastUser, "القلق")
	assert.Contains(t, model.lastUser, "تعلم البرمجة")
}

func TestDailyTipPersonalizedDegradesToWisdomOnEmptyProfile(t *testing.T) {
	model := &echoLLM{}
	svc := NewTipsService(&stubProfileRepo{}, llm.NewClient(model), "test-model", fixedRand{0}, instantRetry())

	tip, err := svc.DailyTip(context.Background(), testOwner)

	require.NoError(t, err)
	assert.Equal(t, tips.KindWisdom, tip.Kind)
}

func TestDailyTipQuoteBranch(t *testing.T) {
	model := &echoLLM{}
	svc := NewTipsService(&stubProfileRepo{}, llm.NewClient(model), "test-model", fixedRand{1}, instantRetry())

	tip, err := svc.DailyTip(context.Background(), testOwner)

	require.NoError(t, err)
	assert.Equal(t, tips.KindQuote, tip.Kind)
	assert.Contains(t, model.lastSystem, "quote")
}

func TestDailyTipWisdomBranch(t *testing.T) {
	model := &echoLLM{}
	svc := NewTipsService(&stubProfileRepo{}, llm.NewClient(model), "test-model", fixedRand{2}, instantRetry())

	tip, err := svc.DailyTip(context.Background(), testOwner)

	require.NoError(t, err)
	assert.Equal(t, tips.KindWisdom, tip.Kind)
	assert.Contains(t, model.lastSystem, "wisdom")
}
