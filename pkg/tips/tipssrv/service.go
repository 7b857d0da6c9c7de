package tipssrv

import (
	"context"
	"strings"

	"github.com/Abraxas-365/confidant/pkg/ai/llm"
	"github.com/Abraxas-365/confidant/pkg/ai/retryx"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/Abraxas-365/confidant/pkg/tips"
)

const (
	personalizedPrompt = `Write one short, encouraging daily tip in Arabic for a user dealing with the following. Speak directly to them, two sentences at most. Do not mention that you were given this context.`

	quotePrompt = `Share one short inspirational quote in Arabic, with its author if known. Respond with the quote only.`

	wisdomPrompt = `Share one short piece of timeless practical wisdom in Arabic. Two sentences at most.`
)

// RandSource entrega el entero aleatorio que elige la variante del día.
// Es inyectable para que las pruebas fijen la rama.
type RandSource interface {
	Intn(n int) int
}

// TipsService genera el consejo diario. Una de tres variantes se elige al
// azar; la personalizada usa los retos y ambiciones del perfil y degrada a
// sabiduría genérica cuando el perfil no tiene nada que ofrecer.
type TipsService struct {
	profileRepo profile.Repository
	llmClient   *llm.Client
	chatModel   string
	rand        RandSource
	retryOpts   []retryx.Option
}

// NewTipsService crea una nueva instancia del servicio de consejos
func NewTipsService(profileRepo profile.Repository, llmClient *llm.Client, chatModel string, rand RandSource, retryOpts ...retryx.Option) *TipsService {
	return &TipsService{
		profileRepo: profileRepo,
		llmClient:   llmClient,
		chatModel:   chatModel,
		rand:        rand,
		retryOpts:   retryOpts,
	}
}

// DailyTip genera el consejo del día para el usuario
func (s *TipsService) DailyTip(ctx context.Context, ownerID kernel.UserID) (*tips.Tip, error) {
	kind := s.pickKind()

	systemPrompt := wisdomPrompt
	userPrompt := "اليوم"
	switch kind {
	case tips.KindPersonalized:
		themes := s.personalThemes(ctx, ownerID)
		if len(themes) == 0 {
			kind = tips.KindWisdom
			break
		}
		systemPrompt = personalizedPrompt
		userPrompt = strings.Join(themes, "، ")
	case tips.KindQuote:
		systemPrompt = quotePrompt
	}

	resp, err := retryx.Do(ctx, func(ctx context.Context) (llm.Response, error) {
		return s.llmClient.Chat(ctx,
			[]llm.Message{
				llm.NewSystemMessage(systemPrompt),
				llm.NewUserMessage(userPrompt),
			},
			llm.WithModel(s.chatModel),
			llm.WithTemperature(0.9),
			llm.WithMaxTokens(120),
		)
	}, s.retryOpts...)
	if err != nil {
		return nil, tips.ErrGenerationFailed().WithCause(err)
	}

	return &tips.Tip{
		Kind:    kind,
		Content: strings.TrimSpace(resp.Message.Content),
	}, nil
}

func (s *TipsService) pickKind() tips.Kind {
	switch s.rand.Intn(3) {
	case 0:
		return tips.KindPersonalized
	case 1:
		return tips.KindQuote
	default:
		return tips.KindWisdom
	}
}

// personalThemes junta los retos y ambiciones del perfil; errores aquí solo
// degradan la variante, nunca fallan la petición
func (s *TipsService) personalThemes(ctx context.Context, ownerID kernel.UserID) []string {
	p, err := s.profileRepo.Get(ctx, ownerID)
	if err != nil || p == nil {
		return nil
	}
	themes := make([]string, 0, len(p.LifeChallenges)+len(p.Ambitions))
	themes = append(themes, p.LifeChallenges...)
	themes = append(themes, p.Ambitions...)
	return themes
}
