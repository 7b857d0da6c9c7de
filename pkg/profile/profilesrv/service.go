package profilesrv

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Abraxas-365/confidant/pkg/ai/llm"
	"github.com/Abraxas-365/confidant/pkg/ai/retryx"
	"github.com/Abraxas-365/confidant/pkg/chat"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/logx"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/Abraxas-365/confidant/pkg/proposal"
)

// ProfileService ejecuta el pipeline de consolidación: extrae hallazgos de
// una sesión, reconcilia el perfil con ellos y persiste las diferencias como
// propuestas pendientes. El perfil real nunca se muta aquí; solo la
// confirmación explícita del usuario aplica un cambio.
type ProfileService struct {
	profileRepo  profile.Repository
	proposalRepo proposal.Repository
	messageRepo  chat.MessageRepository
	llmClient    *llm.Client
	chatModel    string
	retryOpts    []retryx.Option
}

// NewProfileService crea una nueva instancia del servicio de perfil
func NewProfileService(
	profileRepo profile.Repository,
	proposalRepo proposal.Repository,
	messageRepo chat.MessageRepository,
	llmClient *llm.Client,
	chatModel string,
	retryOpts ...retryx.Option,
) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		proposalRepo: proposalRepo,
		messageRepo:  messageRepo,
		llmClient:    llmClient,
		chatModel:    chatModel,
		retryOpts:    retryOpts,
	}
}

// GetProfile obtiene el perfil del usuario; un usuario sin documento recibe
// un perfil vacío
func (s *ProfileService) GetProfile(ctx context.Context, ownerID kernel.UserID) (*profile.Profile, error) {
	return s.profileRepo.Get(ctx, ownerID)
}

// RunExtraction ejecuta el pipeline completo sobre una sesión terminada
func (s *ProfileService) RunExtraction(ctx context.Context, ownerID kernel.UserID, req profile.ExtractRequest) (*profile.ExtractResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return nil, profile.ErrSessionRequired()
	}

	messages, err := s.messageRepo.FindBySession(ctx, kernel.SessionID(sessionID), ownerID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, profile.ErrNoMessages().WithDetail("session_id", sessionID)
	}

	findings, err := s.extractFindings(ctx, messages)
	if err != nil {
		return nil, err
	}
	if len(findings) == 0 {
		logx.WithFields(logx.Fields{
			"owner_id":   ownerID.String(),
			"session_id": sessionID,
		}).Info("extraction produced no findings")
		return &profile.ExtractResponse{}, nil
	}

	current, err := s.profileRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	reconciled, err := s.reconcile(ctx, current, findings)
	if err != nil {
		return nil, err
	}

	proposals := profile.Diff(current, reconciled, ownerID)
	if len(proposals) > 0 {
		if err := s.proposalRepo.SaveBatch(ctx, proposals); err != nil {
			return nil, err
		}
	}

	logx.WithFields(logx.Fields{
		"owner_id":   ownerID.String(),
		"session_id": sessionID,
		"findings":   len(findings),
		"proposals":  len(proposals),
	}).Info("extraction pipeline completed")

	return &profile.ExtractResponse{
		FindingsExtracted: len(findings),
		ProposalsCreated:  len(proposals),
	}, nil
}

// findingsEnvelope es el contrato JSON del observador
type findingsEnvelope struct {
	Findings []profile.Finding `json:"findings"`
}

// extractFindings pide al observador los hallazgos nuevos de la transcripción.
// Los hallazgos con tipo fuera del enum o sin contenido se descartan en
// silencio; una respuesta que no cumple el contrato es un error interno.
func (s *ProfileService) extractFindings(ctx context.Context, messages []chat.Message) ([]profile.Finding, error) {
	transcript := renderTranscript(messages)

	resp, err := retryx.Do(ctx, func(ctx context.Context) (llm.Response, error) {
		return s.llmClient.Chat(ctx,
			[]llm.Message{
				llm.NewSystemMessage(observerSystemPrompt),
				llm.NewUserMessage(transcript),
			},
			llm.WithModel(s.chatModel),
			llm.WithTemperature(0.2),
			llm.WithJSONMode(),
		)
	}, s.retryOpts...)
	if err != nil {
		return nil, profile.ErrReasoningFailed().WithCause(err)
	}

	var envelope findingsEnvelope
	if err := json.Unmarshal([]byte(resp.Message.Content), &envelope); err != nil {
		return nil, profile.ErrMalformedResponse().WithCause(err)
	}

	findings := make([]profile.Finding, 0, len(envelope.Findings))
	for _, f := range envelope.Findings {
		if !f.Kind.Valid() || strings.TrimSpace(f.Content) == "" {
			continue
		}
		findings = append(findings, f)
	}
	return findings, nil
}

// reconcile pide al curador el perfil actualizado. Solo los campos de la
// lista blanca sobreviven la decodificación; claves desconocidas se descartan
// sin abortar el pipeline.
func (s *ProfileService) reconcile(ctx context.Context, current *profile.Profile, findings []profile.Finding) (*profile.Profile, error) {
	payload, err := json.Marshal(struct {
		Profile  *profile.Profile  `json:"profile"`
		Findings []profile.Finding `json:"findings"`
	}{Profile: current, Findings: findings})
	if err != nil {
		return nil, profile.ErrMalformedResponse().WithCause(err)
	}

	resp, err := retryx.Do(ctx, func(ctx context.Context) (llm.Response, error) {
		return s.llmClient.Chat(ctx,
			[]llm.Message{
				llm.NewSystemMessage(reconcilerSystemPrompt),
				llm.NewUserMessage(string(payload)),
			},
			llm.WithModel(s.chatModel),
			llm.WithTemperature(0),
			llm.WithJSONMode(),
		)
	}, s.retryOpts...)
	if err != nil {
		return nil, profile.ErrReasoningFailed().WithCause(err)
	}

	var reconciled profile.Profile
	if err := json.Unmarshal([]byte(resp.Message.Content), &reconciled); err != nil {
		return nil, profile.ErrMalformedResponse().WithCause(err)
	}

	return &reconciled, nil
}

// renderTranscript aplana la sesión en un guion con los roles etiquetados
func renderTranscript(messages []chat.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Sender {
		case chat.SenderUser:
			b.WriteString("User: ")
		default:
			b.WriteString("Confidant: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}
