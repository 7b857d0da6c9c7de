package chatsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/confidant/pkg/ai/llm"
	"github.com/Abraxas-365/confidant/pkg/ai/retryx"
	"github.com/Abraxas-365/confidant/pkg/chat"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/Abraxas-365/confidant/pkg/logx"
	"github.com/Abraxas-365/confidant/pkg/profile"
	"github.com/google/uuid"
)

// FactProvider entrega los textos de los hechos relevantes para una consulta.
// Una implementación que devuelve nil deja la conversación sin memoria, que
// es un degradado aceptable.
type FactProvider interface {
	RelevantFactTexts(ctx context.Context, ownerID kernel.UserID, query string) []string
}

// ChatService genera títulos de sesión y respuestas del confidente. La
// respuesta se condiciona con las preferencias del usuario y los hechos
// relevantes de su memoria de largo plazo.
type ChatService struct {
	sessionRepo  chat.SessionRepository
	messageRepo  chat.MessageRepository
	settingsRepo profile.SettingsRepository
	facts        FactProvider
	llmClient    *llm.Client
	chatModel    string
	retryOpts    []retryx.Option
}

// NewChatService crea una nueva instancia del servicio de chat
func NewChatService(
	sessionRepo chat.SessionRepository,
	messageRepo chat.MessageRepository,
	settingsRepo profile.SettingsRepository,
	facts FactProvider,
	llmClient *llm.Client,
	chatModel string,
	retryOpts ...retryx.Option,
) *ChatService {
	return &ChatService{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		settingsRepo: settingsRepo,
		facts:        facts,
		llmClient:    llmClient,
		chatModel:    chatModel,
		retryOpts:    retryOpts,
	}
}

// GenerateTitle resume la sesión en un título corto en árabe y lo persiste
func (s *ChatService) GenerateTitle(ctx context.Context, ownerID kernel.UserID, sessionID kernel.SessionID) (*chat.TitleResponse, error) {
	if _, err := s.sessionRepo.FindByIDAndOwner(ctx, sessionID, ownerID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindBySession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, chat.ErrMessageRequired().WithDetail("session_id", sessionID.String())
	}

	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}

	resp, err := retryx.Do(ctx, func(ctx context.Context) (llm.Response, error) {
		return s.llmClient.Chat(ctx,
			[]llm.Message{
				llm.NewSystemMessage(titleSystemPrompt),
				llm.NewUserMessage(b.String()),
			},
			llm.WithModel(s.chatModel),
			llm.WithTemperature(0.3),
			llm.WithMaxTokens(30),
		)
	}, s.retryOpts...)
	if err != nil {
		return nil, chat.ErrGenerationFailed().WithCause(err)
	}

	title := sanitizeTitle(resp.Message.Content)
	if err := s.sessionRepo.SetTitle(ctx, sessionID, ownerID, title); err != nil {
		return nil, err
	}

	return &chat.TitleResponse{SessionID: sessionID, Title: title}, nil
}

// Respond genera el siguiente turno del confidente y persiste ambos mensajes
func (s *ChatService) Respond(ctx context.Context, ownerID kernel.UserID, req chat.RespondRequest) (*chat.RespondResponse, error) {
	userMessage := strings.TrimSpace(req.Message)
	if userMessage == "" {
		return nil, chat.ErrMessageRequired()
	}

	sessionID := kernel.SessionID(strings.TrimSpace(req.SessionID))
	if _, err := s.sessionRepo.FindByIDAndOwner(ctx, sessionID, ownerID); err != nil {
		return nil, err
	}

	history, err := s.messageRepo.FindBySession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		logx.Warnf("falling back to default settings for %s: %v", ownerID.String(), err)
		settings = profile.DefaultSettings()
	}

	var factTexts []string
	if s.facts != nil {
		factTexts = s.facts.RelevantFactTexts(ctx, ownerID, userMessage)
	}

	prompt := buildPersonaPrompt(settings, factTexts)
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.NewSystemMessage(prompt))
	for _, msg := range history {
		if msg.Sender == chat.SenderUser {
			messages = append(messages, llm.NewUserMessage(msg.Content))
		} else {
			messages = append(messages, llm.NewAssistantMessage(msg.Content))
		}
	}
	messages = append(messages, llm.NewUserMessage(userMessage))

	resp, err := retryx.Do(ctx, func(ctx context.Context) (llm.Response, error) {
		return s.llmClient.Chat(ctx, messages,
			llm.WithModel(s.chatModel),
			llm.WithTemperature(0.7),
			llm.WithUser(ownerID.String()),
		)
	}, s.retryOpts...)
	if err != nil {
		return nil, chat.ErrGenerationFailed().WithCause(err)
	}
	reply := strings.TrimSpace(resp.Message.Content)

	now := time.Now()
	if err := s.messageRepo.Save(ctx, chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		OwnerID:   ownerID,
		Sender:    chat.SenderUser,
		Content:   userMessage,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		OwnerID:   ownerID,
		Sender:    chat.SenderAssistant,
		Content:   reply,
		CreatedAt: now.Add(time.Millisecond),
	}); err != nil {
		return nil, err
	}

	return &chat.RespondResponse{SessionID: sessionID, Reply: reply}, nil
}

// sanitizeTitle recorta comillas y saltos que los modelos suelen agregar
func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'“”«»")
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}
