package journalsrv

import (
	"context"
	"strings"

	"github.com/Abraxas-365/confidant/pkg/ai/llm"
	"github.com/Abraxas-365/confidant/pkg/ai/retryx"
	"github.com/Abraxas-365/confidant/pkg/journal"
	"github.com/Abraxas-365/confidant/pkg/kernel"
)

const titleSystemPrompt = `Summarize the following journal entry into a very short title in Arabic, 5 words at most. Respond with the title only, no quotes.`

// JournalService genera títulos para las entradas del diario
type JournalService struct {
	entryRepo journal.Repository
	llmClient *llm.Client
	chatModel string
	retryOpts []retryx.Option
}

// NewJournalService crea una nueva instancia del servicio de diario
func NewJournalService(entryRepo journal.Repository, llmClient *llm.Client, chatModel string, retryOpts ...retryx.Option) *JournalService {
	return &JournalService{
		entryRepo: entryRepo,
		llmClient: llmClient,
		chatModel: chatModel,
		retryOpts: retryOpts,
	}
}

// GenerateTitle resume la entrada en un título corto en árabe y lo persiste
func (s *JournalService) GenerateTitle(ctx context.Context, ownerID kernel.UserID, req journal.TitleRequest) (*journal.TitleResponse, error) {
	entryID := strings.TrimSpace(req.EntryID)
	if entryID == "" {
		return nil, journal.ErrEntryRequired()
	}

	entry, err := s.entryRepo.FindByIDAndOwner(ctx, entryID, ownerID)
	if err != nil {
		return nil, err
	}

	resp, err := retryx.Do(ctx, func(ctx context.Context) (llm.Response, error) {
		return s.llmClient.Chat(ctx,
			[]llm.Message{
				llm.NewSystemMessage(titleSystemPrompt),
				llm.NewUserMessage(entry.Content),
			},
			llm.WithModel(s.chatModel),
			llm.WithTemperature(0.3),
			llm.WithMaxTokens(30),
		)
	}, s.retryOpts...)
	if err != nil {
		return nil, journal.ErrGenerationFailed().WithCause(err)
	}

	title := strings.TrimSpace(strings.Trim(strings.TrimSpace(resp.Message.Content), "\"'“”«»"))
	if err := s.entryRepo.SetTitle(ctx, entryID, ownerID, title); err != nil {
		return nil, err
	}

	return &journal.TitleResponse{EntryID: entryID, Title: title}, nil
}
