// container.go
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Abraxas-365/confidant/pkg/account/accountapi"
	"github.com/Abraxas-365/confidant/pkg/account/accountsrv"
	"github.com/Abraxas-365/confidant/pkg/ai/embedding"
	"github.com/Abraxas-365/confidant/pkg/ai/llm"
	aiopenai "github.com/Abraxas-365/confidant/pkg/ai/providers/openai"
	"github.com/Abraxas-365/confidant/pkg/ai/retryx"
	"github.com/Abraxas-365/confidant/pkg/chat/chatapi"
	"github.com/Abraxas-365/confidant/pkg/chat/chatinfra"
	"github.com/Abraxas-365/confidant/pkg/chat/chatsrv"
	"github.com/Abraxas-365/confidant/pkg/config"
	"github.com/Abraxas-365/confidant/pkg/iam/auth"
	"github.com/Abraxas-365/confidant/pkg/journal/journalapi"
	"github.com/Abraxas-365/confidant/pkg/journal/journalinfra"
	"github.com/Abraxas-365/confidant/pkg/journal/journalsrv"
	"github.com/Abraxas-365/confidant/pkg/logx"
	"github.com/Abraxas-365/confidant/pkg/memory/memoryapi"
	"github.com/Abraxas-365/confidant/pkg/memory/memoryinfra"
	"github.com/Abraxas-365/confidant/pkg/memory/memorysrv"
	"github.com/Abraxas-365/confidant/pkg/profile/profileapi"
	"github.com/Abraxas-365/confidant/pkg/profile/profileinfra"
	"github.com/Abraxas-365/confidant/pkg/profile/profilesrv"
	"github.com/Abraxas-365/confidant/pkg/proposal/proposalapi"
	"github.com/Abraxas-365/confidant/pkg/proposal/proposalinfra"
	"github.com/Abraxas-365/confidant/pkg/proposal/proposalsrv"
	"github.com/Abraxas-365/confidant/pkg/tips/tipsapi"
	"github.com/Abraxas-365/confidant/pkg/tips/tipssrv"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB    *sqlx.DB
	Redis *redis.Client

	// AI Clients
	LLMClient   *llm.Client
	EmbedClient *embedding.Client

	// Domain Services
	ProfileService  *profilesrv.ProfileService
	ProposalService *proposalsrv.ProposalService
	MemoryService   *memorysrv.MemoryService
	ChatService     *chatsrv.ChatService
	JournalService  *journalsrv.JournalService
	TipsService     *tipssrv.TipsService
	AccountService  *accountsrv.AccountService

	// API Handlers
	ProfileHandlers  *profileapi.ProfileHandlers
	ProposalHandlers *proposalapi.ProposalHandlers
	MemoryHandlers   *memoryapi.MemoryHandlers
	ChatHandlers     *chatapi.ChatHandlers
	JournalHandlers  *journalapi.JournalHandlers
	TipsHandlers     *tipsapi.TipsHandlers
	AccountHandlers  *accountapi.AccountHandlers

	// Middleware
	TokenService   auth.TokenService
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required for the embedding cache)", err)
	}
	logx.Info("✅ Redis connected")

	// 3. AI Clients
	provider := aiopenai.NewOpenAIProvider(c.Config.AI.OpenAIAPIKey)
	c.LLMClient = llm.NewClient(provider)
	c.EmbedClient = embedding.NewClient(provider)
	logx.Info("✅ AI clients configured")

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Repositories ---
	profileRepo := profileinfra.NewPostgresProfileRepository(c.DB)
	settingsRepo := profileinfra.NewPostgresSettingsRepository(c.DB)
	proposalRepo := proposalinfra.NewPostgresProposalRepository(c.DB)
	sessionRepo := chatinfra.NewPostgresSessionRepository(c.DB)
	messageRepo := chatinfra.NewPostgresMessageRepository(c.DB)
	journalRepo := journalinfra.NewPostgresJournalRepository(c.DB)
	factRepo := memoryinfra.NewPostgresFactRepository(c.DB)
	embeddingCache := memoryinfra.NewRedisEmbeddingCache(
		c.Redis,
		c.Config.AI.EmbeddingModel,
		c.Config.AI.EmbedCacheTTL,
	)

	// --- Shared retry policy for outbound AI calls ---
	retryOpts := []retryx.Option{
		retryx.WithMaxAttempts(c.Config.AI.RetryMaxAttempts),
		retryx.WithInitialDelay(c.Config.AI.RetryInitialDelay),
	}

	// --- Token Service & Middleware ---
	c.TokenService = auth.NewJWTServiceFromConfig(&c.Config.Auth.JWT)
	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService)

	// --- Domain Services ---
	c.ProfileService = profilesrv.NewProfileService(
		profileRepo,
		proposalRepo,
		messageRepo,
		c.LLMClient,
		c.Config.AI.ChatModel,
		retryOpts...,
	)

	c.ProposalService = proposalsrv.NewProposalService(
		proposalRepo,
		profileRepo,
	)

	c.MemoryService = memorysrv.NewMemoryService(
		factRepo,
		embeddingCache,
		c.EmbedClient,
		c.Config.AI.EmbeddingModel,
		c.Config.AI.EmbedConcurrency,
		retryOpts...,
	)

	c.ChatService = chatsrv.NewChatService(
		sessionRepo,
		messageRepo,
		settingsRepo,
		c.MemoryService,
		c.LLMClient,
		c.Config.AI.ChatModel,
		retryOpts...,
	)

	c.JournalService = journalsrv.NewJournalService(
		journalRepo,
		c.LLMClient,
		c.Config.AI.ChatModel,
		retryOpts...,
	)

	c.TipsService = tipssrv.NewTipsService(
		profileRepo,
		c.LLMClient,
		c.Config.AI.ChatModel,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		retryOpts...,
	)

	c.AccountService = accountsrv.NewAccountService(
		profileRepo,
		settingsRepo,
		proposalRepo,
		sessionRepo,
		messageRepo,
		journalRepo,
		factRepo,
		embeddingCache,
	)

	// --- API Handlers ---
	c.ProfileHandlers = profileapi.NewProfileHandlers(c.ProfileService)
	c.ProposalHandlers = proposalapi.NewProposalHandlers(c.ProposalService)
	c.MemoryHandlers = memoryapi.NewMemoryHandlers(c.MemoryService)
	c.ChatHandlers = chatapi.NewChatHandlers(c.ChatService)
	c.JournalHandlers = journalapi.NewJournalHandlers(c.JournalService)
	c.TipsHandlers = tipsapi.NewTipsHandlers(c.TipsService)
	c.AccountHandlers = accountapi.NewAccountHandlers(c.AccountService)

	logx.Info("✅ All services and handlers initialized")
}

// Cleanup closes all connections
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
