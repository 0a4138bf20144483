package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/asafo-labs/insurance-ai-platform/cmd/mainconfig"
	appconfig "github.com/asafo-labs/insurance-ai-platform/internal/config"
	"github.com/asafo-labs/insurance-ai-platform/internal/conversation"
	"github.com/asafo-labs/insurance-ai-platform/internal/insurance"
	"github.com/asafo-labs/insurance-ai-platform/internal/leads"
	"github.com/asafo-labs/insurance-ai-platform/internal/notify"
	"github.com/asafo-labs/insurance-ai-platform/internal/observability/metrics"
	"github.com/asafo-labs/insurance-ai-platform/pkg/logging"
)

// conversationStore is the combined persistence surface the engine needs.
type conversationStore interface {
	conversation.HistoryStore
	conversation.ProfileStore
}

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := buildStore(cfg, logger)
	llm := buildLLMClient(ctx, cfg, logger)
	knowledge := buildKnowledge(ctx, cfg, logger)
	leadsSvc := buildLeadPipeline(cfg, logger)

	engine := conversation.NewEngine(conversation.EngineDeps{
		History:    store,
		Profiles:   store,
		Extractor:  insurance.NewExtractor(cfg.DefaultCity),
		Scorer:     conversation.NewLeadScorer(llm, logger.Logger),
		Capturer:   leadsSvc,
		Knowledge:  knowledge,
		LLM:        llm,
		Metrics:    metrics.NewConversationMetrics(nil),
		Logger:     logger,
		LLMTimeout: cfg.LLMTimeout,
	})

	dispatcher := buildDispatcher(ctx, cfg, engine, logger)

	logger.Info("insurance assistant started",
		"env", cfg.Env,
		"memory_queue", cfg.UseMemoryQueue,
		"llm_configured", llm != nil,
	)

	go runConsole(ctx, dispatcher, logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down assistant...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("dispatcher shutdown failed", "error", err)
	}
	logger.Info("assistant stopped")
}

func buildStore(cfg *appconfig.Config, logger *logging.Logger) conversationStore {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory conversation store")
		return conversation.NewMemoryStore(cfg.HistoryLimit)
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	logger.Info("using redis conversation store", "addr", cfg.RedisAddr)
	return conversation.NewRedisStore(client, cfg.HistoryLimit, nil)
}

func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) conversation.LLMClient {
	var bedrock conversation.LLMClient
	if cfg.BedrockModelID != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, bedrock disabled", "error", err)
		} else {
			bedrock = conversation.WithDefaultModel(
				conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)),
				cfg.BedrockModelID,
			)
		}
	}

	var gemini conversation.LLMClient
	if cfg.GeminiAPIKey != "" {
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to initialize gemini, fallback disabled", "error", err)
		} else {
			gemini = client
		}
	}

	switch {
	case bedrock != nil && gemini != nil:
		return conversation.NewFallbackLLMClient(bedrock, gemini, logger.Logger)
	case bedrock != nil:
		return bedrock
	case gemini != nil:
		return gemini
	default:
		logger.Warn("no LLM configured, running with rule-based replies only")
		return nil
	}
}

func buildKnowledge(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) conversation.KnowledgeRetriever {
	if cfg.BedrockEmbeddingModelID == "" {
		return nil
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config, knowledge retrieval disabled", "error", err)
		return nil
	}
	embedder := conversation.NewBedrockEmbeddingClient(bedrockruntime.NewFromConfig(awsCfg))
	store := conversation.NewMemoryRAGStore(embedder, cfg.BedrockEmbeddingModelID, logger)

	seedCtx, seedCancel := context.WithTimeout(ctx, 30*time.Second)
	defer seedCancel()
	if err := store.AddDocuments(seedCtx, productKnowledge()); err != nil {
		logger.Error("failed to seed product knowledge", "error", err)
		return nil
	}
	return store
}

func buildLeadPipeline(cfg *appconfig.Config, logger *logging.Logger) *leads.Service {
	var repo leads.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres, using in-memory leads", "error", err)
			repo = leads.NewInMemoryRepository()
		} else {
			logger.Info("using postgres lead store")
			repo = leads.NewPostgresRepository(pool)
		}
	} else {
		logger.Info("using in-memory lead store")
		repo = leads.NewInMemoryRepository()
	}

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	}

	notifier := notify.NewService(sender, cfg.SalesTeamEmails, logger)
	return leads.NewService(repo, notifier, logger)
}

func buildDispatcher(ctx context.Context, cfg *appconfig.Config, engine *conversation.Engine, logger *logging.Logger) *conversation.Orchestrator {
	// SQS-backed dispatch needs both the flag and a queue URL; anything else
	// falls back to the in-process queue.
	if !cfg.UseMemoryQueue && cfg.ConversationQueueURL != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, using in-process queue", "error", err)
		} else {
			queue := conversation.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.ConversationQueueURL)
			logger.Info("using SQS conversation queue", "queue_url", cfg.ConversationQueueURL)
			return conversation.NewOrchestrator(engine, queue, logger,
				conversation.WithWorkerCount(cfg.WorkerCount))
		}
	}
	return conversation.NewOrchestrator(engine, conversation.NewMemoryQueue(128), logger,
		conversation.WithWorkerCount(cfg.WorkerCount))
}

// runConsole reads turns from stdin so the assistant can be exercised without
// a messaging channel attached.
func runConsole(ctx context.Context, dispatcher conversation.Dispatcher, logger *logging.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("insurance assistant ready. Type a message and press enter.")
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		resp, err := dispatcher.ProcessMessage(ctx, conversation.MessageRequest{
			UserID: "console",
			Text:   text,
		})
		if err != nil {
			logger.Error("turn failed", "error", err)
			continue
		}
		fmt.Printf("[%s] %s\n", resp.Kind, resp.Message)
	}
}

// productKnowledge seeds the retrieval store with baseline product facts.
func productKnowledge() []string {
	return []string{
		"Comprehensive auto insurance covers damage to your own vehicle, theft, fire, and third-party liability. Third-party cover only pays for damage you cause to others.",
		"Health insurance plans come in basic, standard, and premium tiers. All tiers cover hospital admissions and outpatient visits; standard adds specialist care and premium adds a wider hospital network.",
		"Life insurance pays the chosen sum assured to your beneficiaries if you pass away during the policy term. Premiums rise with age at entry.",
		"Business insurance is tailored per company and priced by a commercial specialist based on business type, staff count, property value, and revenue.",
		"Quotes are estimates in Ghana cedis, valid for 30 days, and the final premium is confirmed at underwriting.",
	}
}
