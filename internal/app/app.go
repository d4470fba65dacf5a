package app

import (
	"context"
	"fmt"
	"time"

	"github.com/markdave123-py/Cluster/internal/config"
	"github.com/markdave123-py/Cluster/internal/core"
	"github.com/markdave123-py/Cluster/internal/core/auth"
	db "github.com/markdave123-py/Cluster/internal/core/database"
	"github.com/markdave123-py/Cluster/internal/core/ingestion_engine"
	"github.com/markdave123-py/Cluster/internal/core/llm"
	objectclient "github.com/markdave123-py/Cluster/internal/core/object-client"
	"github.com/markdave123-py/Cluster/internal/core/persona"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/services"
)

// Deps are the collaborators the services are built from.
type Deps struct {
	DB        db.DbClient
	LLM       core.LLMProvider
	Personas  *persona.Store
	Extractor core.DocumentExtractor
	Splitter  core.TextSplitter
	Archiver  ingestion_engine.Archiver
	Picker    core.Picker
}

type App struct {
	DBClient db.DbClient
	LLM      llm.Client
	Server   *Server
	log      *logger.Logger
	stop     context.CancelFunc
}

// NewApp connects every backend named in cfg and builds the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	llmClient, err := llm.NewFromConfig(appCtx, cfg)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("couldn't initialize the %s model backend: %w", cfg.LLMBackend, err)
	}
	log.Info("model backend ready", "backend", cfg.LLMBackend)

	personas := persona.Load(cfg.PersonasPath, core.DefaultPicker, log)

	workerCtx, stop := context.WithCancel(context.Background())
	var archiver ingestion_engine.Archiver
	if cfg.ArchiveEnabled() {
		objClient, err := objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			stop()
			_ = llmClient.Close()
			_ = dbClient.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		a := ingestion_engine.NewUploadArchiver(objClient, &ingestion_engine.ArchiveConfig{
			Bucket:    cfg.BucketName,
			Prefix:    "lectures",
			QueueSize: cfg.ArchiveQueueSize,
		}, log.With("component", "archiver"))
		a.Start(workerCtx, cfg.ArchiveWorkers)
		archiver = a
		log.Info("upload archiving enabled", "bucket", cfg.BucketName, "workers", cfg.ArchiveWorkers, "queue", cfg.ArchiveQueueSize)
	}

	deps := Deps{
		DB:        dbClient,
		LLM:       llmClient,
		Personas:  personas,
		Extractor: ingestion_engine.NewDocconvExtractor(false),
		Splitter: ingestion_engine.NewChunker(ingestion_engine.ChunkConfig{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
		}),
		Archiver: archiver,
		Picker:   core.DefaultPicker,
	}

	return &App{
		DBClient: dbClient,
		LLM:      llmClient,
		Server:   NewServer(cfg, deps, log),
		log:      log,
		stop:     stop,
	}, nil
}

func (a *App) Close() {
	if a.stop != nil {
		a.stop()
	}
	if a.LLM != nil {
		if err := a.LLM.Close(); err != nil {
			a.log.Warn("closing model backend", "error", err)
		}
	}
	if a.DBClient != nil {
		if err := a.DBClient.Close(); err != nil {
			a.log.Warn("closing database", "error", err)
		}
	}
}

// newServices builds the service layer from deps.
func newServices(cfg *config.Config, deps Deps, log *logger.Logger) (*services.UserService, *services.LectureService, *services.HistoryService) {
	tokens := auth.NewTokenManager(cfg.AuthSecret, auth.TokenTTL)
	tutor := services.NewTutorService(deps.LLM, deps.Personas)

	users := services.NewUserService(deps.DB, tokens, log.With("service", "user"))
	lectures := services.NewLectureService(
		deps.Extractor,
		deps.Splitter,
		tutor,
		deps.Archiver,
		deps.Picker,
		services.LectureServiceConfig{SummariseConcurrency: cfg.SummariseConcurrency},
		log.With("service", "lecture"),
	)
	history := services.NewHistoryService(deps.DB, log.With("service", "history"))
	return users, lectures, history
}
