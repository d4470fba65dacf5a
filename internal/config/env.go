package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	LLMOllama = "ollama"
	LLMGemini = "gemini"
	LLMOpenAI = "openai"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	MaxUploadMB    int
	RequestTimeout time.Duration

	AuthSecret string

	PersonasPath string

	StoreBackend string
	MongoURI     string
	MongoDBName  string
	DatabaseURL  string
	SslCertPath  string

	LLMBackend    string
	OllamaURL     string
	OllamaModel   string
	AIAPIKey      string
	GenModel      string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	ChunkSize            int
	ChunkOverlap         int
	SummariseConcurrency int

	AwsAccessKey     string
	AwsSecretKey     string
	AwsRegion        string
	AwsEndpoint      string
	BucketName       string
	ArchiveWorkers   int
	ArchiveQueueSize int
}

// LoadConfig loads the environment variables and returns the config.
// Malformed numbers or durations are reported, not silently defaulted.
func LoadConfig() (*Config, error) {

	_ = godotenv.Load()

	p := &envParser{}
	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxUploadMB:    p.intValue("MAX_UPLOAD_MB", 50),
		RequestTimeout: p.durationValue("REQUEST_TIMEOUT", 0),

		AuthSecret: getEnv("SECRET_AUTH_KEY", ""),

		PersonasPath: getEnv("PERSONAS_PATH", "./prompts/prompts.yaml"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreMongo)),
		MongoURI:     getEnv("MONGO_DB_CONNECTION_STRING", "mongodb://localhost:27017"),
		MongoDBName:  getEnv("MONGO_DB_NAME", "user_db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SslCertPath:  getEnv("SSL_CERT_PATH", ""),

		LLMBackend:    strings.ToLower(getEnv("LLM_BACKEND", LLMOllama)),
		OllamaURL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3.2"),
		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GenModel:      getEnv("GEN_MODEL", "gemini-1.5-flash"),
		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		ChunkSize:            p.intValue("CHUNK_SIZE", 512),
		ChunkOverlap:         p.intValue("CHUNK_OVERLAP", 20),
		SummariseConcurrency: p.intValue("SUMMARISE_CONCURRENCY", 4),

		AwsAccessKey:     getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:     getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:        getEnv("AWS_REGION", "us-east-2"),
		AwsEndpoint:      getEnv("S3_ENDPOINT", ""),
		BucketName:       getEnv("BUCKET_NAME", ""),
		ArchiveWorkers:   p.intValue("ARCHIVE_WORKERS", 2),
		ArchiveQueueSize: p.intValue("ARCHIVE_QUEUE_SIZE", 4),
	}
	if err := p.err(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the selected backends depend on.
func (c *Config) Validate() error {
	if c.AuthSecret == "" {
		return errors.New("SECRET_AUTH_KEY not set")
	}
	switch c.StoreBackend {
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_DB_CONNECTION_STRING not set")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL not set")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.LLMBackend {
	case LLMOllama:
	case LLMGemini:
		if c.AIAPIKey == "" {
			return errors.New("GEMINI_API_KEY not set")
		}
	case LLMOpenAI:
		if c.OpenAIKey == "" {
			return errors.New("OPENAI_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown LLM_BACKEND %q", c.LLMBackend)
	}
	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("invalid chunking: size=%d overlap=%d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.ArchiveEnabled() && c.ArchiveQueueSize <= 0 {
		return fmt.Errorf("ARCHIVE_QUEUE_SIZE must be positive, got %d", c.ArchiveQueueSize)
	}
	return nil
}

// ArchiveEnabled reports whether uploads should be copied to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.BucketName != "" && c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// envParser collects every malformed value so one run reports them all.
type envParser struct {
	errs []error
}

func (p *envParser) intValue(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s=%q is not an integer", key, v))
		return def
	}
	return n
}

func (p *envParser) durationValue(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s=%q is not a duration", key, v))
		return def
	}
	return d
}

func (p *envParser) err() error {
	return errors.Join(p.errs...)
}

func getEnvList(key string, def []string) []string {
	v := strings.TrimSpace(getEnv(key, ""))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
