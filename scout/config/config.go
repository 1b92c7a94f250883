package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

var ErrMissingAPIKey = eris.New("missing llm api key")

type providerDefaults struct {
	model   string
	baseURL string
	keyEnv  string
}

var defaults = map[string]providerDefaults{
	ProviderGemini:    {"gemini-2.0-flash", "https://generativelanguage.googleapis.com/v1beta/openai", "GEMINI_API_KEY"},
	ProviderOpenAI:    {"gpt-4o-mini", "https://api.openai.com/v1", "OPENAI_API_KEY"},
	ProviderGroq:      {"llama-3.3-70b-versatile", "https://api.groq.com/openai/v1", "GROQ_API_KEY"},
	ProviderOllama:    {"llama3.1", "http://localhost:11434/api", ""},
	ProviderAnthropic: {"claude-sonnet-4-5", "", "ANTHROPIC_API_KEY"},
}

type LLMConfig struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	KeyEnv    string
	Timeout   time.Duration
	MaxTokens int64
}

type RenderConfig struct {
	PoolSize       int
	Timeout        time.Duration
	Settle         time.Duration
	Scroll         bool
	Headless       bool
	BlockResources bool
	HTTPFallback   bool
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether screenshot storage is configured.
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != "" && m.Bucket != ""
}

type Config struct {
	ServerAddr   string
	LogDir       string
	JSONScanMode string
	CORSOrigins  []string
	LLM          LLMConfig
	Render       RenderConfig
	MinIO        MinIOConfig
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini))
	d := defaults[provider]

	return Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8000"),
		LogDir:       getEnv("LOG_DIR", "logs"),
		JSONScanMode: getEnv("JSON_SCAN_MODE", "balanced"),
		CORSOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LLM: LLMConfig{
			Provider:  provider,
			Model:     getEnv("LLM_MODEL", d.model),
			BaseURL:   getEnv("LLM_BASE_URL", d.baseURL),
			APIKey:    getEnv(d.keyEnv, ""),
			KeyEnv:    d.keyEnv,
			Timeout:   getEnvSeconds("LLM_TIMEOUT_SECONDS", 60),
			MaxTokens: int64(getEnvInt("LLM_MAX_TOKENS", 4096)),
		},
		Render: RenderConfig{
			PoolSize:       getEnvInt("RENDERER_POOL_SIZE", 1),
			Timeout:        getEnvSeconds("RENDER_TIMEOUT_SECONDS", 30),
			Settle:         getEnvSeconds("RENDER_SETTLE_SECONDS", 2),
			Scroll:         getEnvBool("RENDER_SCROLL", true),
			Headless:       getEnvBool("RENDER_HEADLESS", true),
			BlockResources: getEnvBool("RENDER_BLOCK_RESOURCES", true),
			HTTPFallback:   getEnvBool("RENDER_HTTP_FALLBACK", true),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "scout"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if _, ok := defaults[c.LLM.Provider]; !ok {
		return eris.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.LLM.Provider != ProviderOllama && c.LLM.APIKey == "" {
		return eris.Wrapf(ErrMissingAPIKey, "%s is required for provider %s", c.LLM.KeyEnv, c.LLM.Provider)
	}
	if c.Render.PoolSize < 1 {
		return eris.Errorf("RENDERER_POOL_SIZE must be at least 1, got %d", c.Render.PoolSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if key == "" {
		return fallback
	}
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvSeconds(key string, fallback float64) time.Duration {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || v < 0 {
		v = fallback
	}
	return time.Duration(v * float64(time.Second))
}

func getEnvList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
