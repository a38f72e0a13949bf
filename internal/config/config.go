// Package config loads estudio settings from defaults, an optional YAML file,
// a .env file and ESTUDIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/alexanderramin/estudio/internal/llm"
)

const envPrefix = "ESTUDIO"

type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	Log    LogConfig    `mapstructure:"log"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Server ServerConfig `mapstructure:"server"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// TaskConfig overrides the parameters of a single generative task.
type TaskConfig struct {
	Temperature *float64 `mapstructure:"temperature"`
	MaxTokens   int      `mapstructure:"max_tokens"`
	TimeoutMs   int      `mapstructure:"timeout_ms"`
}

type LLMConfig struct {
	Enabled   bool                  `mapstructure:"enabled"`
	Provider  string                `mapstructure:"provider"`
	Endpoint  string                `mapstructure:"endpoint"`
	Model     string                `mapstructure:"model"`
	APIKey    string                `mapstructure:"api_key"`
	TimeoutMs int                   `mapstructure:"timeout_ms"`
	LogCalls  bool                  `mapstructure:"log_calls"`
	Tasks     map[string]TaskConfig `mapstructure:"tasks"`
}

type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	SessionFile string        `mapstructure:"session_file"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Home returns the estudio data directory (~/.estudio).
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".estudio"), nil
}

// Load reads the configuration. path names a YAML file; when empty,
// ~/.estudio/config.yaml is used if it exists.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	home, err := Home()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, home)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, "config.yaml")
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	def := llm.DefaultConfig()

	v.SetDefault("db.path", filepath.Join(home, "estudio.db"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("llm.enabled", def.Enabled)
	v.SetDefault("llm.provider", string(def.Provider))
	v.SetDefault("llm.endpoint", def.Endpoint)
	v.SetDefault("llm.model", def.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout_ms", def.TimeoutMs)
	v.SetDefault("llm.log_calls", def.LogCalls)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "estudio")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.session_file", filepath.Join(home, "session.json"))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DB.Path) == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderOllama, llm.ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q: want ollama or openai", c.LLM.Provider))
	}
	if c.LLM.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout_ms must be positive, got %d", c.LLM.TimeoutMs))
	}
	known := map[string]bool{}
	for _, t := range llm.AllTasks {
		known[string(t)] = true
	}
	for name, tc := range c.LLM.Tasks {
		if !known[name] {
			errs = append(errs, fmt.Errorf("llm.tasks.%s: unknown task", name))
			continue
		}
		if tc.TimeoutMs < 0 || tc.MaxTokens < 0 {
			errs = append(errs, fmt.Errorf("llm.tasks.%s: negative limits", name))
		}
		if tc.Temperature != nil && (*tc.Temperature < 0 || *tc.Temperature > 2) {
			errs = append(errs, fmt.Errorf("llm.tasks.%s: temperature %.2f out of range", name, *tc.Temperature))
		}
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// LLMSettings converts the llm section into the client configuration,
// starting from the built-in task defaults.
func (c *Config) LLMSettings() llm.LLMConfig {
	out := llm.DefaultConfig()
	out.Enabled = c.LLM.Enabled
	out.LogCalls = c.LLM.LogCalls
	out.Provider = llm.Provider(c.LLM.Provider)
	out.Endpoint = c.LLM.Endpoint
	out.Model = c.LLM.Model
	out.APIKey = c.LLM.APIKey
	out.TimeoutMs = c.LLM.TimeoutMs
	for name, tc := range c.LLM.Tasks {
		task := llm.TaskType(name)
		cur := out.Tasks[task]
		if tc.Temperature != nil {
			cur.Temperature = *tc.Temperature
		}
		if tc.MaxTokens > 0 {
			cur.MaxTokens = tc.MaxTokens
		}
		out.Tasks[task] = cur
		out.SetTaskTimeout(task, tc.TimeoutMs)
	}
	return out
}

// JWTSecret returns the configured signing secret. Without one, a secret is
// derived from the database path so tokens survive restarts on one machine.
func (c *Config) JWTSecret() string {
	if s := strings.TrimSpace(c.Auth.JWTSecret); s != "" {
		return s
	}
	return "estudio-local:" + c.DB.Path
}
