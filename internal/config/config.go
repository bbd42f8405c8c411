package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"aiupstart.com/go-chat/internal/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel   = "gemini-2.0-flash"
)

// DefaultDeveloperQuestions are the phrases answered without calling the model.
var DefaultDeveloperQuestions = []string{
	"who is your developer",
	"who created you",
	"who is your creator",
	"who made you",
	"who developed you",
}

type LLMConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	APIKey  string        `yaml:"-"`
}

type ChatConfig struct {
	GreetingPrompt     string        `yaml:"greeting_prompt"`
	DeveloperQuestions []string      `yaml:"developer_questions"`
	DeveloperAnswer    string        `yaml:"developer_answer"`
	MaxTurns           int           `yaml:"max_turns"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
}

type UIConfig struct {
	Title           string `yaml:"title"`
	Caption         string `yaml:"caption"`
	DefaultLanguage string `yaml:"default_language"`
	CodeStyle       string `yaml:"code_style"`
}

type Config struct {
	Addr     string     `yaml:"addr"`
	LogLevel string     `yaml:"log_level"`
	LogFile  string     `yaml:"log_file"`
	LLM      LLMConfig  `yaml:"llm"`
	Chat     ChatConfig `yaml:"chat"`
	UI       UIConfig   `yaml:"ui"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Addr:     ":8501",
		LogLevel: "info",
		LLM: LLMConfig{
			BaseURL: DefaultBaseURL,
			Model:   DefaultModel,
			Timeout: 60 * time.Second,
		},
		Chat: ChatConfig{
			GreetingPrompt:     "Greet the user in a friendly way.",
			DeveloperQuestions: append([]string(nil), DefaultDeveloperQuestions...),
			DeveloperAnswer:    "Aliyan Aftab",
			MaxTurns:           100,
			SessionTTL:         24 * time.Hour,
		},
		UI: UIConfig{
			Title:           "🤖 AI Chatbot",
			Caption:         "Made By Aliyan Aftab",
			DefaultLanguage: "python",
			CodeStyle:       "monokai",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. The API key is taken from the environment after loading .env.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // Loads .env file if present

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// Validate checks the configuration, logging every problem before
// returning a single error.
func (c *Config) Validate() error {
	hasErr := false
	fail := func(field, msg string) {
		utils.Logger.Error().Str("module", "config").Str("field", field).Msg(msg)
		hasErr = true
	}

	if c.Addr == "" {
		fail("addr", "listen address is empty")
	}
	if c.LLM.APIKey == "" {
		fail("llm.api_key", "Gemini API key not found. Set GEMINI_API_KEY in the environment or .env")
	}
	if c.LLM.Model == "" {
		fail("llm.model", "model is empty")
	}
	if c.LLM.BaseURL == "" {
		fail("llm.base_url", "base url is empty")
	}
	if c.Chat.MaxTurns < 0 {
		fail("chat.max_turns", "max_turns must not be negative")
	}
	if c.Chat.DeveloperAnswer == "" && len(c.Chat.DeveloperQuestions) > 0 {
		fail("chat.developer_answer", "developer questions configured without an answer")
	}
	for _, q := range c.Chat.DeveloperQuestions {
		if q == "" {
			fail("chat.developer_questions", "empty trigger phrase")
		}
	}

	if hasErr {
		return fmt.Errorf("invalid config: see above errors")
	}
	return nil
}
