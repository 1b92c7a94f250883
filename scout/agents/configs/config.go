package configs

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed agent.yaml
var agentYAML []byte

// Site maps a query keyword to a target URL.
type Site struct {
	Keyword string
	URL     string
}

// Rule matches when every keyword appears in the query.
type Rule struct {
	Keywords []string `yaml:"keywords"`
	URL      string   `yaml:"url"`
}

type AgentConfig struct {
	AgentName             string    `yaml:"agent_name"`
	FallbackURL           string    `yaml:"fallback_url"`
	FallbackStrategy      string    `yaml:"fallback_strategy"`
	MaxHTMLChars          int       `yaml:"max_html_chars"`
	DefaultTargetElements []string  `yaml:"default_target_elements"`
	DefaultDataFields     []string  `yaml:"default_data_fields"`
	Sites                 []Site    `yaml:"-"`
	SitesNode             yaml.Node `yaml:"sites"`
	Rules                 []Rule    `yaml:"rules"`
	InterpretPrompt       string    `yaml:"interpret_prompt"`
	ExtractPrompt         string    `yaml:"extract_prompt"`
}

var (
	defaultOnce sync.Once
	defaultCfg  *AgentConfig
	defaultErr  error
)

// LoadConfig parses the embedded agent configuration once and returns a
// shared read-only copy.
func LoadConfig() (*AgentConfig, error) {
	defaultOnce.Do(func() {
		defaultCfg, defaultErr = Parse(agentYAML)
	})
	return defaultCfg, defaultErr
}

// MustLoadConfig panics if the embedded configuration is invalid.
func MustLoadConfig() *AgentConfig {
	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Parse decodes an agent configuration. Sites are read from the raw node so
// the document order of the mapping is kept.
func Parse(data []byte) (*AgentConfig, error) {
	cfg := &AgentConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrap(err, "decode agent config")
	}

	node := cfg.SitesNode
	if node.Kind != 0 && node.Kind != yaml.MappingNode {
		return nil, eris.New("sites must be a mapping of keyword to url")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyword := strings.ToLower(strings.TrimSpace(node.Content[i].Value))
		url := strings.TrimSpace(node.Content[i+1].Value)
		if keyword == "" || url == "" {
			return nil, eris.Errorf("empty site entry at line %d", node.Content[i].Line)
		}
		cfg.Sites = append(cfg.Sites, Site{Keyword: keyword, URL: url})
	}
	for i := range cfg.Rules {
		for j, k := range cfg.Rules[i].Keywords {
			cfg.Rules[i].Keywords[j] = strings.ToLower(strings.TrimSpace(k))
		}
	}

	switch {
	case cfg.FallbackURL == "":
		return nil, eris.New("fallback_url is required")
	case len(cfg.DefaultTargetElements) == 0 || len(cfg.DefaultDataFields) == 0:
		return nil, eris.New("default target elements and data fields are required")
	case cfg.InterpretPrompt == "" || cfg.ExtractPrompt == "":
		return nil, eris.New("prompts are required")
	}
	if cfg.MaxHTMLChars <= 0 {
		cfg.MaxHTMLChars = 8000
	}
	return cfg, nil
}
