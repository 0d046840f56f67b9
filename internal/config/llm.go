package config

// LLMConfig configures the text-generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, anthropic, gemini, xai, zai, openrouter
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model,omitempty"`    // empty = provider default
	BaseURL  string `yaml:"base_url,omitempty"` // empty = provider default
	Timeout  string `yaml:"timeout"`            // per-call, Go duration
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"openai", "anthropic", "gemini", "xai", "zai", "openrouter"}

// IsValidProvider reports whether p is one of ValidProviders.
func IsValidProvider(p string) bool {
	for _, v := range ValidProviders {
		if p == v {
			return true
		}
	}
	return false
}
