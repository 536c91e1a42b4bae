package deepseek

// Config contains DeepSeek provider configuration. DeepSeek exposes an
// OpenAI-compatible API, so everything maps onto the shared chat transport.
type Config struct {
	APIKey   string `env:"DEEPSEEK_API_KEY"`
	BaseURL  string `env:"DEEPSEEK_BASE_URL"  envDefault:"https://api.deepseek.com/v1"`
	Model    string `env:"DEEPSEEK_MODEL"     envDefault:"deepseek-chat"`
	Timeout  int    `env:"DEEPSEEK_TIMEOUT"   envDefault:"30"`
	Priority int    `env:"DEEPSEEK_PRIORITY"  envDefault:"1"`
}
