package config

type TextGenConfig struct {
	Key             string  `yaml:"api-key"`
	EndpointURL     string  `yaml:"endpoint"`
	MaxNewTokens    int     `yaml:"max-new-tokens"`
	Temp            float64 `yaml:"temperature"`
	TimeoutSeconds  int64   `yaml:"timeout-seconds"`
	CacheTTLMinutes int64   `yaml:"cache-ttl-minutes"`
}

const (
	defaultMaxNewTokens    = 80
	defaultTemperature     = 0.7
	defaultTimeoutSeconds  = 15
	defaultCacheTTLMinutes = 5
)

func (c *TextGenConfig) ApiKey() string {
	return c.Key
}

func (c *TextGenConfig) Endpoint() string {
	return c.EndpointURL
}

func (c *TextGenConfig) MaxTokens() int {
	if c.MaxNewTokens <= 0 {
		return defaultMaxNewTokens
	}
	return c.MaxNewTokens
}

func (c *TextGenConfig) Temperature() float64 {
	if c.Temp <= 0 {
		return defaultTemperature
	}
	return c.Temp
}

func (c *TextGenConfig) Timeout() int64 {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds
	}
	return c.TimeoutSeconds
}

func (c *TextGenConfig) CacheTTL() int64 {
	if c.CacheTTLMinutes <= 0 {
		return defaultCacheTTLMinutes
	}
	return c.CacheTTLMinutes
}
