package config

type AppConfig struct {
	CategoryNames     []string `yaml:"categories"`
	SessionTTLMinutes int64    `yaml:"session-ttl-minutes"`
}

const defaultSessionTTLMinutes = 30

func (c *AppConfig) Categories() []string {
	return c.CategoryNames
}

func (c *AppConfig) SessionTTL() int64 {
	if c.SessionTTLMinutes <= 0 {
		return defaultSessionTTLMinutes
	}
	return c.SessionTTLMinutes
}
