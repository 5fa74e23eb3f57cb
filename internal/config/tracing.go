package config

type TracingConfig struct {
	TracingEnabled bool   `yaml:"enabled"`
	Service        string `yaml:"service-name"`
}

func (c *TracingConfig) Enabled() bool {
	return c.TracingEnabled
}

func (c *TracingConfig) ServiceName() string {
	if c.Service == "" {
		return "spendwise"
	}
	return c.Service
}
