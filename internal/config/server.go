package config

type ServerConfig struct {
	ServerPort string `yaml:"port"`
}

func (c *ServerConfig) Port() string {
	if c.ServerPort == "" {
		return ":8080"
	}
	return c.ServerPort
}
