package config

type MemcacheConfig struct {
	HostList []string `yaml:"hosts"`
}

func (c *MemcacheConfig) Hosts() []string {
	return c.HostList
}

func (c *MemcacheConfig) Enabled() bool {
	return len(c.HostList) > 0
}
