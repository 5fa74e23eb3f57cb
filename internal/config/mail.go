package config

type MailConfig struct {
	Hostname string `yaml:"host"`
	MailPort string `yaml:"port"`
	User     string `yaml:"username"`
	Pswd     string `yaml:"password"`
	FromAddr string `yaml:"from"`
}

func (c *MailConfig) Host() string {
	return c.Hostname
}

func (c *MailConfig) Port() string {
	if c.MailPort == "" {
		return "587"
	}
	return c.MailPort
}

func (c *MailConfig) Username() string {
	return c.User
}

func (c *MailConfig) Password() string {
	return c.Pswd
}

func (c *MailConfig) From() string {
	return c.FromAddr
}

func (c *MailConfig) Configured() bool {
	return c.Hostname != "" && c.FromAddr != ""
}
