package config

type PostgresConfig struct {
	Hostname string `yaml:"host"`
	Db       string `yaml:"db"`
	User     string `yaml:"username"`
	Pswd     string `yaml:"password"`
}

func (c *PostgresConfig) Host() string {
	return c.Hostname
}

func (c *PostgresConfig) Database() string {
	return c.Db
}

func (c *PostgresConfig) Username() string {
	return c.User
}

func (c *PostgresConfig) Password() string {
	return c.Pswd
}
