package config

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type StorageConfig struct {
	StorageBackend string `yaml:"backend"`
	DataDirPath    string `yaml:"data-dir"`
}

func (c *StorageConfig) Backend() string {
	if c.StorageBackend == "" {
		return BackendFile
	}
	return c.StorageBackend
}

func (c *StorageConfig) DataDir() string {
	if c.DataDirPath == "" {
		return "data"
	}
	return c.DataDirPath
}
