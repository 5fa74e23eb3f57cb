package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const configFile = "data/config.yaml"

type config struct {
	Server   ServerConfig   `yaml:"server"`
	App      AppConfig      `yaml:"app"`
	Storage  StorageConfig  `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	TextGen  TextGenConfig  `yaml:"textgen"`
	Memcache MemcacheConfig `yaml:"memcached"`
	Mail     MailConfig     `yaml:"mail"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type Service struct {
	config config
}

func New() (*Service, error) {
	s := &Service{}

	// secrets live in .env or real env vars, never in the yaml
	_ = godotenv.Load()

	rawYAML, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}

	s.overrideFromEnv()
	return s, nil
}

func (s *Service) overrideFromEnv() {
	if key := os.Getenv("TEXTGEN_API_KEY"); key != "" {
		s.config.TextGen.Key = key
	}
	if pswd := os.Getenv("POSTGRES_PASSWORD"); pswd != "" {
		s.config.Postgres.Pswd = pswd
	}
	if pswd := os.Getenv("SMTP_PASSWORD"); pswd != "" {
		s.config.Mail.Pswd = pswd
	}
}

func (s *Service) Server() *ServerConfig {
	return &s.config.Server
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func (s *Service) Storage() *StorageConfig {
	return &s.config.Storage
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) TextGen() *TextGenConfig {
	return &s.config.TextGen
}

func (s *Service) Memcache() *MemcacheConfig {
	return &s.config.Memcache
}

func (s *Service) Mail() *MailConfig {
	return &s.config.Mail
}

func (s *Service) Tracing() *TracingConfig {
	return &s.config.Tracing
}
