package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port              int           `yaml:"port" validate:"required,min=1,max=65535"`
	Storage           string        `yaml:"storage" validate:"required,oneof=memory postgres"`
	JwtTTL            time.Duration `yaml:"jwt_ttl" validate:"required"`
	SecondThreshold   int           `yaml:"second_threshold" validate:"min=0"`
	SecondLockTimeout time.Duration `yaml:"second_lock_timeout"`
	IssueCreatorRoles []string      `yaml:"issue_creator_roles" validate:"dive,oneof=admin business"`
	SortLocale        string        `yaml:"sort_locale"`
	AllowedOrigins    []string      `yaml:"allowed_origins"`
	SecureCookies     bool          `yaml:"secure_cookies"`
	LogLevel          string        `yaml:"log_level"`
	LogJSON           bool          `yaml:"log_json"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	SeedFile          string        `yaml:"seed_file"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type Private struct {
	JwtKey   string `yaml:"jwt_key" validate:"required"`
	Pg       *Pg    `yaml:"pg"`
	RedisURL string `yaml:"redis_url"`
}

// implementing service config interfaces

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func (p *Public) applyDefaults() {
	if p.SecondThreshold == 0 {
		p.SecondThreshold = 1
	}
	if p.SecondLockTimeout == 0 {
		p.SecondLockTimeout = 2 * time.Second
	}
	if len(p.IssueCreatorRoles) == 0 {
		p.IssueCreatorRoles = []string{"business"}
	}
	if p.SortLocale == "" {
		p.SortLocale = "en"
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.ReadTimeout == 0 {
		p.ReadTimeout = 10 * time.Second
	}
	if p.WriteTimeout == 0 {
		p.WriteTimeout = 15 * time.Second
	}
}

func (c *Config) validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(&c.Public); err != nil {
		return fmt.Errorf("public config: %w", err)
	}
	if err := v.Struct(&c.Private); err != nil {
		return fmt.Errorf("private config: %w", err)
	}
	if c.Public.Storage == StoragePostgres && c.Private.Pg == nil {
		return fmt.Errorf("private config: pg section is required for postgres storage")
	}
	return nil
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.UnmarshalStrict(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml and private.yaml from configFolder.
func Load(configFolder string) (*Config, error) {
	var cfg Config
	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, err
	}
	if err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.Private); err != nil {
		return nil, err
	}
	cfg.Public.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
