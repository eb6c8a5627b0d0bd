package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramCfg TelegramCfg    `yaml:"-"`
	Google      GoogleCfg      `yaml:"-"`
	Catalog     CatalogCfg     `yaml:"catalog"`
	Activity    ActivityCfg    `yaml:"activity"`
	FileService FileServiceCfg `yaml:"file_service"`
	Reconciler  ReconcilerCfg  `yaml:"reconciler"`
	Formats     FormatsCfg     `yaml:"formats"`
	Archive     ArchiveCfg     `yaml:"archive"`
}

type TelegramCfg struct {
	Token string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty" validate:"required"`
}

// GoogleCfg holds the service-account fields the Drive uploader assembles into
// a credential document.
type GoogleCfg struct {
	ProjectID     string `env:"GOOGLE_PROJECT_ID,required,notEmpty" validate:"required"`
	PrivateKeyID  string `env:"GOOGLE_PRIVATE_KEY_ID,required,notEmpty" validate:"required"`
	PrivateKey    string `env:"GOOGLE_PRIVATE_KEY,required,notEmpty" validate:"required"`
	ClientEmail   string `env:"GOOGLE_CLIENT_EMAIL,required,notEmpty" validate:"required,email"`
	ClientID      string `env:"GOOGLE_CLIENT_ID,required,notEmpty" validate:"required"`
	ClientCertURL string `env:"GOOGLE_CLIENT_X509_CERT_URL,required,notEmpty" validate:"required,url"`
	FolderID      string `env:"GOOGLE_DRIVE_FOLDER_ID,required,notEmpty" validate:"required"`
}

type CatalogCfg struct {
	Path string `yaml:"path" validate:"required"`
}

type ActivityCfg struct {
	Path string `yaml:"path" validate:"required"`
}

type FileServiceCfg struct {
	DirPath string `yaml:"dir_path" validate:"required"`
}

type ReconcilerCfg struct {
	Schedule string        `yaml:"schedule" validate:"required"`
	MaxAge   time.Duration `yaml:"max_age" validate:"gt=0"`
}

type FormatsCfg struct {
	Presets     []string `yaml:"presets" validate:"required,min=1,dive,required"`
	CustomToken string   `yaml:"custom_token" validate:"required"`
}

type ArchiveCfg struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" validate:"required_if=Enabled true"`
	Port     uint16 `yaml:"port"`
	Username string `yaml:"username" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	Database string `yaml:"database" validate:"required_if=Enabled true"`
}

var ErrMissingConfig = errors.New("config file not found")

func Default() *Config {
	return &Config{
		Catalog:     CatalogCfg{Path: "resources/messages_ru.yaml"},
		Activity:    ActivityCfg{Path: "all_users_log.json"},
		FileService: FileServiceCfg{DirPath: "spool"},
		Reconciler: ReconcilerCfg{
			Schedule: "@every 1h",
			MaxAge:   24 * time.Hour,
		},
		Formats: FormatsCfg{
			Presets:     []string{"A4", "A3", "A2", "A1", "A0"},
			CustomToken: "Свой формат",
		},
		Archive: ArchiveCfg{Port: 5432},
	}
}

// Load reads the YAML file at path over the defaults, then the secrets from the
// environment. A .env file next to the process is honoured when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := LoadSecrets(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadFile reads only the YAML part of the configuration.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadSecrets fills the credential sections from the environment. Every variable
// is required, and all missing names are reported at once.
func LoadSecrets(cfg *Config) error {
	if err := env.Parse(&cfg.TelegramCfg); err != nil {
		return fmt.Errorf("missing telegram settings: %w", err)
	}
	if err := env.Parse(&cfg.Google); err != nil {
		return fmt.Errorf("missing google credentials: %w", err)
	}
	cfg.Google.PrivateKey = strings.ReplaceAll(cfg.Google.PrivateKey, `\n`, "\n")
	return nil
}
