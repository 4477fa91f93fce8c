// Package config loads application configuration from an optional YAML file
// and FASTPANEL_-prefixed environment variables, with a .env file loaded
// first. The resulting Config is passed explicitly into every component;
// there is no process-wide configuration state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries every tunable the pipelines consume. The download retry
// count and delay mirror the observed behavior of the wrapped installer;
// no adaptive backoff is used. Failure markers are configuration because the
// upstream script's wording may change.
type Config struct {
	DatabasePath string

	SSHPort        uint
	SSHTimeout     time.Duration
	CommandTimeout time.Duration

	InstallerURL       string
	InstallerPath      string
	AdminPort          uint16
	DownloadRetries    int
	DownloadRetryDelay time.Duration
	FailureMarkers     []string

	PanelCLIFallbackPath string
	PanelCLIBinary       string
	DefaultLEEmail       string
	FTPPasswordLength    int
}

func defaultDatabasePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "fastpanel.db"
	}
	return filepath.Join(homeDir, ".fastpanel", "fastpanel.db")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DatabasePath: defaultDatabasePath(),

		SSHPort:        22,
		SSHTimeout:     30 * time.Second,
		CommandTimeout: 5 * time.Minute,

		InstallerURL:       "http://fastpanel.direct/install_ru.sh",
		InstallerPath:      "/tmp/fastpanel_install.sh",
		AdminPort:          8888,
		DownloadRetries:    3,
		DownloadRetryDelay: 5 * time.Second,
		FailureMarkers:     []string{"[failed]"},

		PanelCLIFallbackPath: "/usr/local/fastpanel2/fastpanel",
		PanelCLIBinary:       "fastpanel",
		DefaultLEEmail:       "",
		FTPPasswordLength:    16,
	}
}

// Loader handles configuration file parsing.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FASTPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load reads configuration from an optional file path. A missing or empty
// path yields defaults plus environment overrides.
func (l *Loader) Load(path string) (*Config, error) {
	// env file first; a missing .env is not an error
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return l.parse()
}

// LoadReader loads configuration from literal YAML (useful for testing).
func (l *Loader) LoadReader(content string) (*Config, error) {
	l.setDefaults()

	if err := l.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return l.parse()
}

func (l *Loader) setDefaults() {
	defaults := Default()

	l.v.SetDefault("database.path", defaults.DatabasePath)
	l.v.SetDefault("ssh.port", defaults.SSHPort)
	l.v.SetDefault("ssh.timeout", defaults.SSHTimeout)
	l.v.SetDefault("ssh.command_timeout", defaults.CommandTimeout)
	l.v.SetDefault("installer.url", defaults.InstallerURL)
	l.v.SetDefault("installer.path", defaults.InstallerPath)
	l.v.SetDefault("installer.admin_port", defaults.AdminPort)
	l.v.SetDefault("installer.download_retries", defaults.DownloadRetries)
	l.v.SetDefault("installer.download_retry_delay", defaults.DownloadRetryDelay)
	l.v.SetDefault("installer.failure_markers", defaults.FailureMarkers)
	l.v.SetDefault("panel.cli_fallback_path", defaults.PanelCLIFallbackPath)
	l.v.SetDefault("panel.cli_binary", defaults.PanelCLIBinary)
	l.v.SetDefault("panel.le_email", defaults.DefaultLEEmail)
	l.v.SetDefault("panel.ftp_password_length", defaults.FTPPasswordLength)
}

func (l *Loader) parse() (*Config, error) {
	cfg := &Config{
		DatabasePath: l.v.GetString("database.path"),

		SSHPort:        l.v.GetUint("ssh.port"),
		SSHTimeout:     l.v.GetDuration("ssh.timeout"),
		CommandTimeout: l.v.GetDuration("ssh.command_timeout"),

		InstallerURL:       l.v.GetString("installer.url"),
		InstallerPath:      l.v.GetString("installer.path"),
		AdminPort:          uint16(l.v.GetUint("installer.admin_port")),
		DownloadRetries:    l.v.GetInt("installer.download_retries"),
		DownloadRetryDelay: l.v.GetDuration("installer.download_retry_delay"),
		FailureMarkers:     l.v.GetStringSlice("installer.failure_markers"),

		PanelCLIFallbackPath: l.v.GetString("panel.cli_fallback_path"),
		PanelCLIBinary:       l.v.GetString("panel.cli_binary"),
		DefaultLEEmail:       l.v.GetString("panel.le_email"),
		FTPPasswordLength:    l.v.GetInt("panel.ftp_password_length"),
	}

	if cfg.InstallerURL == "" {
		return nil, fmt.Errorf("installer.url is required")
	}
	if cfg.DownloadRetries < 1 {
		return nil, fmt.Errorf("installer.download_retries must be at least 1")
	}

	return cfg, nil
}
