package commands

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/vf552639/fastpanel/internal/config"
	"github.com/vf552639/fastpanel/internal/domains"
	"github.com/vf552639/fastpanel/internal/servers"
	"github.com/vf552639/fastpanel/internal/settings"
)

var (
	cfg                *config.Config
	logger             zerolog.Logger
	serversRepository  *servers.Repository
	domainsRepository  *domains.Repository
	settingsRepository *settings.Repository
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagJSON    bool
)

func RegisterCommands(rootCmd *cobra.Command, db *gorm.DB, appConfig *config.Config) {
	cfg = appConfig
	serversRepository = servers.NewRepository(db)
	domainsRepository = domains.NewRepository(db)
	settingsRepository = settings.NewRepository(db)

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json-log", false, "Emit logs as JSON instead of console output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logger = newLogger(cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(ServerCmd)
	rootCmd.AddCommand(DomainCmd)
	rootCmd.AddCommand(DNSCmd)
	rootCmd.AddCommand(SettingsCmd)
}

func newLogger(out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	if flagQuiet {
		level = zerolog.ErrorLevel
	}

	if !flagJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
