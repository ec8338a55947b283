package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitbot/internal/cli"
	"github.com/julianstephens/habitbot/internal/cli/system"
	"github.com/julianstephens/habitbot/internal/errors"
	"github.com/julianstephens/habitbot/internal/logger"
	"github.com/julianstephens/habitbot/internal/storage"
	"github.com/julianstephens/habitbot/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite database path or PostgreSQL connection string. Credentials must NOT be embedded in connection strings." env:"HABITBOT_DB" type:"path" default:"~/.config/habitbot/habitbot.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitbot storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Token   system.TokenCmd   `cmd:"" help:"Manage the bot token in the OS keyring."`
	Serve   cli.ServeCmd      `cmd:"" default:"1" help:"Run the Telegram bot."`
	Habit   cli.HabitCmd      `cmd:"" help:"Manage habits against the local store."`
}

// commands that handle storage themselves, or don't need it at all
var skipLoad = []string{"init", "migrate", "doctor", "token"}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("habitbot"),
		kong.Description("Conversational habit tracker with a weekly completion matrix"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": "v0.2.0"},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir()}); err != nil {
		errors.Fatal(err)
	}

	var store storage.Provider
	if strings.HasPrefix(CLI.DB, "postgres://") || strings.HasPrefix(CLI.DB, "postgresql://") {
		if storage.HasEmbeddedCredentials(CLI.DB) {
			errors.Fatal(storage.ErrEmbeddedCredentials)
		}
		store = storage.NewPostgresStore(CLI.DB)
	} else {
		store = storage.NewSQLiteStore(CLI.DB)
	}

	appCtx := &cli.Context{
		Store:   store,
		Tracker: tracker.New(store),
		Debug:   CLI.Debug,
	}

	if !skipsLoad(kctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	errors.Fatal(kctx.Run(appCtx))
}

func skipsLoad(command string) bool {
	for _, prefix := range skipLoad {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return true
		}
	}
	return false
}

// configDir is where logs live. For Postgres deployments there is no
// database file to sit next to, so fall back to the default config dir.
func configDir() string {
	if strings.HasPrefix(CLI.DB, "postgres://") || strings.HasPrefix(CLI.DB, "postgresql://") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		return filepath.Join(home, ".config", "habitbot")
	}
	return filepath.Dir(CLI.DB)
}
