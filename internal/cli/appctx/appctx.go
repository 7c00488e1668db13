// Package appctx provides a shared bootstrap helper for CLI commands.
// It centralizes config loading, database opening, and store construction
// to reduce boilerplate across commands.
package appctx

import (
	"fmt"

	"github.com/spf13/cobra"

	"omac/internal/config"
	"omac/internal/db"
	"omac/internal/photos"
	"omac/internal/store"
)

// App holds the shared application context for commands.
type App struct {
	// Config is the loaded configuration
	Config *config.Config

	// DB is the opened database connection (nil if NeedsDB is false)
	DB *db.DB

	// Store provides record access (nil if NeedsDB is false)
	Store *store.Store

	// Photos manages the photo file directory
	Photos *photos.Storage
}

// Close releases resources held by the App. Safe to call multiple times.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		a.DB = nil
	}
}

// Options configures the bootstrap behavior.
type Options struct {
	// NeedsDB indicates whether to open the database. Defaults to true.
	NeedsDB bool
}

// DefaultOptions returns default options (DB required).
func DefaultOptions() Options {
	return Options{NeedsDB: true}
}

// ConfigOnly returns options that load config without opening the database.
func ConfigOnly() Options {
	return Options{NeedsDB: false}
}

// RunFunc is the signature for command run functions.
type RunFunc func(app *App, cmd *cobra.Command, args []string) error

// WithApp wraps a command's run function with shared bootstrap logic.
// The database is closed automatically when the wrapped function returns.
func WithApp(opts Options, fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := Bootstrap(cmd, opts)
		if err != nil {
			return err
		}
		defer app.Close()

		return fn(app, cmd, args)
	}
}

// Bootstrap initializes the App according to the given options.
// Callers are responsible for calling App.Close() when done.
func Bootstrap(cmd *cobra.Command, opts Options) (*App, error) {
	app := &App{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	if dbFlag := cmd.Flag("db"); dbFlag != nil {
		if dbPath := dbFlag.Value.String(); dbPath != "" {
			app.Config.DBPath = dbPath
		}
	}
	if photosFlag := cmd.Flag("photos"); photosFlag != nil {
		if dir := photosFlag.Value.String(); dir != "" {
			app.Config.PhotosDir = dir
		}
	}

	app.Photos = photos.New(app.Config.PhotosDir)

	if opts.NeedsDB {
		database, err := db.Open(app.Config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		_, pending, err := database.MigrationStatus()
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to check migration status: %w", err)
		}
		if len(pending) > 0 {
			database.Close()
			return nil, fmt.Errorf("database requires migration: %d pending migration(s). Run 'omac init' to update", len(pending))
		}

		app.DB = database
		app.Store = store.New(database)
	}

	return app, nil
}
