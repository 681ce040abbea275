package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tidbyt.dev/bikeshare"
	"tidbyt.dev/bikeshare/datasource"
	"tidbyt.dev/bikeshare/storage"
)

var rootCmd = &cobra.Command{
	Use:               "bikeshare",
	Short:             "Explore US bikeshare data",
	Long:              "Interactively computes statistics over bikeshare trip logs for Chicago, New York City and Washington",
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              interactive,
}

var (
	dataLocation string
	storageKind  string
	sqliteDir    string
	postgresConn string
	timeout      time.Duration
	maxSize      int
	logLevel     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataLocation, "data", "", ".", "Directory or http(s) URL holding the city CSV files")
	rootCmd.PersistentFlags().StringVarP(&storageKind, "storage", "", "memory", "Scratch storage for loaded trips: memory, sqlite or postgres")
	rootCmd.PersistentFlags().StringVarP(&sqliteDir, "sqlite-dir", "", "", "Directory for on-disk SQLite tables (in-memory if blank)")
	rootCmd.PersistentFlags().StringVarP(&postgresConn, "postgres", "", "", "Postgres connection string")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "", 60*time.Second, "Timeout when fetching data over HTTP")
	rootCmd.PersistentFlags().IntVarP(&maxSize, "max-size", "", 0, "Reject data files larger than this many bytes (0 for no limit)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "warn", "Log level: debug, info, warn or error")
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(citiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log-level '%s': must be debug, info, warn or error", logLevel)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	return nil
}

func buildStorage() (storage.Storage, error) {
	switch storageKind {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "sqlite":
		if sqliteDir == "" {
			return storage.NewSQLiteStorage()
		}
		return storage.NewSQLiteStorage(storage.SQLiteConfig{OnDisk: true, Directory: sqliteDir})
	case "postgres":
		if postgresConn == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return storage.NewPSQLStorage(postgresConn, false)
	}
	return nil, fmt.Errorf("unknown storage '%s'", storageKind)
}

// Builds a Loader for the configured data location and storage. The
// returned func closes the storage.
func buildLoader() (*bikeshare.Loader, func(), error) {
	s, err := buildStorage()
	if err != nil {
		return nil, nil, fmt.Errorf("creating storage: %w", err)
	}

	loader := bikeshare.NewLoader(s)
	loader.Source = datasource.New(dataLocation, datasource.Options{
		MaxSize: maxSize,
		Timeout: timeout,
	})

	closeStorage := func() {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				slog.Warn("closing storage", slog.String("error", err.Error()))
			}
		}
	}

	return loader, closeStorage, nil
}

func interactive(cmd *cobra.Command, args []string) error {
	loader, closeStorage, err := buildLoader()
	if err != nil {
		return err
	}
	defer closeStorage()

	session := bikeshare.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), loader)

	_, err = session.Run(context.Background())
	return err
}
