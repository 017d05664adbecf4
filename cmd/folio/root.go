package main

import (
	"fmt"
	"log/slog"
	"os"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/config"
	"github.com/aretw0/folio/internal/logging"
	redislock "github.com/aretw0/folio/pkg/adapters/redis"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio is the secure execution boundary for the paper pipeline",
	Long: `Folio mediates every process the paper pipeline spawns: cloning
reference repositories, running helper scripts, and compiling typeset
documents. All commands are built from explicit argument vectors; no
input ever reaches a shell.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "folio.yaml", "Path to the folio configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
}

// loadConfig reads the configuration honoring the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := cmd.Flags().Changed("config")

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, nil, err
	}

	level := cfg.LogLevel
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		level = flagLevel
	}

	return cfg, logging.New(logging.ParseLevel(level)), nil
}

// newBoundary assembles the execution boundary from the configuration.
func newBoundary(cfg config.Config, logger *slog.Logger) *folio.Boundary {
	opts := []folio.Option{
		folio.WithLogger(logger),
		folio.WithLatexTools(cfg.Latex.Tool, cfg.Latex.BibTool),
		folio.WithLatexRuns(cfg.Latex.Runs, cfg.Latex.PassTimeout.Std()),
		folio.WithInterpreter(cfg.Script.Interpreter, ".py"),
	}
	if cfg.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: cfg.RedisAddr})
		opts = append(opts, folio.WithLocker(redislock.NewLocker(client, "folio:")))
	}
	return folio.New(opts...)
}
