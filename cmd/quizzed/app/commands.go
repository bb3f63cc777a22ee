// Package app provides the commands of the quizzed CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	quizzed "github.com/David256/quizzed-backend/internal/app"
	"github.com/David256/quizzed-backend/internal/config"
	"github.com/David256/quizzed-backend/internal/logger"
	"github.com/David256/quizzed-backend/internal/render"
)

const shutdownTimeout = 5 * time.Second

// NewRootCmd creates a new root command for the quizzed CLI.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:               "quizzed",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Quizzed question and quiz generator",
		Long: `Quizzed builds true/false quizzes from the Open Trivia DB, QuizAPI or a small
built-in question set, falling back between them when one is unavailable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	for _, name := range []string{"config", "debug"} {
		if err := v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
		}
	}

	// Add subcommands
	rootCmd.AddCommand(newQuestionsCmd(v))
	rootCmd.AddCommand(newQuizCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the configuration and applies the command line overrides
func loadConfig(v *viper.Viper) (*config.Config, error) {
	var opts []config.Option
	if path := v.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if v.GetBool("debug") {
		cfg.Verbose = true
	}
	if v.IsSet("amount") {
		cfg.Amount = v.GetInt("amount")
	}
	return cfg, nil
}

// runWithApp builds the application, runs fn and shuts the application down
func runWithApp(cmd *cobra.Command, v *viper.Viper, fn func(ctx context.Context, a *quizzed.QuizzedApp) error) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	l, err := logger.New(cfg)
	if err != nil {
		return err
	}
	otel.SetLogger(logger.NewLogr(l.Named("otel")))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := quizzed.NewQuizzedApp(ctx, quizzed.WithConfig(cfg), quizzed.WithLogger(l))
	if err != nil {
		l.Error("Failed to build application", zap.Error(err))
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(shutdownCtx); err != nil {
			l.Warn("Failed to shut down cleanly", zap.Error(err))
		}
	}()

	return fn(ctx, a)
}

func formatFlag(cmd *cobra.Command) (render.Format, error) {
	name, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}
	return render.ParseFormat(name)
}
