// Package app provides application lifecycle management for the quiz backend.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/David256/quizzed-backend/internal/config"
	"github.com/David256/quizzed-backend/internal/question"
)

// QuizzedApp encapsulates all components needed to serve questions and quizzes.
// Close must be called once the app is no longer used.
type QuizzedApp struct {
	config     *config.Config
	logger     *zap.Logger
	components *AppComponents

	shutdown func(context.Context) error
}

// Questions returns questions from the wanted provider, falling back when it fails
func (app *QuizzedApp) Questions(ctx context.Context, wanted string) ([]question.Question, error) {
	return app.components.QuizService.Questions(ctx, wanted)
}

// CreateQuiz creates a named quiz with questions from the wanted provider
func (app *QuizzedApp) CreateQuiz(ctx context.Context, name, wanted string) (*question.Quiz, error) {
	return app.components.QuizService.CreateQuiz(ctx, name, wanted)
}

// Close flushes telemetry and syncs the logger
func (app *QuizzedApp) Close(ctx context.Context) error {
	app.logger.Debug("Shutting down")

	var err error
	if app.shutdown != nil {
		if shutdownErr := app.shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("failed to shutdown telemetry: %w", shutdownErr)
		}
		app.shutdown = nil
	}

	// Sync fails on console outputs such as /dev/stderr, nothing to report there
	_ = app.logger.Sync()
	return err
}

// GetConfig returns the application configuration
func (app *QuizzedApp) GetConfig() *config.Config {
	return app.config
}

// GetLogger returns the application logger
func (app *QuizzedApp) GetLogger() *zap.Logger {
	return app.logger
}

// GetComponents returns the wired components
func (app *QuizzedApp) GetComponents() *AppComponents {
	return app.components
}
