package app

import (
	"github.com/David256/quizzed-backend/internal/httpclient"
	"github.com/David256/quizzed-backend/internal/quiz"
	"github.com/David256/quizzed-backend/internal/sources"
	"github.com/David256/quizzed-backend/internal/telemetry"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// HTTPClient is shared by the remote question sources
	HTTPClient httpclient.Client

	// SourceFactory creates the question sources
	SourceFactory sources.SourceFactory

	// QuizService applies the provider fallback policy
	QuizService *quiz.Service

	// SourceMetrics is nil when metrics are disabled
	SourceMetrics *telemetry.SourceMetrics
}
