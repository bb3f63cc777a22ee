package sources

import (
	"context"
	"math/rand/v2"

	"github.com/David256/quizzed-backend/internal/question"
)

// Source names accepted by the factory
const (
	SourceQuizAPI = "quizapi"
	SourceOpenTDB = "opentdb"
	SourceLocal   = "local"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=types.go QuestionSource,SourceFactory

// QuestionSource produces canonical questions from one origin
type QuestionSource interface {
	// Name returns the source name used in logs, spans and metrics
	Name() string

	// FetchQuestions returns up to amount questions, or an *Error of kind KindNoData
	FetchQuestions(ctx context.Context, amount int) ([]question.Question, error)
}

// SourceFactory creates question sources by name
type SourceFactory interface {
	// CreateSource creates the named source
	CreateSource(name string) (QuestionSource, error)

	// HasAPIToken reports whether the QuizAPI credential is configured
	HasAPIToken() bool
}

// Randomizer draws the random choices sources make while normalizing items
type Randomizer interface {
	// IntN returns a uniformly distributed number in [0, n). n must be positive.
	IntN(n int) int
}

type globalRandomizer struct{}

func (globalRandomizer) IntN(n int) int { return rand.IntN(n) }

// DefaultRandomizer returns a Randomizer backed by the math/rand/v2 global source,
// which is safe for concurrent use.
func DefaultRandomizer() Randomizer {
	return globalRandomizer{}
}
