// Package question defines the canonical question and quiz records produced by
// the question sources and handed to callers.
package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrMissingName is returned when a quiz is created without a name.
var ErrMissingName = errors.New(`missing parameter "name"`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Question is the normalized true/false statement every source must produce.
type Question struct {
	// QuestionID is generated when the question is normalized, never taken from a source
	QuestionID string `json:"questionId" yaml:"questionId" validate:"required"`

	// Question is the humanized statement shown to the player
	Question string `json:"question" yaml:"question" validate:"required"`

	// Answer is the correct true/false judgment about the statement
	Answer bool `json:"answer" yaml:"answer"`
}

// New builds a validated Question.
func New(id, text string, answer bool) (Question, error) {
	q := Question{
		QuestionID: id,
		Question:   text,
		Answer:     answer,
	}
	if err := validate.Struct(q); err != nil {
		return Question{}, fmt.Errorf("invalid question: %w", err)
	}
	return q, nil
}

// Generate builds a validated Question with a fresh identifier.
func Generate(text string, answer bool) (Question, error) {
	return New(uuid.NewString(), text, answer)
}

// Quiz is a named set of questions.
type Quiz struct {
	ID        string     `json:"id" yaml:"id" validate:"required,uuid"`
	Name      string     `json:"name" yaml:"name" validate:"required"`
	Questions []Question `json:"questions" yaml:"questions" validate:"dive"`
}

// NewQuiz builds a validated Quiz with a fresh identifier.
func NewQuiz(name string, questions []Question) (*Quiz, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	quiz := &Quiz{
		ID:        uuid.NewString(),
		Name:      name,
		Questions: questions,
	}
	if quiz.Questions == nil {
		quiz.Questions = []Question{}
	}
	if err := validate.Struct(quiz); err != nil {
		return nil, fmt.Errorf("invalid quiz: %w", err)
	}
	return quiz, nil
}
