package sources

import (
	"context"

	"github.com/David256/quizzed-backend/internal/question"
)

type statement struct {
	text   string
	answer bool
}

// localStatements is the built-in question set. It must stay non-empty.
var localStatements = []statement{
	{text: "Humans have 46 chromosomes", answer: true},
	{text: "It takes 23 seconds for blood to circulate through the body", answer: true},
	{text: "39 ºC is hypothermia", answer: false},
}

// LocalSource serves the built-in statements. It performs no I/O and cannot fail.
type LocalSource struct{}

var _ QuestionSource = (*LocalSource)(nil)

// NewLocalSource creates a new local source
func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

// Name returns the source name
func (*LocalSource) Name() string {
	return SourceLocal
}

// FetchQuestions returns every built-in statement with fresh identifiers.
// The amount is ignored.
func (*LocalSource) FetchQuestions(_ context.Context, _ int) ([]question.Question, error) {
	questions := make([]question.Question, 0, len(localStatements))
	for _, s := range localStatements {
		q, err := question.Generate(s.text, s.answer)
		if err != nil {
			return nil, NewNoDataError(SourceLocal, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
