package sources_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David256/quizzed-backend/internal/question"
	"github.com/David256/quizzed-backend/internal/sources"
)

func TestLocalSource_FetchQuestions(t *testing.T) {
	t.Parallel()

	source := sources.NewLocalSource()
	assert.Equal(t, sources.SourceLocal, source.Name())

	for _, amount := range []int{-1, 0, 1, 3, 50} {
		questions, err := source.FetchQuestions(context.Background(), amount)
		require.NoError(t, err)
		require.Len(t, questions, 3, "amount %d", amount)
	}
}

func TestLocalSource_Statements(t *testing.T) {
	t.Parallel()

	got, err := sources.NewLocalSource().FetchQuestions(context.Background(), 3)
	require.NoError(t, err)

	want := []question.Question{
		{Question: "Humans have 46 chromosomes", Answer: true},
		{Question: "It takes 23 seconds for blood to circulate through the body", Answer: true},
		{Question: "39 ºC is hypothermia", Answer: false},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(question.Question{}, "QuestionID")); diff != "" {
		t.Errorf("FetchQuestions mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalSource_ContentIsFixedIdentifiersAreNot(t *testing.T) {
	t.Parallel()

	source := sources.NewLocalSource()

	first, err := source.FetchQuestions(context.Background(), 3)
	require.NoError(t, err)
	second, err := source.FetchQuestions(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, second, len(first))

	seen := make(map[string]bool)
	for i := range first {
		assert.Equal(t, first[i].Question, second[i].Question)
		assert.Equal(t, first[i].Answer, second[i].Answer)
		assert.NotEqual(t, first[i].QuestionID, second[i].QuestionID)

		for _, id := range []string{first[i].QuestionID, second[i].QuestionID} {
			_, err := uuid.Parse(id)
			require.NoError(t, err)
			assert.False(t, seen[id], "identifier %s repeated", id)
			seen[id] = true
		}
	}

	assert.Equal(t, "Humans have 46 chromosomes", first[0].Question)
	assert.True(t, first[0].Answer)
	assert.False(t, first[2].Answer)
}

func TestLocalSource_IgnoresCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	questions, err := sources.NewLocalSource().FetchQuestions(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}
