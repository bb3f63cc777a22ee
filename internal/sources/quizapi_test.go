package sources_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/David256/quizzed-backend/internal/config"
	httpmocks "github.com/David256/quizzed-backend/internal/httpclient/mocks"
	"github.com/David256/quizzed-backend/internal/sources"
)

const quizAPIItem = `{
	"id": 1,
	"question": "Which command lists open files?",
	"answers": {
		"answer_a": "lsof",
		"answer_b": "ls",
		"answer_c": null,
		"answer_d": "",
		"answer_e": null,
		"answer_f": null
	},
	"multiple_correct_answers": "false",
	"correct_answers": {
		"answer_a_correct": "true",
		"answer_b_correct": "false",
		"answer_c_correct": "false",
		"answer_d_correct": "true",
		"answer_e_correct": "false",
		"answer_f_correct": "false"
	},
	"category": "Linux",
	"difficulty": "Hard"
}`

func TestQuizAPISource_MissingToken(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := httpmocks.NewMockClient(ctrl)
	client.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	source := sources.NewQuizAPISource(client, config.QuizAPIConfig{}, "", nil)
	assert.Equal(t, sources.SourceQuizAPI, source.Name())

	questions, err := source.FetchQuestions(context.Background(), 5)
	require.Error(t, err)
	assert.Nil(t, questions)
	assert.True(t, errors.Is(err, sources.ErrMissingAPIToken))
	assert.False(t, errors.Is(err, sources.ErrNoData))
}

func TestQuizAPISource_Request(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		categories   []string
		draws        []int
		amount       int
		wantCategory string
		wantLimit    string
	}{
		{
			name:         "first default category",
			draws:        []int{0},
			amount:       4,
			wantCategory: "Linux",
			wantLimit:    "4",
		},
		{
			name:         "second default category",
			draws:        []int{1},
			amount:       10,
			wantCategory: "Docker",
			wantLimit:    "10",
		},
		{
			name:         "configured categories and clamped limit",
			categories:   []string{"Kubernetes", "Bash", "SQL"},
			draws:        []int{2},
			amount:       -3,
			wantCategory: "SQL",
			wantLimit:    "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var header http.Header
			var query map[string]string
			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				header = r.Header.Clone()
				query = map[string]string{
					"limit":      r.URL.Query().Get("limit"),
					"difficulty": r.URL.Query().Get("difficulty"),
					"category":   r.URL.Query().Get("category"),
				}
				jsonHandler(`[` + quizAPIItem + `]`)(w, r)
			}))
			defer server.Close()

			source := sources.NewQuizAPISource(newTestClient(),
				config.QuizAPIConfig{Endpoint: server.URL, Categories: tt.categories},
				"secret-token", sources.NewSequenceRandomizer(tt.draws...))

			_, err := source.FetchQuestions(context.Background(), tt.amount)
			require.NoError(t, err)
			assert.Equal(t, "secret-token", header.Get(sources.APIKeyHeader))
			assert.Equal(t, map[string]string{
				"limit":      tt.wantLimit,
				"difficulty": "Hard",
				"category":   tt.wantCategory,
			}, query)
		})
	}
}

func TestQuizAPISource_Normalization(t *testing.T) {
	t.Parallel()

	// The first draw picks the category, the second picks the answer slot.
	tests := []struct {
		name         string
		slotDraw     int
		wantQuestion string
		wantAnswer   bool
	}{
		{
			name:         "correct slot",
			slotDraw:     0,
			wantQuestion: `Which command lists open files?, the correct answer is "lsof"`,
			wantAnswer:   true,
		},
		{
			name:         "incorrect slot",
			slotDraw:     1,
			wantQuestion: `Which command lists open files?, the correct answer is "ls"`,
			wantAnswer:   false,
		},
		{
			name:         "null slot renders as none",
			slotDraw:     2,
			wantQuestion: `Which command lists open files?, the correct answer is "none"`,
			wantAnswer:   false,
		},
		{
			name:         "empty slot keeps its correctness flag",
			slotDraw:     3,
			wantQuestion: `Which command lists open files?, the correct answer is "none"`,
			wantAnswer:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(jsonHandler(`[` + quizAPIItem + `]`))
			defer server.Close()

			source := sources.NewQuizAPISource(newTestClient(), config.QuizAPIConfig{Endpoint: server.URL},
				"secret-token", sources.NewSequenceRandomizer(0, tt.slotDraw))

			questions, err := source.FetchQuestions(context.Background(), 1)
			require.NoError(t, err)
			require.Len(t, questions, 1)
			assert.Equal(t, tt.wantQuestion, questions[0].Question)
			assert.Equal(t, tt.wantAnswer, questions[0].Answer)
			assert.NotEmpty(t, questions[0].QuestionID)
		})
	}
}

func TestQuizAPISource_SkipsUnusableItems(t *testing.T) {
	t.Parallel()

	server := newTestServer(jsonHandler(`[
		{"question": "", "answers": {"answer_a": "x"}, "correct_answers": {"answer_a_correct": "true"}},
		{"question": "No slots", "answers": {}, "correct_answers": {}},
		{"question": "Broken slots", "answers": "answer_a", "correct_answers": {}},
		` + quizAPIItem + `
	]`))
	defer server.Close()

	source := sources.NewQuizAPISource(newTestClient(), config.QuizAPIConfig{Endpoint: server.URL},
		"secret-token", sources.NewSequenceRandomizer(0))

	questions, err := source.FetchQuestions(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.True(t, strings.HasPrefix(questions[0].Question, "Which command lists open files?"))
}

func TestQuizAPISource_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		handler       http.HandlerFunc
		errorContains string
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Unauthenticated"}`))
			},
			errorContains: "HTTP 401",
		},
		{
			name:          "not an array",
			handler:       jsonHandler(`{"error":"No questions found"}`),
			errorContains: "unexpected response type",
		},
		{
			name:          "invalid json",
			handler:       jsonHandler(`[{"question":`),
			errorContains: "invalid JSON",
		},
		{
			name:          "empty array",
			handler:       jsonHandler(`[]`),
			errorContains: "no usable items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(tt.handler)
			defer server.Close()

			source := sources.NewQuizAPISource(newTestClient(), config.QuizAPIConfig{Endpoint: server.URL},
				"secret-token", nil)

			questions, err := source.FetchQuestions(context.Background(), 3)
			require.Error(t, err)
			assert.Nil(t, questions)
			assert.Equal(t, sources.KindNoData, sources.KindOf(err))
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestQuizAPISource_TransportErrorWithMock(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := httpmocks.NewMockClient(ctrl)
	client.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, url string, header http.Header) ([]byte, error) {
			assert.Contains(t, url, "category=Docker")
			assert.Equal(t, "token", header.Get(sources.APIKeyHeader))
			return nil, errors.New("dial tcp: connection refused")
		})

	source := sources.NewQuizAPISource(client, config.QuizAPIConfig{}, "token", sources.NewSequenceRandomizer(1))

	_, err := source.FetchQuestions(context.Background(), 2)
	require.ErrorIs(t, err, sources.ErrNoData)
	assert.Contains(t, err.Error(), "connection refused")
}
