package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"

	"github.com/David256/quizzed-backend/internal/config"
	"github.com/David256/quizzed-backend/internal/httpclient"
	"github.com/David256/quizzed-backend/internal/question"
)

const (
	// APIKeyHeader carries the QuizAPI token
	APIKeyHeader = "X-Api-Key"

	// noneAnswer replaces an empty answer slot
	noneAnswer = "none"
)

// QuizAPISource fetches multiple-answer questions from QuizAPI and reduces each
// to a true/false judgment about one randomly chosen answer slot.
type QuizAPISource struct {
	client     httpclient.Client
	token      string
	endpoint   string
	difficulty string
	categories []string
	random     Randomizer
}

var _ QuestionSource = (*QuizAPISource)(nil)

// NewQuizAPISource creates a new QuizAPI source.
// An empty token is accepted here and reported by FetchQuestions.
func NewQuizAPISource(client httpclient.Client, cfg config.QuizAPIConfig, token string, random Randomizer) *QuizAPISource {
	s := &QuizAPISource{
		client:     client,
		token:      token,
		endpoint:   cfg.Endpoint,
		difficulty: cfg.Difficulty,
		categories: cfg.Categories,
		random:     random,
	}
	if s.endpoint == "" {
		s.endpoint = config.DefaultQuizAPIEndpoint
	}
	if s.difficulty == "" {
		s.difficulty = "Hard"
	}
	if len(s.categories) == 0 {
		s.categories = config.DefaultQuizAPICategories
	}
	if s.random == nil {
		s.random = DefaultRandomizer()
	}
	return s
}

// Name returns the source name
func (*QuizAPISource) Name() string {
	return SourceQuizAPI
}

// FetchQuestions requests amount items from one random category.
// Without a token it fails with KindMissingAPIToken before any request;
// any other failure yields a KindNoData error and no questions.
func (s *QuizAPISource) FetchQuestions(ctx context.Context, amount int) ([]question.Question, error) {
	logger := logr.FromContextOrDiscard(ctx).WithName(SourceQuizAPI)

	if s.token == "" {
		logger.Info("Cannot request questions without an API token")
		return nil, NewMissingAPITokenError(SourceQuizAPI)
	}

	if amount < 1 {
		amount = 1
	}

	category := s.categories[s.random.IntN(len(s.categories))]
	reqURL, err := s.requestURL(amount, category)
	if err != nil {
		return nil, NewNoDataError(SourceQuizAPI, err)
	}

	logger.V(1).Info("Requesting questions", "amount", amount, "category", category)

	header := http.Header{}
	header.Set(APIKeyHeader, s.token)

	body, err := s.client.Get(ctx, reqURL, header)
	if err != nil {
		logger.Error(err, "Request failed", "category", category)
		return nil, NewNoDataError(SourceQuizAPI, err)
	}

	if !gjson.ValidBytes(body) {
		return nil, NewNoDataError(SourceQuizAPI, errors.New("failed to decode response: invalid JSON"))
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, NewNoDataError(SourceQuizAPI, fmt.Errorf("unexpected response type %s", result.Type))
	}

	var questions []question.Question
	result.ForEach(func(index, item gjson.Result) bool {
		q, err := s.normalize(item)
		if err != nil {
			logger.V(1).Info("Skipping item", "index", index.Int(), "reason", err.Error())
			return true
		}
		questions = append(questions, q)
		return true
	})

	if len(questions) == 0 {
		return nil, NewNoDataError(SourceQuizAPI, errors.New("response contained no usable items"))
	}

	logger.V(1).Info("Fetched questions", "count", len(questions))
	return questions, nil
}

func (s *QuizAPISource) requestURL(amount int, category string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(amount))
	q.Set("difficulty", s.difficulty)
	q.Set("category", category)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// normalize picks a random answer slot, correct or not, and phrases the item
// as a statement about it. The answer is the slot's correctness flag.
func (s *QuizAPISource) normalize(item gjson.Result) (question.Question, error) {
	text := strings.TrimSpace(item.Get("question").String())
	if text == "" {
		return question.Question{}, errors.New("empty question text")
	}

	answers := item.Get("answers")
	if !answers.IsObject() {
		return question.Question{}, errors.New("no answer slots")
	}

	var keys []string
	slots := make(map[string]gjson.Result)
	answers.ForEach(func(key, value gjson.Result) bool {
		keys = append(keys, key.String())
		slots[key.String()] = value
		return true
	})
	if len(keys) == 0 {
		return question.Question{}, errors.New("no answer slots")
	}

	flags := make(map[string]bool)
	item.Get("correct_answers").ForEach(func(key, value gjson.Result) bool {
		flags[key.String()] = value.Bool()
		return true
	})

	key := keys[s.random.IntN(len(keys))]

	chosen := strings.TrimSpace(slots[key].String())
	if chosen == "" {
		chosen = noneAnswer
	}

	return question.Generate(fmt.Sprintf(`%s, the correct answer is "%s"`, text, chosen), flags[key+"_correct"])
}
