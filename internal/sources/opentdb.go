package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/David256/quizzed-backend/internal/config"
	"github.com/David256/quizzed-backend/internal/httpclient"
	"github.com/David256/quizzed-backend/internal/question"
)

// openTDBResponse is the body returned by https://opentdb.com/api.php
type openTDBResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []openTDBItem `json:"results"`
}

type openTDBItem struct {
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// openTDBResponseCodes describes the non-zero response codes of the API
var openTDBResponseCodes = map[int]string{
	1: "no results",
	2: "invalid parameter",
	3: "token not found",
	4: "token empty",
	5: "rate limit",
}

// OpenTDBSource fetches boolean questions from the Open Trivia DB
type OpenTDBSource struct {
	client       httpclient.Client
	endpoint     string
	difficulty   string
	questionType string
	random       Randomizer
}

var _ QuestionSource = (*OpenTDBSource)(nil)

// NewOpenTDBSource creates a new Open Trivia DB source.
// Empty configuration values fall back to the public endpoint and hard boolean questions.
func NewOpenTDBSource(client httpclient.Client, cfg config.OpenTDBConfig, random Randomizer) *OpenTDBSource {
	s := &OpenTDBSource{
		client:       client,
		endpoint:     cfg.Endpoint,
		difficulty:   cfg.Difficulty,
		questionType: cfg.Type,
		random:       random,
	}
	if s.endpoint == "" {
		s.endpoint = config.DefaultOpenTDBEndpoint
	}
	if s.difficulty == "" {
		s.difficulty = "hard"
	}
	if s.questionType == "" {
		s.questionType = "boolean"
	}
	if s.random == nil {
		s.random = DefaultRandomizer()
	}
	return s
}

// Name returns the source name
func (*OpenTDBSource) Name() string {
	return SourceOpenTDB
}

// FetchQuestions requests amount items and turns each into a true/false statement.
// Any failure yields a KindNoData error and no questions.
func (s *OpenTDBSource) FetchQuestions(ctx context.Context, amount int) ([]question.Question, error) {
	logger := logr.FromContextOrDiscard(ctx).WithName(SourceOpenTDB)

	if amount < 1 {
		amount = 1
	}

	reqURL, err := s.requestURL(amount)
	if err != nil {
		return nil, NewNoDataError(SourceOpenTDB, err)
	}

	logger.V(1).Info("Requesting questions", "amount", amount)

	body, err := s.client.Get(ctx, reqURL, nil)
	if err != nil {
		logger.Error(err, "Request failed")
		return nil, NewNoDataError(SourceOpenTDB, err)
	}

	var resp openTDBResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewNoDataError(SourceOpenTDB, fmt.Errorf("failed to decode response: %w", err))
	}

	if resp.ResponseCode != 0 {
		reason, ok := openTDBResponseCodes[resp.ResponseCode]
		if !ok {
			reason = "unknown"
		}
		return nil, NewNoDataError(SourceOpenTDB, fmt.Errorf("response code %d (%s)", resp.ResponseCode, reason))
	}

	questions := make([]question.Question, 0, len(resp.Results))
	for i, item := range resp.Results {
		q, err := s.normalize(item)
		if err != nil {
			logger.V(1).Info("Skipping item", "index", i, "reason", err.Error())
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, NewNoDataError(SourceOpenTDB, errors.New("response contained no usable items"))
	}

	logger.V(1).Info("Fetched questions", "count", len(questions))
	return questions, nil
}

func (s *OpenTDBSource) requestURL(amount int) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}

	q := u.Query()
	q.Set("amount", strconv.Itoa(amount))
	q.Set("difficulty", s.difficulty)
	q.Set("type", s.questionType)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// normalize flips a coin between the correct answer and a random incorrect one
// and phrases the item as a statement about the chosen answer.
func (s *OpenTDBSource) normalize(item openTDBItem) (question.Question, error) {
	text := trimStatement(html.UnescapeString(item.Question))
	if text == "" {
		return question.Question{}, errors.New("empty question text")
	}

	chosen, answer := item.CorrectAnswer, true
	heads := s.random.IntN(2) == 0
	if !heads && len(item.IncorrectAnswers) > 0 {
		chosen = item.IncorrectAnswers[s.random.IntN(len(item.IncorrectAnswers))]
		answer = false
	}

	return question.Generate(fmt.Sprintf("%s? the correct answer is %s", text, humanizeAnswer(chosen)), answer)
}

// trimStatement trims whitespace and drops one trailing period or semicolon
func trimStatement(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, ";") {
		text = text[:len(text)-1]
	}
	return text
}

// humanizeAnswer renders boolean answers as words and quotes anything else
func humanizeAnswer(answer string) string {
	answer = strings.TrimSpace(html.UnescapeString(answer))
	switch answer {
	case "True":
		return "yes"
	case "False":
		return "not"
	default:
		return `"` + answer + `"`
	}
}
