package sources

import (
	"fmt"

	"github.com/David256/quizzed-backend/internal/config"
	"github.com/David256/quizzed-backend/internal/httpclient"
)

// defaultSourceFactory is the default implementation of SourceFactory
type defaultSourceFactory struct {
	cfg    *config.Config
	client httpclient.Client
	random Randomizer
}

var _ SourceFactory = (*defaultSourceFactory)(nil)

// FactoryOption configures the source factory
type FactoryOption func(*defaultSourceFactory)

// WithHTTPClient sets the client shared by the remote sources
func WithHTTPClient(client httpclient.Client) FactoryOption {
	return func(f *defaultSourceFactory) {
		if client != nil {
			f.client = client
		}
	}
}

// WithRandomizer sets the randomizer handed to every created source
func WithRandomizer(random Randomizer) FactoryOption {
	return func(f *defaultSourceFactory) {
		if random != nil {
			f.random = random
		}
	}
}

// NewSourceFactory creates a new source factory for the given configuration.
// Without WithHTTPClient the remote sources share a client built from cfg.HTTP.
func NewSourceFactory(cfg *config.Config, opts ...FactoryOption) SourceFactory {
	f := &defaultSourceFactory{
		cfg:    cfg,
		random: DefaultRandomizer(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = httpclient.NewDefaultClient(cfg.HTTP.Timeout, httpclient.WithMaxRetries(cfg.HTTP.MaxRetries))
	}
	return f
}

// CreateSource creates the named source
func (f *defaultSourceFactory) CreateSource(name string) (QuestionSource, error) {
	switch name {
	case SourceLocal:
		return NewLocalSource(), nil
	case SourceOpenTDB:
		return NewOpenTDBSource(f.client, f.cfg.Sources.OpenTDB, f.random), nil
	case SourceQuizAPI:
		return NewQuizAPISource(f.client, f.cfg.Sources.QuizAPI, f.cfg.APIToken, f.random), nil
	default:
		return nil, fmt.Errorf("unsupported source: %s", name)
	}
}

// HasAPIToken reports whether the QuizAPI credential is configured
func (f *defaultSourceFactory) HasAPIToken() bool {
	return f.cfg.HasAPIToken()
}
