package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David256/quizzed-backend/internal/sources"
)

func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Filter
	}{
		{input: "quizapi", want: FilterQuizAPI},
		{input: " OpenTDB ", want: FilterOpenTDB},
		{input: "local", want: FilterLocal},
		{input: "", want: FilterNone},
		{input: "none", want: FilterNone},
		{input: "wikipedia", want: FilterNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseFilter(tt.input))
		})
	}
}

func TestFilter_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", FilterNone.String())
	assert.Equal(t, "opentdb", FilterOpenTDB.String())
}

func TestCandidateNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filter   Filter
		hasToken bool
		want     []string
		wantErr  error
	}{
		{
			name:     "no preference with token",
			filter:   FilterNone,
			hasToken: true,
			want:     []string{sources.SourceQuizAPI, sources.SourceOpenTDB, sources.SourceLocal},
		},
		{
			name:   "no preference without token skips quizapi",
			filter: FilterNone,
			want:   []string{sources.SourceOpenTDB, sources.SourceLocal},
		},
		{
			name:     "quizapi with token",
			filter:   FilterQuizAPI,
			hasToken: true,
			want:     []string{sources.SourceQuizAPI},
		},
		{
			name:    "quizapi without token",
			filter:  FilterQuizAPI,
			wantErr: sources.ErrMissingAPIToken,
		},
		{
			name:   "opentdb only",
			filter: FilterOpenTDB,
			want:   []string{sources.SourceOpenTDB},
		},
		{
			name:     "local only",
			filter:   FilterLocal,
			hasToken: true,
			want:     []string{sources.SourceLocal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := candidateNames(tt.filter, tt.hasToken)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
