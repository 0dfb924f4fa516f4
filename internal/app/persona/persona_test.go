package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "persona-video/internal/app/errors"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxWords  int
		wantText  string
		wantWords int
		wantErr   error
	}{
		{
			name:      "under the cap is returned unchanged",
			text:      "Liberty is the right of every man to the fruit of his labor.",
			maxWords:  45,
			wantText:  "Liberty is the right of every man to the fruit of his labor.",
			wantWords: 13,
		},
		{
			name:      "exactly at the cap",
			text:      strings.Repeat("word ", 10),
			maxWords:  10,
			wantText:  strings.TrimSpace(strings.Repeat("word ", 10)),
			wantWords: 10,
		},
		{
			name:      "surrounding whitespace trimmed",
			text:      "\n  A house divided against itself cannot stand.  \n",
			maxWords:  25,
			wantText:  "A house divided against itself cannot stand.",
			wantWords: 7,
		},
		{
			name:     "over the cap fails",
			text:     strings.Repeat("word ", 11),
			maxWords: 10,
			wantErr:  apperrors.ErrResponseTooLong,
		},
		{
			name:     "empty fails",
			text:     "   ",
			maxWords: 10,
			wantErr:  apperrors.ErrEmptyGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := Check(tt.text, tt.maxWords)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, reply.Text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, reply.Text)
			assert.Equal(t, tt.wantWords, reply.WordCount)
		})
	}
}

func TestCountWordsSplitsOnAnyWhitespace(t *testing.T) {
	assert.Equal(t, 4, CountWords("four\tscore\nand  seven"))
	assert.Equal(t, 0, CountWords(""))
}

func TestSystemPromptMentionsPersonaAndCap(t *testing.T) {
	prompt := SystemPrompt("Abraham Lincoln", 25)
	assert.Contains(t, prompt, "Abraham Lincoln")
	assert.Contains(t, prompt, "at most 25 words")
}

func TestMaxTokensFor(t *testing.T) {
	assert.Equal(t, 100, MaxTokensFor(45, 0))
	assert.Equal(t, 150, MaxTokensFor(45, 150))
	assert.Equal(t, 100, MaxTokensFor(45, 50))
}
