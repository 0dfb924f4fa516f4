// Package persona holds the persona instruction and the reply word-cap gate
// shared by every text-generation backend.
package persona

import (
	"fmt"
	"strings"

	apperrors "persona-video/internal/app/errors"
)

// Temperature is the sampling temperature used for persona replies
const Temperature = 0.7

// Reply is a validated persona answer
type Reply struct {
	Text      string
	WordCount int
}

// SystemPrompt builds the fixed instruction for the named historical figure.
// The phrasing rules keep the reply easy for speech synthesis to read aloud.
func SystemPrompt(name string, maxWords int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, speaking in your own voice and from the perspective of your own era. ", name)
	b.WriteString("Answer the visitor's question in the first person, drawing on your life, your speeches and the events you lived through. ")
	b.WriteString("Stay in character; if asked about things after your lifetime, say plainly that they lie beyond your time and relate them to what you knew. ")
	b.WriteString("Your words will be spoken aloud by a voice synthesizer, so: write plain sentences, ")
	b.WriteString("no lists, no headings, no emojis, no stage directions, no quotation marks around your own words, ")
	b.WriteString("spell out numbers and abbreviations. ")
	fmt.Fprintf(&b, "Keep the whole answer to at most %d words.", maxWords)
	return b.String()
}

// CountWords counts whitespace-separated words
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Check trims text and enforces the word cap. Empty text is an empty
// generation; text over the cap fails and is never truncated.
func Check(text string, maxWords int) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, apperrors.EmptyGeneration()
	}

	words := CountWords(text)
	if words > maxWords {
		return Reply{}, apperrors.ResponseTooLong(words, maxWords)
	}
	return Reply{Text: text, WordCount: words}, nil
}

// MaxTokensFor returns the completion budget for a maxWords reply. A configured
// value below that is raised.
func MaxTokensFor(maxWords, configured int) int {
	// roughly 1.4 tokens per English word plus punctuation
	need := maxWords*2 + 10
	if configured > 0 && configured >= need {
		return configured
	}
	return need
}
