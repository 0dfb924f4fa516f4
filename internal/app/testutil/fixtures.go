package testutil

import "persona-video/internal/app/persona"

// Canned values used across pipeline and handler tests
const (
	Transcript = "What is liberty?"
	ReplyText  = "Liberty is the right of every man to the fruit of his own labor."
	VideoURL   = "https://cdn.example.com/talks/tlk_123.mp4"
	AudioURL   = "https://store.example.com/persona-audio/audio/abc.mp3"
)

// Audio is a stand-in recording; its bytes are never decoded
var Audio = []byte("webm-audio-bytes")

// Reply returns text as a persona reply with its word count filled in
func Reply(text string) persona.Reply {
	return persona.Reply{Text: text, WordCount: persona.CountWords(text)}
}
