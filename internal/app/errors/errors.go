package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a pipeline failure
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindAuthentication  Kind = "authentication"
	KindValidation      Kind = "validation"
	KindUpstream        Kind = "upstream"
	KindRateLimit       Kind = "rate_limit"
	KindResponseTooLong Kind = "response_too_long"
	KindEmptyGeneration Kind = "empty_generation"
	KindVideoFailed     Kind = "video_failed"
	KindVideoTimeout    Kind = "video_timeout"
)

// Stage names used on StageError
const (
	StageConfig     = "config"
	StageTranscribe = "transcribe"
	StagePersona    = "persona"
	StageSynthesize = "synthesize"
	StageStorage    = "storage"
	StageVideo      = "video"
)

// Sentinels usable with errors.Is
var (
	ErrConfiguration   = &StageError{Kind: KindConfiguration}
	ErrAuthentication  = &StageError{Kind: KindAuthentication}
	ErrValidation      = &StageError{Kind: KindValidation}
	ErrUpstream        = &StageError{Kind: KindUpstream}
	ErrRateLimit       = &StageError{Kind: KindRateLimit}
	ErrResponseTooLong = &StageError{Kind: KindResponseTooLong}
	ErrEmptyGeneration = &StageError{Kind: KindEmptyGeneration}
	ErrVideoFailed     = &StageError{Kind: KindVideoFailed}
	ErrVideoTimeout    = &StageError{Kind: KindVideoTimeout}
)

// StageError is a failure raised by one pipeline stage
type StageError struct {
	Kind    Kind
	Stage   string
	Message string
	// Body holds the raw upstream response body, if any
	Body  string
	Cause error
}

// Error implements the error interface
func (e *StageError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	return e.Cause
}

// Is matches any StageError of the same kind
func (e *StageError) Is(target error) bool {
	t, ok := target.(*StageError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first StageError in err's chain, or "" if none.
func KindOf(err error) Kind {
	var se *StageError
	if stderrors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// Configuration reports a missing or invalid setting. No network call is made.
func Configuration(format string, args ...interface{}) error {
	return &StageError{Kind: KindConfiguration, Stage: StageConfig, Message: fmt.Sprintf(format, args...)}
}

// Authentication reports a caller credential that does not match
func Authentication(message string) error {
	return &StageError{Kind: KindAuthentication, Stage: StageConfig, Message: message}
}

// Validation reports missing or empty required input
func Validation(stage, message string) error {
	return &StageError{Kind: KindValidation, Stage: stage, Message: message}
}

// TranscriptionService reports a non-success response from the transcription service
func TranscriptionService(status int, body string, cause error) error {
	return upstream(StageTranscribe, "transcription service", status, body, cause)
}

// ChatService reports a failed call to the chat-completion service
func ChatService(status int, body string, cause error) error {
	return upstream(StagePersona, "chat completion service", status, body, cause)
}

// SynthesisService reports a non-retryable speech synthesis failure
func SynthesisService(status int, body string, cause error) error {
	return upstream(StageSynthesize, "speech synthesis service", status, body, cause)
}

// VideoService reports a non-success response during video submission or polling
func VideoService(status int, body string, cause error) error {
	return upstream(StageVideo, "video service", status, body, cause)
}

// Storage reports a failed upload to the audio object store
func Storage(cause error) error {
	return &StageError{Kind: KindUpstream, Stage: StageStorage, Message: "audio upload failed", Cause: cause}
}

// RateLimitExceeded wraps the last rate-limit error after retries ran out
func RateLimitExceeded(attempts int, last error) error {
	return &StageError{
		Kind:    KindRateLimit,
		Stage:   StageSynthesize,
		Message: fmt.Sprintf("speech synthesis rate limited after %d attempts", attempts),
		Cause:   last,
	}
}

// ResponseTooLong reports a persona reply over the word cap
func ResponseTooLong(words, max int) error {
	return &StageError{
		Kind:    KindResponseTooLong,
		Stage:   StagePersona,
		Message: fmt.Sprintf("response too long: %d words (max %d)", words, max),
	}
}

// EmptyGeneration reports a completion with no usable text
func EmptyGeneration() error {
	return &StageError{Kind: KindEmptyGeneration, Stage: StagePersona, Message: "no response generated"}
}

// VideoGenerationFailed reports a job that reached the error state
func VideoGenerationFailed(jobID, reason string) error {
	msg := fmt.Sprintf("video generation failed for job %s", jobID)
	if reason != "" {
		msg += ": " + reason
	}
	return &StageError{Kind: KindVideoFailed, Stage: StageVideo, Message: msg}
}

// VideoGenerationTimeout reports a job still pending after all polls
func VideoGenerationTimeout(jobID string, polls int) error {
	return &StageError{
		Kind:    KindVideoTimeout,
		Stage:   StageVideo,
		Message: fmt.Sprintf("video generation timed out: job %s not finished after %d polls", jobID, polls),
	}
}

func upstream(stage, service string, status int, body string, cause error) error {
	msg := service + " error"
	if status > 0 {
		msg = fmt.Sprintf("%s error (status %d)", service, status)
	}
	if body != "" {
		msg += ": " + body
	}
	return &StageError{Kind: KindUpstream, Stage: stage, Message: msg, Body: body, Cause: cause}
}
