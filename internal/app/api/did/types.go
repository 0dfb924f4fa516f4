package did

// JobStatus is the normalized state of a video job
type JobStatus string

const (
	StatusPending JobStatus = "pending"
	StatusDone    JobStatus = "done"
	StatusError   JobStatus = "error"
)

// Job is a talking-head video job as tracked by the adapter
type Job struct {
	ID        string
	Status    JobStatus
	ResultURL string
	// Reason holds the service's failure description for StatusError
	Reason string
}

// Terminal reports whether polling can stop
func (j Job) Terminal() bool {
	return j.Status == StatusDone || j.Status == StatusError
}

// Voice selects the video service's built-in text-to-speech
type Voice struct {
	Provider string
	VoiceID  string
}

// Script is what the portrait should say: either Text with Voice, or AudioURL
type Script struct {
	Text     string
	Voice    Voice
	AudioURL string
}

type scriptPayload struct {
	Type     string           `json:"type"`
	Input    string           `json:"input,omitempty"`
	Provider *providerPayload `json:"provider,omitempty"`
	AudioURL string           `json:"audio_url,omitempty"`
}

type providerPayload struct {
	Type    string `json:"type"`
	VoiceID string `json:"voice_id"`
}

type createTalkRequest struct {
	SourceURL string        `json:"source_url"`
	Script    scriptPayload `json:"script"`
	Config    *talkConfig   `json:"config,omitempty"`
}

type talkConfig struct {
	Stitch bool `json:"stitch"`
}

// talkResponse covers both the create and the status responses. The service
// reports the finished video either as result.video_url or as result_url.
type talkResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url,omitempty"`
	Result    *struct {
		VideoURL string `json:"video_url,omitempty"`
	} `json:"result,omitempty"`
	Error *struct {
		Kind        string `json:"kind,omitempty"`
		Description string `json:"description,omitempty"`
	} `json:"error,omitempty"`
}

// videoURL normalizes the two result shapes into one field
func (r talkResponse) videoURL() string {
	if r.Result != nil && r.Result.VideoURL != "" {
		return r.Result.VideoURL
	}
	return r.ResultURL
}

// normalizeStatus folds the service's lifecycle states into pending, done or error
func normalizeStatus(s string) JobStatus {
	switch s {
	case "done":
		return StatusDone
	case "error", "rejected":
		return StatusError
	default:
		// created, started, pending, queued
		return StatusPending
	}
}
