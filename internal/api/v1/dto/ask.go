package dto

import (
	"encoding/base64"
	"strings"

	"persona-video/internal/api/errors"
	"persona-video/internal/app/api/openai/whisper"
)

// MaxRequestBytes bounds the JSON body: the base64 form of the largest
// transcribable recording plus room for a data URL prefix and the format field.
const MaxRequestBytes = (whisper.MaxAudioBytes+2)/3*4 + 64<<10

// AskRequest is the browser client's recorded question
type AskRequest struct {
	Audio  string `json:"audio" binding:"required"`
	Format string `json:"format,omitempty" binding:"omitempty,oneof=webm mp4 m4a ogg wav mp3 mpeg mpga"`
}

// Validate performs domain-specific validation
func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.Audio) == "" {
		return errors.NewBadRequestError(errors.MsgAudioRequired)
	}
	return nil
}

// Decode returns the recorded audio bytes. Data URL prefixes such as
// "data:audio/webm;base64," are accepted.
func (r *AskRequest) Decode() ([]byte, error) {
	payload := strings.TrimSpace(r.Audio)
	if i := strings.Index(payload, ","); strings.HasPrefix(payload, "data:") && i >= 0 {
		payload = payload[i+1:]
	}

	audio, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.NewBadRequestError("Audio data must be base64 encoded")
	}
	if len(audio) == 0 {
		return nil, errors.NewBadRequestError(errors.MsgAudioRequired)
	}
	return audio, nil
}

// AskResponse is the single success payload
type AskResponse struct {
	Transcription string `json:"transcription"`
	Response      string `json:"response"`
	VideoURL      string `json:"videoUrl"`
}
