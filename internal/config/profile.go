package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is one deployment variant of the pipeline: word cap, voice and
// whether audio is synthesized before the video job is submitted.
type Profile struct {
	Name            string         `yaml:"name"`
	PersonaName     string         `yaml:"persona_name"`
	PersonaProvider string         `yaml:"persona_provider"`
	MaxWords        int            `yaml:"max_words"`
	MaxTokens       int            `yaml:"max_tokens"`
	VideoMode       string         `yaml:"video_mode"`
	Voice           VoiceSelection `yaml:"voice"`
	PortraitURL     string         `yaml:"portrait_url"`
	AudioFormat     string         `yaml:"audio_format"`
}

// VoiceSelection picks the video service's built-in voice for text mode
type VoiceSelection struct {
	Provider string `yaml:"provider"`
	VoiceID  string `yaml:"voice_id"`
}

// LoadProfile reads a YAML profile. ${VAR} references are expanded from the
// environment before parsing.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	return &profile, nil
}

// Merge returns p with every non-zero field of override applied
func (p Profile) Merge(override Profile) Profile {
	if override.Name != "" {
		p.Name = override.Name
	}
	if override.PersonaName != "" {
		p.PersonaName = override.PersonaName
	}
	if override.PersonaProvider != "" {
		p.PersonaProvider = override.PersonaProvider
	}
	if override.MaxWords != 0 {
		p.MaxWords = override.MaxWords
	}
	if override.MaxTokens != 0 {
		p.MaxTokens = override.MaxTokens
	}
	if override.VideoMode != "" {
		p.VideoMode = override.VideoMode
	}
	if override.Voice.Provider != "" {
		p.Voice.Provider = override.Voice.Provider
	}
	if override.Voice.VoiceID != "" {
		p.Voice.VoiceID = override.Voice.VoiceID
	}
	if override.PortraitURL != "" {
		p.PortraitURL = override.PortraitURL
	}
	if override.AudioFormat != "" {
		p.AudioFormat = override.AudioFormat
	}
	return p
}
