package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-video/internal/api/errors"
)

func TestAskRequestDecode(t *testing.T) {
	testCases := []struct {
		name    string
		audio   string
		want    []byte
		wantErr string
	}{
		{"plain base64", "SUQz", []byte("ID3"), ""},
		{"data url", "data:audio/webm;codecs=opus;base64,SUQz", []byte("ID3"), ""},
		{"surrounding whitespace", "  SUQz\n", []byte("ID3"), ""},
		{"not base64", "%%%", nil, "Audio data must be base64 encoded"},
		{"empty data url", "data:audio/webm;base64,", nil, errors.MsgAudioRequired},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := AskRequest{Audio: tc.audio}
			got, err := req.Decode()

			if tc.wantErr != "" {
				require.Error(t, err)
				apiErr, ok := err.(*errors.APIError)
				require.True(t, ok)
				assert.Equal(t, 400, apiErr.HTTPStatus())
				assert.Equal(t, tc.wantErr, apiErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAskRequestValidate(t *testing.T) {
	req := AskRequest{Audio: "   "}
	assert.Error(t, req.Validate())

	req.Audio = "SUQz"
	assert.NoError(t, req.Validate())
}
