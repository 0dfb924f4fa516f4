package did

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "persona-video/internal/app/errors"
)

const testPortrait = "https://example.com/lincoln.jpg"

// fakeTalks serves POST /talks once and answers GET /talks/{id} from statuses
// in order, repeating the last entry.
type fakeTalks struct {
	t        *testing.T
	statuses []string
	created  createTalkRequest
	creates  int32
	polls    int32
}

func (f *fakeTalks) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "Basic did-key", r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/talks":
		atomic.AddInt32(&f.creates, 1)
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.created))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"tlk_123","status":"created"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/talks/tlk_123":
		n := int(atomic.AddInt32(&f.polls, 1)) - 1
		if n >= len(f.statuses) {
			n = len(f.statuses) - 1
		}
		w.Write([]byte(f.statuses[n]))
	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, baseURL string, sleeps *[]time.Duration) *Client {
	c, err := NewClient(Config{
		APIKey:      "did-key",
		BaseURL:     baseURL,
		PortraitURL: testPortrait,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	return c.WithSleep(func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	})
}

func TestGenerateStopsAtFirstTerminalPoll(t *testing.T) {
	testCases := []struct {
		name string
		done string
	}{
		{
			name: "nested result video url",
			done: `{"id":"tlk_123","status":"done","result":{"video_url":"https://cdn.example.com/v.mp4"}}`,
		},
		{
			name: "top level result url",
			done: `{"id":"tlk_123","status":"done","result_url":"https://cdn.example.com/v.mp4"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeTalks{t: t, statuses: []string{
				`{"id":"tlk_123","status":"created"}`,
				`{"id":"tlk_123","status":"started"}`,
				tc.done,
			}}
			server := httptest.NewServer(fake)
			defer server.Close()

			var sleeps []time.Duration
			url, err := newTestClient(t, server.URL, &sleeps).Generate(context.Background(), Script{
				Text:  "Liberty is the right of every man.",
				Voice: Voice{Provider: "microsoft", VoiceID: "en-US-GuyNeural"},
			})

			require.NoError(t, err)
			assert.Equal(t, "https://cdn.example.com/v.mp4", url)
			assert.Equal(t, int32(1), fake.creates)
			assert.Equal(t, int32(3), fake.polls)
			assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 5 * time.Second}, sleeps)
		})
	}
}

func TestGenerateTimesOutWithoutExtraPoll(t *testing.T) {
	fake := &fakeTalks{t: t, statuses: []string{`{"id":"tlk_123","status":"started"}`}}
	server := httptest.NewServer(fake)
	defer server.Close()

	var sleeps []time.Duration
	_, err := newTestClient(t, server.URL, &sleeps).Generate(context.Background(), Script{AudioURL: "https://store.example.com/a.mp3"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrVideoTimeout)
	assert.Equal(t, int32(60), fake.polls)
	assert.Len(t, sleeps, 60)
}

func TestGenerateFailsOnErrorStatus(t *testing.T) {
	testCases := []struct {
		name   string
		status string
		reason string
	}{
		{"error", `{"id":"tlk_123","status":"error","error":{"kind":"FaceError","description":"face not detected"}}`, "face not detected"},
		{"rejected", `{"id":"tlk_123","status":"rejected","error":{"kind":"ModerationError"}}`, "ModerationError"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeTalks{t: t, statuses: []string{`{"id":"tlk_123","status":"started"}`, tc.status}}
			server := httptest.NewServer(fake)
			defer server.Close()

			var sleeps []time.Duration
			_, err := newTestClient(t, server.URL, &sleeps).Generate(context.Background(), Script{AudioURL: "https://store.example.com/a.mp3"})

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrVideoFailed)
			assert.Contains(t, err.Error(), tc.reason)
			assert.Equal(t, int32(2), fake.polls)
		})
	}
}

func TestGenerateDoneWithoutURL(t *testing.T) {
	fake := &fakeTalks{t: t, statuses: []string{`{"id":"tlk_123","status":"done"}`}}
	server := httptest.NewServer(fake)
	defer server.Close()

	var sleeps []time.Duration
	_, err := newTestClient(t, server.URL, &sleeps).Generate(context.Background(), Script{AudioURL: "https://store.example.com/a.mp3"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "missing result url")
}

func TestSubmitPayloadShapes(t *testing.T) {
	t.Run("text script carries voice provider", func(t *testing.T) {
		fake := &fakeTalks{t: t, statuses: []string{`{"status":"started"}`}}
		server := httptest.NewServer(fake)
		defer server.Close()

		var sleeps []time.Duration
		job, err := newTestClient(t, server.URL, &sleeps).Submit(context.Background(), Script{
			Text:  "Hello",
			Voice: Voice{Provider: "microsoft", VoiceID: "en-US-GuyNeural"},
		})
		require.NoError(t, err)

		assert.Equal(t, "tlk_123", job.ID)
		assert.Equal(t, StatusPending, job.Status)
		assert.Equal(t, testPortrait, fake.created.SourceURL)
		assert.Equal(t, "text", fake.created.Script.Type)
		assert.Equal(t, "Hello", fake.created.Script.Input)
		require.NotNil(t, fake.created.Script.Provider)
		assert.Equal(t, "en-US-GuyNeural", fake.created.Script.Provider.VoiceID)
	})

	t.Run("audio script carries audio url", func(t *testing.T) {
		fake := &fakeTalks{t: t, statuses: []string{`{"status":"started"}`}}
		server := httptest.NewServer(fake)
		defer server.Close()

		var sleeps []time.Duration
		_, err := newTestClient(t, server.URL, &sleeps).Submit(context.Background(), Script{AudioURL: AudioDataURL([]byte{0x49, 0x44, 0x33})})
		require.NoError(t, err)

		assert.Equal(t, "audio", fake.created.Script.Type)
		assert.True(t, strings.HasPrefix(fake.created.Script.AudioURL, "data:audio/mpeg;base64,"))
		assert.Nil(t, fake.created.Script.Provider)
	})
}

func TestSubmitNonSuccessIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"kind":"InsufficientCreditsError"}`))
	}))
	defer server.Close()

	var sleeps []time.Duration
	_, err := newTestClient(t, server.URL, &sleeps).Generate(context.Background(), Script{AudioURL: "https://a"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "status 402")
	assert.Contains(t, err.Error(), "InsufficientCreditsError")
	assert.Empty(t, sleeps)
}

func TestPollErrorIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":"tlk_123","status":"created"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var sleeps []time.Duration
	_, err := newTestClient(t, server.URL, &sleeps).Generate(context.Background(), Script{AudioURL: "https://a"})

	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Len(t, sleeps, 1)
}

func TestWaitHonorsContext(t *testing.T) {
	c, err := NewClient(Config{APIKey: "did-key", BaseURL: "http://127.0.0.1:1", PortraitURL: testPortrait}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Wait(ctx, "tlk_123")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObserverSeesEveryPoll(t *testing.T) {
	fake := &fakeTalks{t: t, statuses: []string{
		`{"status":"started"}`,
		`{"status":"done","result_url":"https://cdn.example.com/v.mp4"}`,
	}}
	server := httptest.NewServer(fake)
	defer server.Close()

	var sleeps []time.Duration
	var seen []JobStatus
	c := newTestClient(t, server.URL, &sleeps).WithObserver(func(job Job) {
		seen = append(seen, job.Status)
	})

	_, err := c.Wait(context.Background(), "tlk_123")
	require.NoError(t, err)
	assert.Equal(t, []JobStatus{StatusPending, StatusDone}, seen)
}

func TestNewClientFailsFast(t *testing.T) {
	_, err := NewClient(Config{PortraitURL: testPortrait}, nil)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "DID_API_KEY")

	_, err = NewClient(Config{APIKey: "k"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestBuildScriptRequiresContent(t *testing.T) {
	_, err := buildScript(Script{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = buildScript(Script{Text: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestJobTerminal(t *testing.T) {
	assert.False(t, Job{Status: normalizeStatus("created")}.Terminal())
	assert.False(t, Job{Status: normalizeStatus("started")}.Terminal())
	assert.True(t, Job{Status: normalizeStatus("done")}.Terminal())
	assert.True(t, Job{Status: normalizeStatus("rejected")}.Terminal())
}
