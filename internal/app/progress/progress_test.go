package progress

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func finishWithin(t *testing.T, tracker *Tracker, err error) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		tracker.Finish(err)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Finish did not return")
	}
}

func TestDisabledManagerIsNoop(t *testing.T) {
	tracker := NewTracker(NewManager(Config{Enabled: false}), 3, 60)

	tracker.Stage("transcribe", nil)
	tracker.Poll(false)
	finishWithin(t, tracker, nil)

	assert.Equal(t, int64(0), tracker.StagesDone())
	assert.Equal(t, int64(0), tracker.Polls())
}

func TestTrackerCountsStagesAndPolls(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(NewManager(Config{Enabled: true, Writer: &buf}), 3, 60)

	tracker.Stage("transcribe", nil)
	tracker.Stage("persona", nil)
	tracker.Poll(false)
	tracker.Poll(false)
	tracker.Poll(true)
	tracker.Stage("video", nil)
	finishWithin(t, tracker, nil)

	assert.Equal(t, int64(3), tracker.StagesDone())
	assert.Equal(t, int64(3), tracker.Polls())
}

func TestTrackerFailureAbortsBars(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(NewManager(Config{Enabled: true, Writer: &buf}), 5, 60)

	tracker.Stage("transcribe", nil)
	tracker.Stage("persona", errors.New("response too long"))
	finishWithin(t, tracker, errors.New("response too long"))

	assert.Equal(t, int64(1), tracker.StagesDone())
	assert.Equal(t, int64(0), tracker.Polls())

	// A second Finish is a no-op
	finishWithin(t, tracker, nil)
}

func TestShouldShow(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, ShouldShow(false, &buf))
	assert.True(t, ShouldShow(true, &buf))
	assert.False(t, IsTTY(nil))

	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTTY(f))
}
