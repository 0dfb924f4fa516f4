package progress

import "sync"

// Tracker follows one pipeline run: one bar over its stages and one over
// the video status polls.
type Tracker struct {
	manager *Manager
	stages  *Bar
	polls   *Bar
	once    sync.Once
}

// NewTracker creates both bars up front
func NewTracker(manager *Manager, stageCount, maxPolls int) *Tracker {
	return &Tracker{
		manager: manager,
		stages:  manager.CreateBar(stageCount, "stages"),
		polls:   manager.CreateBar(maxPolls, "video polls"),
	}
}

// Stage records a finished stage. Failed stages are left to Finish.
func (t *Tracker) Stage(name string, err error) {
	if err == nil {
		t.stages.Increment()
	}
}

// Poll records one status query. A terminal status closes the poll bar.
func (t *Tracker) Poll(terminal bool) {
	t.polls.Increment()
	if terminal {
		t.polls.Complete()
	}
}

// Finish closes both bars and waits for the final render. On failure the
// bars are aborted where they stopped.
func (t *Tracker) Finish(err error) {
	t.once.Do(func() {
		if err != nil {
			t.stages.Abort()
			t.polls.Abort()
		} else {
			t.stages.Complete()
			t.polls.Complete()
		}
		t.manager.Wait()
	})
}

// StagesDone returns the number of finished stages
func (t *Tracker) StagesDone() int64 {
	return t.stages.Current()
}

// Polls returns the number of recorded status queries
func (t *Tracker) Polls() int64 {
	return t.polls.Current()
}
