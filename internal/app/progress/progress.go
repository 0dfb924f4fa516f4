// Package progress renders terminal progress bars for CLI runs of the pipeline
package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type Config struct {
	Enabled bool
	Writer  io.Writer
}

// Manager owns the bar container. A disabled manager hands out no-op bars.
type Manager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

type Bar struct {
	bar     *mpb.Bar
	enabled bool
}

func NewManager(config Config) *Manager {
	if !config.Enabled {
		return &Manager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWaitGroup(&sync.WaitGroup{}),
	)

	return &Manager{
		container: container,
		enabled:   true,
	}
}

func (m *Manager) CreateBar(total int, description string) *Bar {
	if !m.enabled || m.container == nil {
		return &Bar{enabled: false}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bar := m.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace),
			decor.OnComplete(decor.Name(""), " ✓"),
		),
	)

	return &Bar{
		bar:     bar,
		enabled: true,
	}
}

func (b *Bar) Increment() {
	if b.enabled && b.bar != nil {
		b.bar.Increment()
	}
}

// Current is the bar's count, always 0 for a disabled bar
func (b *Bar) Current() int64 {
	if b.enabled && b.bar != nil {
		return b.bar.Current()
	}
	return 0
}

// Complete marks the bar finished at its current count
func (b *Bar) Complete() {
	if b.enabled && b.bar != nil && !b.bar.Completed() {
		b.bar.SetTotal(b.bar.Current(), true)
	}
}

// Abort stops the bar and leaves it on screen
func (b *Bar) Abort() {
	if b.enabled && b.bar != nil && !b.bar.Completed() {
		b.bar.Abort(false)
	}
}

// Wait blocks until every bar is complete or aborted
func (m *Manager) Wait() {
	if m.enabled && m.container != nil {
		m.container.Wait()
	}
}

func (m *Manager) Shutdown() {
	if m.enabled && m.container != nil {
		m.container.Shutdown()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ShouldShow enables bars when forced or when w is a terminal
func ShouldShow(forced bool, w io.Writer) bool {
	return forced || IsTTY(w)
}
