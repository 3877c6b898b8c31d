package storage

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultAutosaveDelay is the quiet period before a scheduled save is written
const DefaultAutosaveDelay = time.Second

// ProjectSaver persists autosave snapshots
type ProjectSaver interface {
	SaveProject(p *Project) error
}

// Autosaver debounces project saves: each Schedule call restarts the quiet
// period and only the latest snapshot is written.
type Autosaver struct {
	saver  ProjectSaver
	delay  time.Duration
	logger *zap.Logger

	// saveMu serializes writes; it is taken before mu
	saveMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending *Project
	id      string
}

// NewAutosaver creates an autosaver writing through saver
func NewAutosaver(saver ProjectSaver, delay time.Duration, logger *zap.Logger) *Autosaver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autosaver{saver: saver, delay: delay, logger: logger}
}

// Schedule queues p to be saved after the quiet period
func (a *Autosaver) Schedule(p Project) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = &p
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.Flush(); err != nil {
			a.logger.Error("autosave failed", zap.Error(err))
		}
	})
}

// Flush writes the pending snapshot immediately, if any. Concurrent
// flushes are serialized, so the latest snapshot is always written last.
func (a *Autosaver) Flush() error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	p := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if p != nil && p.ID == "" {
		p.ID = a.id
	}
	a.mu.Unlock()

	if p == nil {
		return nil
	}
	if err := a.saver.SaveProject(p); err != nil {
		return err
	}

	a.mu.Lock()
	a.id = p.ID
	a.mu.Unlock()

	a.logger.Debug("project autosaved",
		zap.String("name", p.Name),
		zap.Int("top_level_nodes", len(p.Nodes)))
	return nil
}

// Cancel drops the pending snapshot and forgets the project ID. It
// waits for a write already in progress, so nothing is saved after it
// returns unless Schedule is called again.
func (a *Autosaver) Cancel() {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = nil
	a.id = ""
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
