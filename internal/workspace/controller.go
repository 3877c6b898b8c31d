// Package workspace owns the project state and routes user input to the
// terminal, the code injector or the architect.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tara-vision/stackhat/internal/architect"
	"github.com/tara-vision/stackhat/internal/project"
	"github.com/tara-vision/stackhat/internal/storage"
	"github.com/tara-vision/stackhat/internal/telemetry"
	"github.com/tara-vision/stackhat/internal/terminal"
)

const (
	addCodePrefix     = "add code to "
	promptPreviewSize = 30
)

// Saver receives snapshots worth persisting
type Saver interface {
	Schedule(p storage.Project)
	Flush() error
	Cancel()
}

// ProjectDeleter removes the persisted project
type ProjectDeleter interface {
	DeleteProject() error
}

// Options configures a Controller. Architect is required; everything
// else has a working default.
type Options struct {
	Architect   architect.Collaborator
	Log         *terminal.Log
	Scheduler   *terminal.Scheduler
	Interpreter *terminal.Interpreter
	Monitor     *telemetry.Monitor
	Saver       Saver
	Store       ProjectDeleter
	Logger      *zap.Logger

	// Initial restores an autosaved project
	Initial *storage.Project

	// OnPhaseChange is called outside the lock after every phase change
	OnPhaseChange func(Phase)

	GenerateTimeout time.Duration
	CompileDuration time.Duration
}

// Controller is the single writer of the workspace state
type Controller struct {
	architect     architect.Collaborator
	log           *terminal.Log
	scheduler     *terminal.Scheduler
	interpreter   *terminal.Interpreter
	monitor       *telemetry.Monitor
	saver         Saver
	store         ProjectDeleter
	logger        *zap.Logger
	onPhaseChange func(Phase)

	generateTimeout time.Duration
	compileDuration time.Duration

	mu     sync.Mutex
	name   string
	forest project.Forest
	phase  Phase
	view   View
}

// New creates a controller in the idle phase with the explorer view
func New(opts Options) (*Controller, error) {
	if opts.Architect == nil {
		return nil, errors.New("architect is required")
	}

	c := &Controller{
		architect:       opts.Architect,
		log:             opts.Log,
		scheduler:       opts.Scheduler,
		interpreter:     opts.Interpreter,
		monitor:         opts.Monitor,
		saver:           opts.Saver,
		store:           opts.Store,
		logger:          opts.Logger,
		onPhaseChange:   opts.OnPhaseChange,
		generateTimeout: opts.GenerateTimeout,
		compileDuration: opts.CompileDuration,
		name:            project.DefaultName,
		phase:           PhaseIdle,
		view:            ViewExplorer,
	}
	if c.log == nil {
		c.log = terminal.NewLog()
	}
	if c.scheduler == nil {
		c.scheduler = terminal.NewScheduler()
	}
	if c.interpreter == nil {
		c.interpreter = terminal.NewInterpreter(c.log, c.scheduler)
	}
	if c.monitor == nil {
		c.monitor = telemetry.NewMonitor(telemetry.DefaultInterval, nil)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.generateTimeout <= 0 {
		c.generateTimeout = DefaultGenerateTimeout
	}
	if c.compileDuration <= 0 {
		c.compileDuration = DefaultCompileDuration
	}

	if p := opts.Initial; p != nil {
		if p.Name != "" {
			c.name = p.Name
		}
		c.forest = p.Nodes
		c.logger.Info("restored autosaved project",
			zap.String("name", c.name),
			zap.Int("files", c.forest.CountFiles()),
			zap.Time("last_saved", p.LastSaved))
	}
	return c, nil
}

// Log returns the terminal log
func (c *Controller) Log() *terminal.Log {
	return c.log
}

// Submit handles one line of user input. In the terminal view the line
// is a command; otherwise it is a code injection or an architecture
// request. Collaborator failures are reported in the log, not returned.
func (c *Controller) Submit(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	c.mu.Lock()
	view, forest, name := c.view, c.forest, c.name
	c.mu.Unlock()

	if view == ViewTerminal {
		c.interpreter.Execute(input, forest, name)
		return nil
	}

	if target, text, ok := parseAddCode(input); ok {
		c.inject(target, text)
		return nil
	}

	return c.generate(ctx, input)
}

// parseAddCode splits "add code to <target>: <text>". The text may
// itself contain colons.
func parseAddCode(input string) (target, text string, ok bool) {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) < len(addCodePrefix) || !strings.EqualFold(trimmed[:len(addCodePrefix)], addCodePrefix) {
		return "", "", false
	}

	rest := trimmed[len(addCodePrefix):]
	before, after, found := strings.Cut(rest, ":")
	if !found {
		return "", "", false
	}

	target = strings.TrimSpace(before)
	if target == "" {
		return "", "", false
	}
	return target, strings.TrimSpace(after), true
}

func (c *Controller) inject(target, text string) {
	c.log.Append(fmt.Sprintf("Injecting code into %s...", target), terminal.TypeCommand)

	c.mu.Lock()
	match := c.forest.FindByName(target)
	switch {
	case match != nil && match.IsFolder():
		c.mu.Unlock()
		c.log.Append(fmt.Sprintf("\"%s\" is a directory.", target), terminal.TypeError)
		return
	case match != nil:
		c.forest, _ = c.forest.AppendContent(target, text)
	default:
		c.forest = c.forest.WithFile(target, text)
	}
	snap := c.projectLocked()
	c.mu.Unlock()

	c.autosave(snap)
	if match != nil {
		c.log.Append(fmt.Sprintf("Content successfully appended to %s.", target), terminal.TypeSuccess)
	} else {
		c.log.Append(fmt.Sprintf("New file \"%s\" created with provided code.", target), terminal.TypeSuccess)
	}
}

func (c *Controller) generate(ctx context.Context, prompt string) error {
	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.phase = PhaseGenerating
	c.mu.Unlock()

	c.monitor.Start()
	c.log.Clear()
	c.log.Append(fmt.Sprintf("Initiating architect pattern for: %s...", truncate(prompt, promptPreviewSize)), terminal.TypeCommand)
	c.notify(PhaseGenerating)

	genCtx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	started := time.Now()
	bp, err := c.architect.Generate(genCtx, prompt)
	if err != nil {
		c.logger.Warn("architect request failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(started)))
		c.setPhase(PhaseIdle)
		c.log.Append("Architect failure. Connection unstable.", terminal.TypeError)
		return nil
	}

	c.mu.Lock()
	c.phase = PhaseBuilding
	c.name = bp.Name
	c.mu.Unlock()
	c.notify(PhaseBuilding)

	forest := project.BuildTree(bp.Files)

	c.mu.Lock()
	c.forest = forest
	c.view = ViewExplorer
	c.phase = PhaseIdle
	snap := c.projectLocked()
	c.mu.Unlock()

	c.monitor.Stop()
	c.notify(PhaseIdle)
	c.autosave(snap)

	c.logger.Info("project generated",
		zap.String("name", bp.Name),
		zap.Int("files", len(bp.Files)),
		zap.Int("top_level_nodes", len(forest)),
		zap.Duration("elapsed", time.Since(started)))
	c.log.Append(fmt.Sprintf("Build successful. Project \"%s\" initialized.", bp.Name), terminal.TypeSuccess)
	return nil
}

// SetView switches where free-form input goes
func (c *Controller) SetView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

// View returns the active view without copying the project
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Reset empties the project and drops any saved or pending autosave.
// A failure to delete the saved record is returned after the in-memory
// reset has happened.
func (c *Controller) Reset() error {
	c.mu.Lock()
	c.forest = nil
	c.name = project.DefaultName
	c.mu.Unlock()

	if c.saver != nil {
		c.saver.Cancel()
	}
	if c.store == nil {
		return nil
	}
	if err := c.store.DeleteProject(); err != nil {
		c.logger.Error("failed to delete autosave", zap.Error(err))
		return fmt.Errorf("delete autosave: %w", err)
	}
	return nil
}

// Compile holds the saving phase for a moment. It has no other effect.
func (c *Controller) Compile() error {
	c.mu.Lock()
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.phase = PhaseSaving
	c.mu.Unlock()

	c.log.Append("Compiling project structure...", terminal.TypeCommand)
	c.notify(PhaseSaving)

	c.scheduler.After(c.compileDuration, func() {
		c.mu.Lock()
		if c.phase != PhaseSaving {
			c.mu.Unlock()
			return
		}
		c.phase = PhaseIdle
		c.mu.Unlock()
		c.notify(PhaseIdle)
	})
	return nil
}

// Snapshot returns a deep copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	s := Snapshot{
		Name:   c.name,
		Phase:  c.phase,
		View:   c.view,
		Forest: c.forest.Clone(),
	}
	c.mu.Unlock()

	s.Log = c.log.Entries()
	s.Telemetry = c.monitor.Reading()
	return s
}

// Close drops pending deferred work, stops telemetry and writes any
// pending autosave.
func (c *Controller) Close() error {
	c.scheduler.Invalidate()
	c.monitor.Stop()
	if c.saver == nil {
		return nil
	}
	if err := c.saver.Flush(); err != nil {
		return fmt.Errorf("flush autosave: %w", err)
	}
	return nil
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()

	if p == PhaseIdle {
		c.monitor.Stop()
	}
	c.notify(p)
}

func (c *Controller) notify(p Phase) {
	if c.onPhaseChange != nil {
		c.onPhaseChange(p)
	}
}

// projectLocked captures the persistable state. c.mu must be held.
func (c *Controller) projectLocked() storage.Project {
	return storage.Project{Name: c.name, Nodes: c.forest}
}

func (c *Controller) autosave(p storage.Project) {
	if c.saver == nil || len(p.Nodes) == 0 {
		return
	}
	c.saver.Schedule(p)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
