package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/tara-vision/stackhat/internal/project"
)

const (
	// DefaultRunDelay is how long "run" waits before reporting the app as up
	DefaultRunDelay = 1200 * time.Millisecond

	// HelpText lists the commands the interpreter recognizes
	HelpText = "Available commands: run, start, ls, dir, cat <file>, help, clear"

	// EmptyDirectory is printed by ls when the forest has no entries
	EmptyDirectory = "Empty directory."

	catPrefix      = "cat "
	catPreviewSize = 200
)

// Interpreter dispatches single-line commands of the simulated terminal
type Interpreter struct {
	log       *Log
	scheduler *Scheduler
	runDelay  time.Duration
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithRunDelay overrides the delay before the deferred "run" entry
func WithRunDelay(d time.Duration) Option {
	return func(i *Interpreter) {
		i.runDelay = d
	}
}

// NewInterpreter creates an interpreter writing to log
func NewInterpreter(log *Log, scheduler *Scheduler, opts ...Option) *Interpreter {
	i := &Interpreter{
		log:       log,
		scheduler: scheduler,
		runDelay:  DefaultRunDelay,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Execute runs one command against a read-only forest. The raw input is
// always logged first as a command entry.
func (i *Interpreter) Execute(input string, forest project.Forest, projectName string) {
	i.log.Append(input, TypeCommand)

	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)

	switch {
	case lower == "run" || lower == "start":
		i.run(projectName)
	case lower == "ls" || lower == "dir":
		i.list(forest)
	case lower == "help":
		i.log.Append(HelpText, TypeInfo)
	case lower == "clear":
		i.log.Clear()
	case len(trimmed) > len(catPrefix) && strings.EqualFold(trimmed[:len(catPrefix)], catPrefix):
		i.cat(forest, strings.TrimSpace(trimmed[len(catPrefix):]))
	default:
		i.log.Append(fmt.Sprintf("Command \"%s\" not recognized. Type \"help\" for a list of commands.", input), TypeError)
	}
}

// run is cosmetic. The deferred entry is not cancelled by clear or by
// later commands; it lands in whatever the log holds when it fires.
func (i *Interpreter) run(projectName string) {
	i.log.Append("Searching for entry point...", TypeInfo)
	i.log.Append(fmt.Sprintf("Executing project \"%s\" runtime environment...", projectName), TypeProcess)

	log := i.log
	i.scheduler.After(i.runDelay, func() {
		log.Append("Virtual terminal initialized. App running at localhost:3000 (SIMULATED)", TypeSuccess)
	})
}

func (i *Interpreter) list(forest project.Forest) {
	if len(forest) == 0 {
		i.log.Append(EmptyDirectory, TypeInfo)
		return
	}

	lines := make([]string, 0, len(forest))
	for _, n := range forest {
		prefix := "[FILE] "
		if n.IsFolder() {
			prefix = "[DIR]  "
		}
		lines = append(lines, prefix+n.Name)
	}
	i.log.Append(strings.Join(lines, "\n"), TypeInfo)
}

// cat only looks at top-level names; it does not descend into folders
func (i *Interpreter) cat(forest project.Forest, name string) {
	node := forest.FindTopLevel(name)
	if node == nil || node.Text() == "" {
		i.log.Append(fmt.Sprintf("File \"%s\" not found in root.", name), TypeError)
		return
	}
	i.log.Append(fmt.Sprintf("Reading %s:\n%s...", node.Name, preview(node.Text(), catPreviewSize)), TypeInfo)
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
