package workspace

import (
	"errors"
	"time"

	"github.com/tara-vision/stackhat/internal/project"
	"github.com/tara-vision/stackhat/internal/telemetry"
	"github.com/tara-vision/stackhat/internal/terminal"
)

// Phase is the coarse state of the workspace
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseGenerating Phase = "generating"
	PhaseBuilding   Phase = "building"
	PhaseSaving     Phase = "saving"
)

// View selects where free-form input goes
type View string

const (
	ViewExplorer View = "explorer"
	ViewTerminal View = "terminal"
)

const (
	// DefaultGenerateTimeout bounds a single architecture request
	DefaultGenerateTimeout = 5 * time.Minute

	// DefaultCompileDuration is how long Compile holds the saving phase
	DefaultCompileDuration = 800 * time.Millisecond
)

// ErrBusy is returned when an operation needs the idle phase and the
// workspace is generating, building or saving
var ErrBusy = errors.New("workspace is busy")

// Snapshot is a read-only copy of the workspace state
type Snapshot struct {
	Name      string
	Phase     Phase
	View      View
	Forest    project.Forest
	Log       []terminal.Entry
	Telemetry telemetry.Reading
}
