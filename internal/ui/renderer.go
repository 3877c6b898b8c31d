package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/tara-vision/stackhat/internal/project"
	"github.com/tara-vision/stackhat/internal/provider"
	"github.com/tara-vision/stackhat/internal/terminal"
	"github.com/tara-vision/stackhat/internal/workspace"
)

// Config holds UI configuration options
type Config struct {
	EnableSpinner  bool
	EnableMarkdown bool
}

// DefaultConfig returns the default UI configuration
func DefaultConfig() *Config {
	return &Config{
		EnableSpinner:  true,
		EnableMarkdown: true,
	}
}

// Renderer handles all UI output formatting
type Renderer struct {
	config   *Config
	markdown *glamour.TermRenderer
}

// NewRenderer creates a new renderer with default config
func NewRenderer() *Renderer {
	return NewRendererWithConfig(DefaultConfig())
}

// NewRendererWithConfig creates a renderer with custom config
func NewRendererWithConfig(config *Config) *Renderer {
	r := &Renderer{config: config}
	if config.EnableMarkdown {
		r.markdown = newMarkdownRenderer(defaultWordWrap)
	}
	return r
}

// Config returns the active configuration
func (r *Renderer) Config() *Config {
	return r.config
}

// WelcomeMessage returns the styled welcome banner
func (r *Renderer) WelcomeMessage() string {
	var sb strings.Builder

	title := TitleStyle.Render(IconHat + " stackhat")
	subtitle := Subtle.Render("project architect")

	sb.WriteString(fmt.Sprintf("%s - %s\n", title, subtitle))
	sb.WriteString(Subtle.Render("Describe a project to build it. Type '/help' for commands, 'exit' to quit"))
	sb.WriteString("\n")
	return sb.String()
}

// PromptString returns the styled readline prompt for the active view
func (r *Renderer) PromptString(view workspace.View) string {
	if view == workspace.ViewTerminal {
		return ShellPrompt.Render(ShellPromptText) + " "
	}
	return PromptStyle.Render("❯") + " "
}

// FormatEntry renders one terminal log entry. Command entries carry the
// shell prompt; continuation lines are indented under the message.
func (r *Renderer) FormatEntry(e terminal.Entry) string {
	stamp := Timestamp.Render("[" + e.Timestamp + "]")
	indent := strings.Repeat(" ", len(terminal.TimestampFormat)+3)
	msg := strings.ReplaceAll(e.Message, "\n", "\n"+indent)

	switch e.Type {
	case terminal.TypeCommand:
		return fmt.Sprintf("%s %s %s", stamp, ShellPrompt.Render(ShellPromptText), EntryCommand.Render(msg))
	case terminal.TypeError:
		return fmt.Sprintf("%s %s", stamp, EntryError.Render(msg))
	case terminal.TypeSuccess:
		return fmt.Sprintf("%s %s", stamp, EntrySuccess.Render(msg))
	case terminal.TypeProcess:
		return fmt.Sprintf("%s %s", stamp, EntryProcess.Render(msg))
	default:
		return fmt.Sprintf("%s %s", stamp, EntryInfo.Render(msg))
	}
}

// RenderTree draws the forest with box-drawing connectors
func (r *Renderer) RenderTree(name string, forest project.Forest) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(name) + "\n")
	if len(forest) == 0 {
		sb.WriteString(Subtle.Render(terminal.EmptyDirectory) + "\n")
		return sb.String()
	}
	for i, n := range forest {
		writeTree(&sb, n, "", i == len(forest)-1)
	}
	return sb.String()
}

func writeTree(sb *strings.Builder, n *project.Node, prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}

	display := n.Name
	if n.IsFolder() {
		display = FolderStyle.Render(n.Name + "/")
	}
	sb.WriteString(prefix + connector + display + "\n")

	childPrefix := prefix + "│   "
	if isLast {
		childPrefix = prefix + "    "
	}
	for i, child := range n.Children {
		writeTree(sb, child, childPrefix, i == len(n.Children)-1)
	}
}

// FileView renders a file preview with a header line
func (r *Renderer) FileView(n *project.Node) string {
	header := Bold.Render(n.Path) + " " + Subtle.Render("("+project.DetectFileType(n.Name)+")")
	if n.Text() == "" {
		return header + "\n" + Subtle.Render("(empty)")
	}
	return header + "\n" + r.RenderMarkdown(FileMarkdown(n.Name, n.Text()))
}

// StatusMessage summarizes the workspace
func (r *Renderer) StatusMessage(s workspace.Snapshot, dataDir string) string {
	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(LabelStyle.Render(label) + value + "\n")
	}

	row("Project", Bold.Render(s.Name))
	row("Phase", strings.ToUpper(string(s.Phase)))
	row("View", string(s.View))
	row("Files", fmt.Sprintf("%d", s.Forest.CountFiles()))
	row("Folders", fmt.Sprintf("%d", s.Forest.CountDirs()))
	row("Depth", fmt.Sprintf("%d", s.Forest.MaxDepth()))
	row("Stream", s.Telemetry.Stream)
	row("Speed", s.Telemetry.Speed)
	row("Log", fmt.Sprintf("%d entries", len(s.Log)))
	if dataDir != "" {
		row("Data", dataDir)
	}
	return sb.String()
}

// TelemetryLine is the spinner message shown while generating
func (r *Renderer) TelemetryLine(phase workspace.Phase, speed, stream string) string {
	label := "Architecting"
	if phase == workspace.PhaseBuilding {
		label = "Building"
	}
	return fmt.Sprintf("%s... %s", label, Subtle.Render(stream+" "+speed))
}

// ErrorMessage formats an error message
func (r *Renderer) ErrorMessage(err error) string {
	return ErrorStyle.Render(fmt.Sprintf("%s Error: %v", IconError, err))
}

// WarningMessage formats a warning message
func (r *Renderer) WarningMessage(msg string) string {
	return WarningStyle.Render(fmt.Sprintf("%s %s", IconWarning, msg))
}

// InfoMessage formats an info message
func (r *Renderer) InfoMessage(msg string) string {
	return EntryInfo.Render(fmt.Sprintf("%s %s", IconInfo, msg))
}

// SuccessMessage formats a success message
func (r *Renderer) SuccessMessage(msg string) string {
	return SuccessStyle.Render(fmt.Sprintf("%s %s", IconSuccess, msg))
}

// ProviderMessage formats provider information for display
func (r *Renderer) ProviderMessage(info *provider.Info) string {
	if info == nil {
		return ""
	}
	msg := fmt.Sprintf("%s Connected to %s at %s", IconSuccess, info.Name, info.Host)
	if info.Model != "" {
		msg += fmt.Sprintf(" (%s)", info.Model)
	}
	return SuccessStyle.Render(msg) + "\n"
}
