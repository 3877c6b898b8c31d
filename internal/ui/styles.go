package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary = lipgloss.Color("#10B981") // Emerald
	Accent  = lipgloss.Color("#34D399") // Light emerald
	Error   = lipgloss.Color("#EF4444") // Red
	Warning = lipgloss.Color("#F59E0B") // Amber
	Muted   = lipgloss.Color("#71717A") // Zinc
	Info    = lipgloss.Color("#A1A1AA") // Light zinc
	Process = lipgloss.Color("#60A5FA") // Blue
)

// Text styles
var (
	Bold   = lipgloss.NewStyle().Bold(true)
	Subtle = lipgloss.NewStyle().Foreground(Muted)
)

// Terminal log entry styles
var (
	EntryInfo    = lipgloss.NewStyle().Foreground(Info)
	EntryError   = lipgloss.NewStyle().Foreground(Error)
	EntrySuccess = lipgloss.NewStyle().Foreground(Primary)
	EntryCommand = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true)
	EntryProcess = lipgloss.NewStyle().Foreground(Process)
	ShellPrompt  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Timestamp    = lipgloss.NewStyle().Foreground(Muted)
)

// UI element styles
var (
	PromptStyle  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)
	FolderStyle  = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	LabelStyle   = lipgloss.NewStyle().Foreground(Muted).Width(12)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	SuccessStyle = lipgloss.NewStyle().Foreground(Primary)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
)

// Icon constants
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconArrow   = "→"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconHat     = "🎩"
)

// ShellPromptText precedes command entries in the terminal log
const ShellPromptText = "m3rlin@arch:~$"
