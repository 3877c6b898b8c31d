package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tara-vision/stackhat/internal/architect"
	"github.com/tara-vision/stackhat/internal/logging"
	"github.com/tara-vision/stackhat/internal/project"
	"github.com/tara-vision/stackhat/internal/provider"
	"github.com/tara-vision/stackhat/internal/storage"
	"github.com/tara-vision/stackhat/internal/telemetry"
	"github.com/tara-vision/stackhat/internal/terminal"
	"github.com/tara-vision/stackhat/internal/ui"
	"github.com/tara-vision/stackhat/internal/workspace"
)

const modelDetectTimeout = 30 * time.Second

// session ties the controller to the readline front end
type session struct {
	ctrl     *workspace.Controller
	store    *storage.Manager
	renderer *ui.Renderer
	spinner  *ui.Spinner
	rl       *readline.Instance
	out      io.Writer
	logger   *zap.Logger
	info     *provider.Info

	mu    sync.Mutex
	phase workspace.Phase
	built bool
}

func startREPL(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	host := viper.GetString("host")
	if host == "" {
		fmt.Fprintln(os.Stderr, "Error: LLM server host not found.")
		fmt.Fprintln(os.Stderr, "Set it via:")
		fmt.Fprintln(os.Stderr, "  - Environment variable: export STACKHAT_HOST=http://ollama.local:11434")
		fmt.Fprintln(os.Stderr, "  - Config file: ~/.stackhat/config.yaml")
		fmt.Fprintln(os.Stderr, "  - Command flag: --host http://ollama.local:11434")
		return provider.ErrNoHost
	}

	dataDir := viper.GetString("data_dir")
	store, err := storage.NewOsManager(dataDir)
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Config{
		Level:      viper.GetString("log_level"),
		Format:     viper.GetString("log_format"),
		OutputPath: filepath.Join(dataDir, "stackhat.log"),
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()
	logger := logging.L()

	renderer := ui.NewRendererWithConfig(&ui.Config{
		EnableSpinner:  !viper.GetBool("no_spinner"),
		EnableMarkdown: true,
	})
	fmt.Print(renderer.WelcomeMessage())

	if err := authenticate(store, renderer, logger); err != nil {
		return err
	}

	collab, info, err := connect(ctx, host, logger)
	if err != nil {
		return err
	}
	fmt.Print(renderer.ProviderMessage(info))

	initial, err := store.LoadProject()
	if err != nil {
		logger.Warn("ignoring unreadable autosave", zap.Error(err))
		fmt.Println(renderer.WarningMessage("Autosave could not be read; starting empty"))
	} else if initial != nil {
		fmt.Println(renderer.InfoMessage(fmt.Sprintf("Restored %q (saved %s)", initial.Name, initial.LastSaved.Local().Format(time.DateTime))))
	}
	fmt.Println()

	s := &session{
		store:    store,
		renderer: renderer,
		spinner:  ui.NewSpinner(os.Stdout),
		logger:   logger,
		info:     info,
		phase:    workspace.PhaseIdle,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          renderer.PromptString(workspace.ViewExplorer),
		HistoryFile:     filepath.Join(dataDir, "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    NewForestCompleter(s.forest),
	})
	if err != nil {
		return fmt.Errorf("failed to set up readline: %w", err)
	}
	defer rl.Close()
	s.rl = rl
	s.out = rl.Stdout()

	log := terminal.NewLog()
	log.Watch(s)
	scheduler := terminal.NewScheduler()

	s.ctrl, err = workspace.New(workspace.Options{
		Architect:       collab,
		Log:             log,
		Scheduler:       scheduler,
		Interpreter:     terminal.NewInterpreter(log, scheduler),
		Monitor:         telemetry.NewMonitor(telemetry.DefaultInterval, s.onTelemetry),
		Saver:           storage.NewAutosaver(store, storage.DefaultAutosaveDelay, logger),
		Store:           store,
		Logger:          logger,
		Initial:         initial,
		OnPhaseChange:   s.onPhaseChange,
		GenerateTimeout: generateTimeout(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := s.ctrl.Close(); err != nil {
			logger.Error("failed to close workspace", zap.Error(err))
		}
	}()

	s.loop(ctx)
	return nil
}

// connect resolves the provider and model and builds the collaborator
func connect(ctx context.Context, host string, logger *zap.Logger) (architect.Collaborator, *provider.Info, error) {
	p, err := provider.New(ctx, host, viper.GetString("vendor"), viper.GetString("key"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create provider: %w", err)
	}

	detectCtx, cancel := context.WithTimeout(ctx, modelDetectTimeout)
	defer cancel()
	models, err := p.DetectModels(detectCtx)
	if err != nil {
		logger.Warn("model detection failed", zap.String("host", host), zap.Error(err))
	}

	model := provider.SelectModel(viper.GetString("model"), models)
	if model == "" {
		return nil, nil, fmt.Errorf("no model available on %s (set one with --model)", host)
	}
	p.SetModel(model)

	info := p.Info()
	logger.Info("connected to provider",
		zap.String("vendor", info.Type.String()),
		zap.String("host", info.Host),
		zap.String("model", model),
		zap.Bool("json_mode", info.SupportsJSONMode))

	return architect.NewClient(p.CreateClient(), model, info.SupportsJSONMode), info, nil
}

func (s *session) loop(ctx context.Context) {
	for {
		line, err := s.rl.Readline()
		if err != nil { // io.EOF or Ctrl+C
			fmt.Fprintln(s.out, "\nGoodbye!")
			return
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" || trimmed == "quit" {
			fmt.Fprintln(s.out, "Goodbye!")
			return
		}
		if strings.HasPrefix(trimmed, "/") {
			s.handleCommand(trimmed)
			continue
		}

		s.submit(ctx, line)
	}
}

// submit runs one prompt. Ctrl+C while it runs cancels the request
// instead of killing the process.
func (s *session) submit(ctx context.Context, line string) {
	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s.mu.Lock()
	s.built = false
	s.mu.Unlock()

	err := s.ctrl.Submit(reqCtx, line)
	if errors.Is(err, workspace.ErrBusy) {
		fmt.Fprintln(s.out, s.renderer.WarningMessage("An architecture request is already running"))
		return
	}
	if err != nil {
		fmt.Fprintln(s.out, s.renderer.ErrorMessage(err))
		return
	}

	s.mu.Lock()
	built := s.built
	s.mu.Unlock()
	if built {
		snap := s.ctrl.Snapshot()
		fmt.Fprint(s.out, s.renderer.RenderTree(snap.Name, snap.Forest))
		s.updatePrompt(snap.View)
	}
}

func (s *session) handleCommand(line string) {
	parts := strings.Fields(line)
	base, args := parts[0], parts[1:]

	switch base {
	case "/explorer":
		s.setView(workspace.ViewExplorer)
		fmt.Fprintln(s.out, s.renderer.InfoMessage("Explorer view: prompts build projects or inject code"))

	case "/terminal":
		s.setView(workspace.ViewTerminal)
		fmt.Fprintln(s.out, s.renderer.InfoMessage("Terminal view: "+terminal.HelpText))

	case "/tree":
		snap := s.ctrl.Snapshot()
		fmt.Fprint(s.out, s.renderer.RenderTree(snap.Name, snap.Forest))

	case "/open":
		s.open(strings.Join(args, " "))

	case "/status":
		snap := s.ctrl.Snapshot()
		fmt.Fprint(s.out, s.renderer.StatusMessage(snap, s.store.GetRootDir()))
		if s.info != nil {
			fmt.Fprintf(s.out, "%s%s (%s)\n", ui.LabelStyle.Render("Provider"), s.info.Name, s.info.Model)
		}

	case "/compile":
		if err := s.ctrl.Compile(); err != nil {
			fmt.Fprintln(s.out, s.renderer.WarningMessage("Workspace is busy"))
		}

	case "/reset":
		if err := s.ctrl.Reset(); err != nil {
			fmt.Fprintln(s.out, s.renderer.WarningMessage(fmt.Sprintf("Project cleared, but the autosave could not be removed: %v", err)))
			return
		}
		fmt.Fprintln(s.out, s.renderer.SuccessMessage("Project cleared"))

	case "/help":
		printHelp(s.out)

	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", line)
		fmt.Fprintln(s.out, "Type '/help' for available commands.")
	}
}

func (s *session) open(path string) {
	forest := s.forest()
	if path == "" {
		selected, err := selectFile(forest)
		if err != nil {
			fmt.Fprintln(s.out, s.renderer.WarningMessage(err.Error()))
			return
		}
		path = selected
	}

	node := forest.Find(path)
	if node == nil {
		node = forest.FindByName(path)
	}
	switch {
	case node == nil:
		fmt.Fprintln(s.out, s.renderer.WarningMessage(fmt.Sprintf("%q not found", path)))
	case node.IsFolder():
		fmt.Fprintln(s.out, s.renderer.WarningMessage(fmt.Sprintf("%q is a directory", path)))
	default:
		fmt.Fprintln(s.out, s.renderer.FileView(node))
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Available commands:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Prompts (explorer view):")
	fmt.Fprintln(w, "    <description or code>       - Architect a new project")
	fmt.Fprintln(w, "    add code to <file>: <code>  - Append code to a file, or create it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Views:")
	fmt.Fprintln(w, "    /explorer  - Send prompts to the architect")
	fmt.Fprintln(w, "    /terminal  - Send input to the simulated terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Project:")
	fmt.Fprintln(w, "    /tree          - Show the project tree")
	fmt.Fprintln(w, "    /open [path]   - Preview a file (picker when no path)")
	fmt.Fprintln(w, "    /status        - Show project, telemetry and storage status")
	fmt.Fprintln(w, "    /compile       - Compile the project structure")
	fmt.Fprintln(w, "    /reset         - Clear the project and its autosave")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Terminal view:")
	fmt.Fprintln(w, "    "+terminal.HelpText)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Other:")
	fmt.Fprintln(w, "    /help  - Show this help message")
	fmt.Fprintln(w, "    exit   - Exit stackhat")
	fmt.Fprintln(w)
}

func (s *session) forest() project.Forest {
	if s.ctrl == nil {
		return nil
	}
	return s.ctrl.Snapshot().Forest
}

func (s *session) setView(v workspace.View) {
	s.ctrl.SetView(v)
	s.updatePrompt(v)
}

func (s *session) updatePrompt(v workspace.View) {
	s.rl.SetPrompt(s.renderer.PromptString(v))
}

// EntryAppended prints log entries as they arrive, including deferred ones
func (s *session) EntryAppended(e terminal.Entry) {
	line := s.renderer.FormatEntry(e)
	if s.spinner.IsRunning() {
		line = "\r\033[K" + line
	}
	fmt.Fprintln(s.out, line)
}

// LogCleared clears the screen when the terminal view is active
func (s *session) LogCleared() {
	if s.ctrl != nil && s.ctrl.View() == workspace.ViewTerminal {
		fmt.Fprint(s.out, "\033[H\033[2J")
	}
}

func (s *session) onPhaseChange(p workspace.Phase) {
	s.mu.Lock()
	prev := s.phase
	s.phase = p
	if prev == workspace.PhaseBuilding && p == workspace.PhaseIdle {
		s.built = true
	}
	s.mu.Unlock()

	if !s.renderer.Config().EnableSpinner {
		return
	}
	idle := telemetry.IdleReading()
	switch p {
	case workspace.PhaseGenerating:
		s.spinner.Start(s.renderer.TelemetryLine(p, idle.Speed, idle.Stream))
	case workspace.PhaseBuilding:
		s.spinner.UpdateMessage(s.renderer.TelemetryLine(p, idle.Speed, idle.Stream))
	case workspace.PhaseIdle:
		s.spinner.Stop()
	}
}

func (s *session) onTelemetry(r telemetry.Reading) {
	s.mu.Lock()
	phase := s.phase
	s.mu.Unlock()
	s.spinner.UpdateMessage(s.renderer.TelemetryLine(phase, r.Speed, r.Stream))
}
