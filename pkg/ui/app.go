package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/vanderheijden86/stitchwork/pkg/assets"
	"github.com/vanderheijden86/stitchwork/pkg/config"
	"github.com/vanderheijden86/stitchwork/pkg/model"
	"github.com/vanderheijden86/stitchwork/pkg/narration"
	"github.com/vanderheijden86/stitchwork/pkg/tutorial"
	"github.com/vanderheijden86/stitchwork/pkg/watcher"
)

// Route names a screen.
type Route int

const (
	RouteHome Route = iota
	RouteTutorial
)

func (r Route) String() string {
	if r == RouteTutorial {
		return "tutorial"
	}
	return "home"
}

// EngineSelector builds a narration engine by name.
type EngineSelector func(name string, voice narration.Voice) (narration.Engine, error)

// Options configures the App.
type Options struct {
	Config     config.Config
	ConfigPath string
	Engine     narration.Engine
	Tutorial   model.Tutorial
	Library    *assets.Library
	Theme      *Theme
	// Watcher, when set, reloads Config from ConfigPath on change.
	Watcher *watcher.Watcher
	// SelectEngine replaces the engine when a reload changes its name.
	// Defaults to narration.Select.
	SelectEngine EngineSelector
	Logger       *zap.Logger
}

// App is the root model. It routes between the home screen and the step
// viewer and hands the step sequence to a fresh session on each entry.
type App struct {
	cfg        config.Config
	configPath string
	engine     narration.Engine
	engineName string
	pending    narration.Engine
	selectFn   EngineSelector
	tut        model.Tutorial
	lib        *assets.Library
	theme      Theme
	watch      *watcher.Watcher
	log        *zap.Logger

	route  Route
	home   HomeModel
	viewer ViewerModel
	gen    int

	width  int
	height int
}

// NewApp builds the root model.
func NewApp(opts Options) *App {
	var theme Theme
	if opts.Theme != nil {
		theme = *opts.Theme
	} else {
		theme = DefaultTheme(lipgloss.DefaultRenderer())
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	lib := opts.Library
	if lib == nil {
		lib = assets.Default()
	}
	engine := opts.Engine
	if engine == nil {
		engine = narration.NewSilentEngine(narration.WithSilentLogger(log))
	}
	sel := opts.SelectEngine
	if sel == nil {
		sel = func(name string, v narration.Voice) (narration.Engine, error) {
			return narration.Select(name, v, log)
		}
	}
	a := &App{
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		engine:     engine,
		engineName: opts.Config.EngineName(),
		selectFn:   sel,
		tut:        opts.Tutorial,
		lib:        lib,
		theme:      theme,
		watch:      opts.Watcher,
		log:        log,
		width:      80,
		height:     24,
	}
	a.home = NewHomeModel(a.tut, theme, a.cfg.Motion.FPS)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.home.Init(), WatchConfigCmd(a.watch))
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.home.SetSize(msg.Width, msg.Height)
		if a.route == RouteTutorial {
			a.viewer.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case StartTutorialMsg:
		if a.route == RouteTutorial {
			return a, nil
		}
		return a, a.startTutorial()

	case LeaveTutorialMsg:
		if a.route != RouteTutorial {
			return a, nil
		}
		a.viewer.Close()
		a.route = RouteHome
		a.log.Debug("left tutorial", zap.Bool("completed", msg.Completed))
		if msg.Completed {
			return a, a.home.SetStatus("Training complete", false)
		}
		return a, nil

	case ConfigChangedMsg:
		return a, tea.Batch(ReloadConfigCmd(a.configPath), WatchConfigCmd(a.watch))

	case ConfigReloadedMsg:
		return a, a.applyConfig(msg)

	// Home's timers outlive a trip into the tutorial.
	case homeFrameMsg, homeReleaseMsg, homeClearStatusMsg:
		var cmd tea.Cmd
		a.home, cmd = a.home.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.route {
	case RouteTutorial:
		a.viewer, cmd = a.viewer.Update(msg)
	default:
		a.home, cmd = a.home.Update(msg)
	}
	return a, cmd
}

func (a *App) startTutorial() tea.Cmd {
	if a.pending != nil {
		closeEngine(a.engine, a.log)
		a.engine = a.pending
		a.pending = nil
	}
	a.gen++
	sess := tutorial.NewSession(a.tut.Steps, a.engine,
		tutorial.WithVoice(a.cfg.Narration.Voice),
		tutorial.WithLogger(a.log),
	)
	a.viewer = NewViewerModel(sess, ViewerOptions{
		Title:   a.tut.Title,
		Config:  a.cfg,
		Library: a.lib,
		Theme:   a.theme,
		Gen:     a.gen,
	})
	a.viewer.SetSize(a.width, a.height)
	a.home.Settle()
	a.route = RouteTutorial
	a.log.Debug("started tutorial", zap.String("id", a.tut.ID), zap.Int("gen", a.gen))
	return a.viewer.Init()
}

func (a *App) applyConfig(msg ConfigReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		a.log.Warn("config reload failed", zap.Error(msg.Err))
		return a.home.SetStatus(fmt.Sprintf("Config error: %v", msg.Err), true)
	}
	a.cfg = msg.Config
	a.home.SetFPS(a.cfg.Motion.FPS)
	if a.route == RouteTutorial {
		a.viewer.ApplyConfig(a.cfg)
	}

	if name := a.cfg.EngineName(); name != a.engineName {
		eng, err := a.selectFn(name, a.cfg.Narration.Voice)
		if err != nil {
			a.log.Warn("selecting narration engine", zap.String("engine", name), zap.Error(err))
			return a.home.SetStatus(fmt.Sprintf("Narration engine: %v", err), true)
		}
		if a.pending != nil {
			closeEngine(a.pending, a.log)
		}
		a.pending = eng
		a.engineName = name
		a.log.Info("narration engine changed", zap.String("engine", narration.NameOf(eng)))
	}
	return a.home.SetStatus("Config reloaded", false)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.route == RouteTutorial {
		return a.viewer.View()
	}
	return a.home.View()
}

// Route returns the active screen.
func (a *App) Route() Route {
	return a.route
}

// Config returns the settings in effect.
func (a *App) Config() config.Config {
	return a.cfg
}

// Close stops narration and releases the engine.
func (a *App) Close() {
	if a.route == RouteTutorial {
		a.viewer.Close()
	}
	if a.pending != nil {
		closeEngine(a.pending, a.log)
		a.pending = nil
	}
	closeEngine(a.engine, a.log)
}

func closeEngine(e narration.Engine, log *zap.Logger) {
	c, ok := e.(narration.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("closing narration engine", zap.Error(err))
	}
}
