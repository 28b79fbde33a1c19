// Command stitch is a terminal stitching tutorial: a home screen, a narrated
// step viewer, and exporters for printable handouts.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vanderheijden86/stitchwork/pkg/assets"
	"github.com/vanderheijden86/stitchwork/pkg/config"
	"github.com/vanderheijden86/stitchwork/pkg/content"
	"github.com/vanderheijden86/stitchwork/pkg/debug"
	"github.com/vanderheijden86/stitchwork/pkg/metrics"
	"github.com/vanderheijden86/stitchwork/pkg/narration"
	"github.com/vanderheijden86/stitchwork/pkg/ui"
	"github.com/vanderheijden86/stitchwork/pkg/version"
	"github.com/vanderheijden86/stitchwork/pkg/watcher"
)

func main() {
	err := newRootCmd(os.Stdout, os.Stderr).Execute()
	debug.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	engine     string
	mute       bool
	noMouse    bool
	metrics    bool
	debug      bool

	cfg config.Config
}

// configFile returns the config path in effect.
func (o *rootOptions) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ConfigPath()
}

// load reads the config file and applies env and flag overrides, in that
// order.
func (o *rootOptions) load() error {
	cfg, err := config.LoadFrom(o.configFile())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv()
	if o.engine != "" {
		cfg.Narration.Engine = strings.ToLower(o.engine)
	}
	if o.mute {
		cfg.Narration.Muted = true
	}
	if o.noMouse {
		cfg.UI.Mouse = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "stitch",
		Short:         "Learn to stitch, one narrated step at a time",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				debug.SetEnabled(true)
			}
			if opts.metrics {
				metrics.SetEnabled(true)
			}
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stitch/config.yaml)")
	pf.StringVar(&opts.engine, "engine", "", "narration engine: "+strings.Join(narration.EngineNames(), ", "))
	pf.BoolVar(&opts.mute, "mute", false, "disable narration audio")
	pf.BoolVar(&opts.noMouse, "no-mouse", false, "disable mouse support")
	pf.BoolVar(&opts.metrics, "metrics", false, "print timing metrics on exit")
	pf.BoolVar(&opts.debug, "debug", false, "write debug logs to "+debug.DefaultFile)

	root.AddCommand(
		newStepsCmd(opts),
		newExportCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

func runTUI(opts *rootOptions, stderr io.Writer) error {
	cfg := opts.cfg
	log := debug.Logger()

	engine, err := narration.Select(cfg.EngineName(), cfg.Narration.Voice, log)
	if err != nil {
		return fmt.Errorf("narration: %w", err)
	}

	tut := content.Stitching()
	if err := tut.Validate(); err != nil {
		return err
	}

	path := opts.configFile()
	var w *watcher.Watcher
	if path != "" {
		w, err = watcher.NewWatcher(path,
			watcher.WithOnError(func(err error) {
				log.Warn("config watcher", zap.Error(err))
			}),
		)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			log.Warn("config live reload disabled", zap.Error(err))
			w = nil
		} else {
			defer w.Stop()
		}
	}

	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())
	app := ui.NewApp(ui.Options{
		Config:     cfg,
		ConfigPath: path,
		Engine:     engine,
		Tutorial:   tut,
		Library:    assets.Default(),
		Theme:      &theme,
		Watcher:    w,
		Logger:     log,
	})
	defer app.Close()

	log.Info("starting tui",
		zap.String("engine", narration.NameOf(engine)),
		zap.String("config", path),
		zap.String("version", version.Version))

	if err := runTUIProgram(app, cfg.UI); err != nil {
		return fmt.Errorf("running tutorial: %w", err)
	}
	if opts.metrics {
		return metrics.WriteSummary(stderr)
	}
	return nil
}
