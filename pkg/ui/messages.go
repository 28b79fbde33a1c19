package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/stitchwork/pkg/config"
	"github.com/vanderheijden86/stitchwork/pkg/motion"
	"github.com/vanderheijden86/stitchwork/pkg/tutorial"
	"github.com/vanderheijden86/stitchwork/pkg/watcher"
)

// StartTutorialMsg asks the app to open the step viewer.
type StartTutorialMsg struct{}

// LeaveTutorialMsg asks the app to close the viewer and return home.
// Completed is true when the user finished the last step.
type LeaveTutorialMsg struct {
	Completed bool
}

// ConfigChangedMsg is sent when the config file changes on disk.
type ConfigChangedMsg struct{}

// ConfigReloadedMsg carries the result of re-reading the config file.
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

// narrationMsg delivers one engine event for the session generation that
// requested it.
type narrationMsg struct {
	gen int
	ev  tutorial.Event
	ok  bool
}

// viewerFrameMsg steps the viewer's springs.
type viewerFrameMsg struct{ gen int }

// typeTickMsg reveals the next rune of the description.
type typeTickMsg struct {
	gen  int
	step int
}

// homeFrameMsg steps the home card spring. Frames from a loop that Settle
// abandoned carry an old gen and are dropped.
type homeFrameMsg struct{ gen int }

// homeReleaseMsg ends a keyboard press on the home card.
type homeReleaseMsg struct{}

// clearStatusMsg hides the viewer's transient status line.
type clearStatusMsg struct{ seq int }

// homeClearStatusMsg hides the home screen's status line. It is routed to
// home even while the tutorial is showing.
type homeClearStatusMsg struct{ seq int }

// WatchConfigCmd returns a command that waits for config file changes and
// sends ConfigChangedMsg. It returns nil once the watcher stops.
func WatchConfigCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return ConfigChangedMsg{}
		case <-w.Done():
			return nil
		}
	}
}

// ReloadConfigCmd re-reads the config file at path.
func ReloadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.LoadFrom(path)
		if err == nil {
			cfg.ApplyEnv()
		}
		return ConfigReloadedMsg{Config: cfg, Err: err}
	}
}

// waitNarrationCmd blocks until the session reports an engine event. It
// ends with ok=false once the session closes.
func waitNarrationCmd(sess *tutorial.Session, gen int) tea.Cmd {
	return func() tea.Msg {
		ev, ok := sess.Wait(context.Background())
		return narrationMsg{gen: gen, ev: ev, ok: ok}
	}
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = motion.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

func viewerFrameCmd(gen, fps int) tea.Cmd {
	return tea.Tick(frameInterval(fps), func(time.Time) tea.Msg {
		return viewerFrameMsg{gen: gen}
	})
}

func typeTickCmd(gen, step int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return typeTickMsg{gen: gen, step: step}
	})
}

func homeFrameCmd(gen, fps int) tea.Cmd {
	return tea.Tick(frameInterval(fps), func(time.Time) tea.Msg {
		return homeFrameMsg{gen: gen}
	})
}

// homeReleaseDelay stands in for key-up, which terminals do not report.
const homeReleaseDelay = 120 * time.Millisecond

func homeReleaseCmd() tea.Cmd {
	return tea.Tick(homeReleaseDelay, func(time.Time) tea.Msg {
		return homeReleaseMsg{}
	})
}

const statusTTL = 3 * time.Second

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func homeClearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return homeClearStatusMsg{seq: seq}
	})
}
