package main

import (
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/stitchwork/pkg/config"
)

// EnvAutoClose quits the TUI after the given number of milliseconds. Used by
// automated smoke tests.
const EnvAutoClose = "STITCH_TUI_AUTOCLOSE_MS"

func programOptions(u config.UIConfig) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithoutSignalHandler()}
	if u.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if u.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

func runTUIProgram(m tea.Model, u config.UIConfig) error {
	p := tea.NewProgram(m, programOptions(u)...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	if ms, ok := autoCloseDelay(); ok {
		go func() {
			timer := time.NewTimer(ms)
			defer timer.Stop()

			select {
			case <-runDone:
				return
			case <-timer.C:
			}

			p.Quit()

			select {
			case <-runDone:
				return
			case <-time.After(2 * time.Second):
			}

			p.Kill()
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

func autoCloseDelay() (time.Duration, bool) {
	v := os.Getenv(EnvAutoClose)
	if v == "" {
		return 0, false
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}
