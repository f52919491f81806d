package main

import (
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	htmlfont "github.com/alnah/go-htmlfont"
	"github.com/alnah/go-htmlfont/internal/config"
	"github.com/alnah/go-htmlfont/internal/fontsource"
	"github.com/alnah/go-htmlfont/internal/render"
	"github.com/alnah/go-htmlfont/internal/tui"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, configuration, and the host-facing services.
type Environment struct {
	Stdout      io.Writer
	Stderr      io.Writer
	Config      *config.Config // Base config when no --config is given
	Fonts       htmlfont.FontSource
	NewRenderer func(timeout time.Duration) render.Renderer
	RunEditor   func(tui.Model) (tui.Model, error)
	IsTerminal  func(w io.Writer) bool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
		Fonts:  fontsource.New(),
		NewRenderer: func(timeout time.Duration) render.Renderer {
			return render.NewRodRenderer(timeout)
		},
		RunEditor:  runEditorProgram,
		IsTerminal: isTerminal,
	}
}

// runEditorProgram runs the editor on the controlling terminal.
func runEditorProgram(m tui.Model) (tui.Model, error) {
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return m, err
	}
	return final.(tui.Model), nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
