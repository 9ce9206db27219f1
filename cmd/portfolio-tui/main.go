// Command portfolio-tui runs the particle background and the chat assistant
// in a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/chat"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/logging"
	"github.com/Zachkp/portfolio/internal/theme"
	"github.com/Zachkp/portfolio/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "portfolio-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	// the admin area is not part of the terminal host
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrMissingCredentials) {
		return err
	}

	palette := flag.String("theme", theme.Default.String(), "colour palette: dark or light")
	fps := flag.Int("fps", cfg.BackgroundFPS, "particle frames per second")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	logger := zap.NewNop()
	if *logPath != "" {
		if logger, err = logging.New(cfg.LogLevel, cfg.LogFormat, *logPath); err != nil {
			return err
		}
		defer logger.Sync()
	}

	engine := chat.NewEngine(chat.WithLogger(logger))
	defer engine.Close()

	m := tui.New(engine, theme.Parse(*palette), *fps, nil)
	logger.Info("starting terminal host", zap.String("theme", m.Palette().String()), zap.Int("fps", *fps))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
