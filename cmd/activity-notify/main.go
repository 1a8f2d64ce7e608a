package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhvu/activity-notify/internal/app"
	"github.com/minhvu/activity-notify/internal/kv"
	"github.com/minhvu/activity-notify/internal/model"
)

func main() {
	configPath := flag.String(
		"config", model.DefaultConfigPath(), "path to the config file",
	)
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	statePath := cfg.Storage.Path
	if statePath == "" {
		statePath = model.DefaultStatePath()
	}
	if err := os.MkdirAll(filepath.Dir(statePath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating state directory: %v\n", err)
		os.Exit(1)
	}

	store, err := kv.NewSQLiteStore(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening state store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	p := tea.NewProgram(
		app.New(cfg, *configPath, store),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "running app: %v\n", err)
		os.Exit(1)
	}
}
