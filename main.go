// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sarkar-tui is a terminal client for the SARKAR AI chat backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/sarkar-tui/internal/api"
	"github.com/morganforge/sarkar-tui/internal/config"
	"github.com/morganforge/sarkar-tui/internal/ui/chat"
	"github.com/morganforge/sarkar-tui/internal/ui/styles"
	"github.com/morganforge/sarkar-tui/internal/viewstate"
)

var version = "dev"

func main() {
	var (
		serverFlag  = flag.String("server", "", "backend URL (overrides config)")
		configFlag  = flag.String("config", "", "path to config file")
		debugFlag   = flag.Bool("debug", false, "write debug log to sarkar-debug.log")
		versionFlag = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *debugFlag {
		// Stdout belongs to the TUI; diagnostics go to a file.
		f, err := tea.LogToFile("sarkar-debug.log", "sarkar")
		if err != nil {
			fmt.Fprintln(os.Stderr, "could not open debug log:", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	if *versionFlag {
		fmt.Println("sarkar-tui", version)
		return
	}

	if *configFlag != "" {
		os.Setenv("SARKAR_CONFIG", *configFlag)
	}

	cfg := config.Global()
	if *serverFlag != "" {
		cfg.Server.URL = *serverFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	client := api.NewClient(cfg.Server.URL, time.Duration(cfg.Server.TimeoutSecs)*time.Second)
	store := viewstate.NewStore(filepath.Join(config.StateDir(), "session.json"))

	model := chat.New(theme, client, store, cfg)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Hot-reload UI settings when the config file changes on disk.
	stopWatch, err := config.Watch(func(next *config.Config) {
		p.Send(chat.ConfigReloadedMsg{Config: next})
	})
	if err == nil {
		defer stopWatch()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
