package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/config"
	"github.com/matheus3301/knock/internal/daemon"
	"github.com/matheus3301/knock/internal/profile"
	"github.com/matheus3301/knock/internal/tui"
	"github.com/matheus3301/knock/internal/tui/ui"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: config: %v\n", err)
		os.Exit(1)
	}

	socketPath := profile.SocketPath(name)

	// Probe daemon health; auto-start if needed.
	if !daemon.Probe(socketPath) {
		fmt.Fprintf(os.Stderr, "daemon not running for profile %q, starting...\n", name)
		if err := daemon.Launch(name); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start daemon: %v\n", err)
			os.Exit(1)
		}
		if !daemon.WaitReady(socketPath, 10*time.Second) {
			fmt.Fprintf(os.Stderr, "daemon did not become ready\n")
			os.Exit(1)
		}
	}

	c, err := api.Dial(socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to daemon: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	theme := ui.DarkTheme()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if settings, err := c.Settings(ctx); err == nil {
		theme = ui.ThemeFor(string(settings.Theme))
	}
	cancel()

	app := tui.NewApp(c, tui.Options{Profile: name, Scheme: cfg.Links.Scheme, Theme: theme})
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
