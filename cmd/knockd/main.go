package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/knock/internal/config"
	"github.com/matheus3301/knock/internal/daemon"
	"github.com/matheus3301/knock/internal/profile"
	"go.uber.org/fx"
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
	if err := profile.EnsureDir(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		daemon.Module(daemon.Params{Profile: name, Config: cfg}),
	)

	app.Run()
}
