package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jgivc/centuriae/internal/app"
	"github.com/jgivc/centuriae/internal/common"
	"github.com/jgivc/centuriae/internal/config"
	"github.com/jgivc/centuriae/internal/service/render"
	"github.com/spf13/afero"
)

var CLI struct {
	Config  string `short:"c" help:"Path to config file, config.json is read when it is missing" default:"config.yml"`
	Output  string `short:"o" help:"Output directory, overrides the config file"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("centuriae"),
		kong.Description("Build a static site from a directory of markdown entries and their version history."),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load config: %s\n", err)
		os.Exit(1)
	}

	if CLI.Output != "" {
		cfg.OutputDir = CLI.Output
	}
	if CLI.Verbose {
		cfg.LogLevel = config.LogLevelDebug
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(cfg, afero.NewOsFs(), app.NewLogger(cfg.LogLevel, os.Stderr))

	fmt.Println("Building...")

	info, err := a.Build(ctx)
	if err != nil {
		if numbers, ok := common.DuplicateNumbers(err); ok {
			fmt.Fprintf(os.Stderr, "Duplicate entry numbers: %s\n", strings.Join(numbers, ", "))
		}

		fmt.Fprintf(os.Stderr, "Cannot build site: %s\n", err)
		os.Exit(1)
	}

	for i, e := range info.Entries {
		fmt.Printf("%d. %s -> %s/%s\n", i+1, e.SourcePath, cfg.OutputDir, render.PagePath(e.Slug))
	}

	fmt.Println("Done.")
}
