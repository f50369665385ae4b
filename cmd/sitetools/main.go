package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	internalcli "github.com/whiskeyjimb/sitetools/internal/cli"
	"github.com/whiskeyjimb/sitetools/internal/config"
	"github.com/whiskeyjimb/sitetools/internal/meta"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Find --config in args (simple scan before cobra parsing)
	configPath := config.DefaultConfigPath()
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configPath = os.Args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			configPath = v
		}
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config error: %v\n", err)
		cfg = config.DefaultConfig()
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config error: %v\n", err)
		cfg = config.DefaultConfig()
	}

	root := internalcli.NewRootCommand(cfg)

	if err := root.ExecuteContext(ctx); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "unknown command") {
			parts := strings.Split(msg, "\"")
			if len(parts) >= 2 {
				fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", parts[1])

				var available []string
				for _, cmd := range root.Commands() {
					if cmd.Name() != "help" && !cmd.Hidden {
						available = append(available, cmd.Name())
					}
				}
				fmt.Fprintf(os.Stderr, "  Available commands: %s\n", strings.Join(available, ", "))
				fmt.Fprintf(os.Stderr, "  Run '%s --help' for usage.\n", meta.AppName)
				os.Exit(1)
			}
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
