package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/mdwrite/internal/app"
	"github.com/kk-code-lab/mdwrite/internal/config"
	"github.com/kk-code-lab/mdwrite/internal/logging"
	"go.uber.org/zap"
)

func printHelp() {
	fmt.Print(`mdwrite - Terminal markdown writing app

USAGE:
    mdwrite [OPTIONS] FILE

OPTIONS:
    -h, --help            Show this help message and exit
    -c, --config PATH     Read configuration from PATH
`)
}

type options struct {
	path       string
	configPath string
	help       bool
}

func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			opts.help = true
		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s needs a path", arg)
			}
			i++
			opts.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unknown option %s", arg)
		default:
			if opts.path != "" {
				return opts, fmt.Errorf("only one file can be opened")
			}
			opts.path = arg
		}
	}
	if opts.path == "" && !opts.help {
		return opts, fmt.Errorf("no file given")
	}
	return opts, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		def, err := config.DefaultPath()
		if err != nil {
			return config.Default(), nil
		}
		path = def
	}
	return config.Load(config.ExpandPath(path))
}

func main() {
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdwrite: %v\n\n", err)
		printHelp()
		os.Exit(2)
	}
	if opts.help {
		printHelp()
		os.Exit(0)
	}

	cfg, cfgErr := loadConfig(opts.configPath)
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", cfgErr)
	}

	log, err := logging.New(config.ExpandPath(cfg.LogFile), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; logging disabled\n", err)
		log = zap.NewNop()
	}
	if cfgErr != nil {
		log.Warn("configuration ignored", zap.Error(cfgErr))
	}

	app, err := apppkg.NewApplication(opts.path, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
}
