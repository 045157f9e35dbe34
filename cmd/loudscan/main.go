// Command loudscan measures loudness and dynamics of WAV files.
//
// Usage:
//
//	loudscan analyze [flags] file.wav ...
//	loudscan monitor [flags] file.wav
//
// Examples:
//
//	loudscan analyze --json album/*.wav
//	loudscan analyze --album --workers 4 a.wav b.wav
//	loudscan monitor --listen :9109 live.wav
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-loudness/internal/config"
	"github.com/cwbudde/algo-loudness/measure/puredynamics"
)

var version = "0.1.0"

// Globals are shared by all commands.
type Globals struct {
	Config  string `short:"c" type:"path" help:"Path to TOML config file (optional)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Analyze analyzeCmd `cmd:"" help:"Analyse WAV files and print a report"`
	Monitor monitorCmd `cmd:"" help:"Replay a WAV file as a live stream and meter it"`
	Version versionCmd `cmd:"" help:"Show version information"`
}

type versionCmd struct{}

func (versionCmd) Run() error {
	fmt.Printf("loudscan %s (pure dynamics model %s)\n", version, puredynamics.ModelVersion)
	return nil
}

// setup loads the configuration and builds the logger.
func (g *Globals) setup() (config.File, *logrus.Logger, error) {
	f, err := config.Load(g.Config)
	if err != nil {
		return config.File{}, nil, err
	}

	if g.Verbose {
		f.Log.Level = "debug"
	}

	logger, err := f.Logger(os.Stderr)
	if err != nil {
		return config.File{}, nil, err
	}

	return f, logger, nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("loudscan"),
		kong.Description("Loudness, true peak and dynamics analysis"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
