// Package main provides the CLI entry point for vmix.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"

	"github.com/user/vmix/pkg/adapters/filesink"
	"github.com/user/vmix/pkg/adapters/filtergraph"
	"github.com/user/vmix/pkg/adapters/ggrenderer"
	"github.com/user/vmix/pkg/adapters/logger"
	"github.com/user/vmix/pkg/adapters/nullsink"
	"github.com/user/vmix/pkg/adapters/osfilesystem"
	"github.com/user/vmix/pkg/config"
	"github.com/user/vmix/pkg/orchestrator"
	"github.com/user/vmix/pkg/ports"
	"github.com/user/vmix/pkg/stages/graphbuild"
	"github.com/user/vmix/pkg/stages/layout"
	"github.com/user/vmix/pkg/stages/preview"
	"github.com/user/vmix/pkg/summarizer"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Mix     MixCmd     `cmd:"" help:"${help_mix}"`
	Version VersionCmd `cmd:"" help:"${help_version}"`
}

// MixCmd defines the mix subcommand.
//
// -s applies to the next -i or -o that follows it on the command line.
type MixCmd struct {
	// Streams
	Sizes   []string `short:"s" name:"size" sep:"none" placeholder:"WxH" help:"${help_size}"`
	Inputs  []string `short:"i" name:"input" sep:"none" placeholder:"FILE" help:"${help_input}"`
	Outputs []string `short:"o" name:"output" sep:"none" placeholder:"FILE" help:"${help_output}"`

	// Composition
	Layout string `help:"${help_layout}"`
	Policy string `help:"${help_policy}"`

	// Job file
	Config string `short:"c" type:"existingfile" help:"${help_config}"`

	// Debug options
	Debug    bool   `short:"d" help:"${help_debug}"`
	DebugDir string `help:"${help_debug_dir}"`

	// Summary
	Summary string `help:"${help_summary}"`

	// Logging options
	LogLevel string `short:"l" help:"${help_log_level}"`
	Quiet    bool   `short:"Q" help:"${help_quiet}"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("vmix"),
		kong.Description(l10n.T("Composite raw YUV videos into one stacked video")),
		kong.UsageOnError(),
		helpVars(),
	)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}

// Run executes the mix command.
func (cmd *MixCmd) Run(kctx *kong.Context) error {
	fs := osfilesystem.New()

	cfg, err := cmd.buildConfig(fs, flagOrder(kctx))
	if err != nil {
		return err
	}
	if len(cfg.Inputs) != 2 {
		return errors.New(l10n.F("Exactly two inputs are required, got %d", len(cfg.Inputs)))
	}
	orchConfig, err := cfg.ToOrchestratorConfig()
	if err != nil {
		return err
	}
	orchConfig.RunID = uuid.NewString()

	// Create logger
	level, err := ports.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	var log ports.Logger
	if cmd.Quiet || level == ports.LevelQuiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(level)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	renderer := ggrenderer.New()

	var sink ports.DebugSink
	if cfg.Debug {
		dir := filepath.Join(cfg.DebugDir, orchConfig.RunID)
		if err := fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(dir, fs, renderer)
		log.Info("Debug output in %s", dir)
	} else {
		sink = nullsink.New()
	}

	// Create orchestrator
	orch := orchestrator.New(
		layout.NewStage(),
		graphbuild.NewStage(filtergraph.NewFactory(), log),
		preview.NewStage(renderer, cfg.PreviewTheme(), log),
		fs,
		sink,
		log,
	)

	result, runErr := orch.Run(ctx, orchConfig)

	if cfg.Summary != "" {
		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		writer := summarizer.NewWriter(formatter, fs)
		if err := writer.Write(cfg.Summary, buildSummary(result, orchConfig, runErr)); err != nil {
			log.Warn("Failed to write summary: %s", err)
		} else {
			log.Info("Summary saved to %s", cfg.Summary)
		}
	}

	return runErr
}

// buildConfig merges the optional job file with the command-line flags.
// Flags win over the file; stream flags replace the file's streams.
func (cmd *MixCmd) buildConfig(fs ports.FileSystem, order []string) (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(fs, cmd.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	inputs, output, err := pairStreams(order, cmd.Sizes, cmd.Inputs, cmd.Outputs)
	if err != nil {
		return cfg, err
	}
	if len(inputs) > 0 {
		cfg.Inputs = inputs
	}
	if output != nil {
		cfg.Output = *output
	}

	if cmd.Layout != "" {
		cfg.Layout = cmd.Layout
	}
	if cmd.Policy != "" {
		cfg.Policy = cmd.Policy
	}
	if cmd.Debug {
		cfg.Debug = true
	}
	if cmd.DebugDir != "" {
		cfg.DebugDir = cmd.DebugDir
	}
	if cmd.Summary != "" {
		cfg.Summary = cmd.Summary
	}
	if cmd.LogLevel != "" {
		cfg.LogLevel = cmd.LogLevel
	}

	return cfg, cfg.Validate()
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("vmix version %s", version))
	return nil
}
