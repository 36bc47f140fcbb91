package main

import (
	"context"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/cfrsolver/internal/cfr"
	"github.com/lox/cfrsolver/internal/orchestrator"
)

var cli struct {
	Debug bool `help:"enable debug logging"`

	Train TrainCmd `cmd:"" help:"run CFR training and persist the infoset table"`
	Eval  EvalCmd  `cmd:"" help:"print the average strategy for an infoset key"`
}

// TrainCmd runs the load -> run -> save orchestration cycle.
type TrainCmd struct {
	Config        string `help:"path to an HCL configuration file" default:"solver.hcl"`
	Iterations    int    `help:"override the configured iteration count (0 keeps the config value)" default:"0"`
	ProgressEvery int    `help:"log progress every N iterations (0 disables)" default:"1000"`
}

// EvalCmd loads a persisted infoset table and prints one key's average
// strategy.
type EvalCmd struct {
	InfosetPath string `help:"path to the persisted infoset table" required:""`
	Key         string `help:"canonical infoset key to look up" required:""`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("No-Limit Hold'em CFR solver"),
		kong.UsageOnError(),
	)

	setupLogger(cli.Debug)

	var err error
	switch ctx.Command() {
	case "train":
		err = cli.Train.Run(context.Background())
	case "eval":
		err = cli.Eval.Run(context.Background())
	default:
		log.Fatal().Msgf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		log.Fatal().Err(err).Msg("solver failed")
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func (cmd *TrainCmd) Run(ctx context.Context) error {
	cfg, err := orchestrator.LoadConfig(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Iterations > 0 {
		cfg.Table.Iterations = cmd.Iterations
	}

	log.Info().Int("players", cfg.Table.Players).Int("stack", cfg.Table.Stack).Int("big_blind", cfg.Table.BigBlind).
		Int("iterations", cfg.Table.Iterations).Str("infoset_path", cfg.Table.InfosetPath).Msg("starting training run")

	start := time.Now()
	progress := func(p cfr.Progress) {
		if cmd.ProgressEvery > 0 && p.Iteration%cmd.ProgressEvery == 0 {
			log.Info().Int("iteration", p.Iteration).Int("infosets", p.InfosetCount).Msg("progress")
		}
	}

	count, err := orchestrator.Run(ctx, cfg, log.Logger, progress)
	if err != nil {
		return err
	}

	log.Info().Dur("duration", time.Since(start)).Int("infosets", count).Str("path", cfg.Table.InfosetPath).Msg("training complete")
	return nil
}

func (cmd *EvalCmd) Run(ctx context.Context) error {
	strategy, err := orchestrator.EvalKey(cmd.InfosetPath, cmd.Key, log.Logger)
	if err != nil {
		return err
	}
	if strategy == nil {
		log.Warn().Str("key", cmd.Key).Msg("key never visited; no strategy recorded")
		return nil
	}
	log.Info().Str("key", cmd.Key).Floats64("strategy", strategy).Msg("average strategy")
	return nil
}
