package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lox/cfrsolver/internal/abstraction"
	"github.com/lox/cfrsolver/internal/cfr"
	"github.com/lox/cfrsolver/internal/holdem"
	"github.com/lox/cfrsolver/internal/persist"
)

// BuildAbstraction turns a Config's sizing rules into an abstraction.Config
// indexed by street and position, then sanitizes it (dropping non-positive
// sizings with a warning rather than failing).
func BuildAbstraction(cfg Config, logger zerolog.Logger) (*abstraction.Config, error) {
	abs := &abstraction.Config{
		AllowFold:      cfg.Allow.Fold,
		AllowCheckCall: cfg.Allow.CheckCall,
		AllowAllIn:     cfg.Allow.AllIn,
		Fractions:      map[holdem.Street]map[holdem.Position][]float64{},
		BBMultipliers:  map[holdem.Street]map[holdem.Position][]float64{},
		ExactAmounts:   map[holdem.Street]map[holdem.Position][]int{},
	}

	for _, rule := range cfg.FractionRules {
		street, err := parseStreet(rule.Street)
		if err != nil {
			return nil, err
		}
		pos, err := parsePosition(rule.Position)
		if err != nil {
			return nil, err
		}
		if abs.Fractions[street] == nil {
			abs.Fractions[street] = map[holdem.Position][]float64{}
		}
		abs.Fractions[street][pos] = append(abs.Fractions[street][pos], rule.Values...)
	}
	for _, rule := range cfg.BBRules {
		street, err := parseStreet(rule.Street)
		if err != nil {
			return nil, err
		}
		pos, err := parsePosition(rule.Position)
		if err != nil {
			return nil, err
		}
		if abs.BBMultipliers[street] == nil {
			abs.BBMultipliers[street] = map[holdem.Position][]float64{}
		}
		abs.BBMultipliers[street][pos] = append(abs.BBMultipliers[street][pos], rule.Values...)
	}
	for _, rule := range cfg.ExactRules {
		street, err := parseStreet(rule.Street)
		if err != nil {
			return nil, err
		}
		pos, err := parsePosition(rule.Position)
		if err != nil {
			return nil, err
		}
		if abs.ExactAmounts[street] == nil {
			abs.ExactAmounts[street] = map[holdem.Position][]int{}
		}
		abs.ExactAmounts[street][pos] = append(abs.ExactAmounts[street][pos], rule.Values...)
	}

	abs.Sanitize(logger)
	return abs, nil
}

// BuildTrainer loads a persisted infoset table (or starts from an empty
// one if none exists) and constructs a cfr.Trainer ready to run.
func BuildTrainer(cfg Config, abs *abstraction.Config, logger zerolog.Logger) (*cfr.Trainer, error) {
	table, err := persist.Load(cfg.Table.InfosetPath, logger)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load infoset table: %w", err)
	}
	trainer := cfr.NewTrainer(cfg.Table.Players, cfg.Table.Stack, cfg.Table.Ante, cfg.Table.Button, cfg.Table.BigBlind, abs, table, logger, cfg.Table.Seed)
	return trainer, nil
}

// Run loads the configuration's infoset table, trains for the configured
// number of iterations, saves the updated table, and returns the final
// infoset count for the caller to summarize.
func Run(ctx context.Context, cfg Config, logger zerolog.Logger, progress func(cfr.Progress)) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	abs, err := BuildAbstraction(cfg, logger)
	if err != nil {
		return 0, fmt.Errorf("orchestrator: build abstraction: %w", err)
	}

	trainer, err := BuildTrainer(cfg, abs, logger)
	if err != nil {
		return 0, err
	}

	if err := trainer.Run(ctx, cfg.Table.Iterations, progress); err != nil {
		return 0, fmt.Errorf("orchestrator: run training: %w", err)
	}

	if err := persist.Save(cfg.Table.InfosetPath, trainer.Infosets); err != nil {
		return 0, fmt.Errorf("orchestrator: save infoset table: %w", err)
	}

	return len(trainer.Infosets), nil
}

// EvalKey loads a persisted infoset table and returns the average
// strategy for key, or nil if the key was never visited.
func EvalKey(path, key string, logger zerolog.Logger) ([]float64, error) {
	table, err := persist.Load(path, logger)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load infoset table: %w", err)
	}
	e, ok := table[key]
	if !ok {
		return nil, nil
	}
	return e.AverageStrategy(), nil
}
