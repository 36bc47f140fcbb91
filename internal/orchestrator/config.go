// Package orchestrator wires the card/deck/game-state/abstraction/infoset/
// cfr packages together into a runnable solver: it loads an HCL
// configuration (falling back to an in-code default, the same pattern as
// the teacher's server configuration loader), builds the initial game
// state template and action abstraction, and drives load -> run -> save.
package orchestrator

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/cfrsolver/internal/errs"
	"github.com/lox/cfrsolver/internal/holdem"
)

// TableConfig describes the table the solver trains on and the run
// parameters governing the CFR driver.
type TableConfig struct {
	Players     int    `hcl:"players,optional"`
	Stack       int    `hcl:"stack,optional"`
	Ante        int    `hcl:"ante,optional"`
	Button      int    `hcl:"button,optional"`
	BigBlind    int    `hcl:"big_blind,optional"`
	Iterations  int    `hcl:"iterations,optional"`
	Seed        int64  `hcl:"seed,optional"`
	InfosetPath string `hcl:"infoset_path,optional"`
}

// AllowFlags mirrors abstraction.Config's three top-level allow flags.
type AllowFlags struct {
	Fold      bool `hcl:"fold,optional"`
	CheckCall bool `hcl:"check_call,optional"`
	AllIn     bool `hcl:"all_in,optional"`
}

// FractionSizing configures a pot-fraction raise family for one
// (street, position) pair.
type FractionSizing struct {
	Street   string    `hcl:"street,label"`
	Position string    `hcl:"position,label"`
	Values   []float64 `hcl:"values"`
}

// BBSizing configures a big-blind-multiple raise family for one
// (street, position) pair.
type BBSizing struct {
	Street   string    `hcl:"street,label"`
	Position string    `hcl:"position,label"`
	Values   []float64 `hcl:"values"`
}

// ExactSizing configures an absolute-chip-amount raise family for one
// (street, position) pair.
type ExactSizing struct {
	Street   string `hcl:"street,label"`
	Position string `hcl:"position,label"`
	Values   []int  `hcl:"values"`
}

// Config is the top-level orchestration configuration file shape.
type Config struct {
	Table         TableConfig      `hcl:"table,block"`
	Allow         AllowFlags       `hcl:"allow,block"`
	FractionRules []FractionSizing `hcl:"fraction_sizing,block"`
	BBRules       []BBSizing       `hcl:"bb_sizing,block"`
	ExactRules    []ExactSizing    `hcl:"exact_sizing,block"`
}

// DefaultConfig returns a conservative heads-up configuration suitable for
// smoke runs: stack 200, big blind 2, pot-fraction raises on every street,
// all-in permitted.
func DefaultConfig() Config {
	fractions := []float64{0.33, 0.5, 0.75, 1.0}
	streets := []string{"preflop", "flop", "turn", "river"}
	positions := []string{"btn", "bb"}

	var rules []FractionSizing
	for _, street := range streets {
		for _, pos := range positions {
			rules = append(rules, FractionSizing{Street: street, Position: pos, Values: fractions})
		}
	}

	return Config{
		Table: TableConfig{
			Players:     2,
			Stack:       200,
			Ante:        0,
			Button:      0,
			BigBlind:    2,
			Iterations:  1000,
			Seed:        1,
			InfosetPath: "infosets.tsv",
		},
		Allow: AllowFlags{
			Fold:      true,
			CheckCall: true,
			AllIn:     true,
		},
		FractionRules: rules,
	}
}

// LoadConfig reads an HCL configuration from path. A missing file is not
// an error: it returns DefaultConfig() so the solver has a sensible
// starting point with no configuration file at all.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("orchestrator: parse %s: %s", path, diags.Error())
	}

	var cfg Config
	if diags = gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return Config{}, fmt.Errorf("orchestrator: decode %s: %s", path, diags.Error())
	}
	return cfg, nil
}

// Validate checks the table configuration is safe to build a game state
// from. It does not validate sizing rules: abstraction.Config.Sanitize
// handles those, dropping bad values with a warning rather than failing.
func (c Config) Validate() error {
	if c.Table.Players < 2 || c.Table.Players > 6 {
		return fmt.Errorf("orchestrator: players must be in [2,6], got %d: %w", c.Table.Players, errs.ErrInvalidInput)
	}
	if c.Table.Stack <= 0 {
		return fmt.Errorf("orchestrator: stack must be > 0, got %d: %w", c.Table.Stack, errs.ErrInvalidInput)
	}
	if c.Table.BigBlind <= 0 {
		return fmt.Errorf("orchestrator: big_blind must be > 0, got %d: %w", c.Table.BigBlind, errs.ErrInvalidInput)
	}
	if c.Table.Button < 0 || c.Table.Button >= c.Table.Players {
		return fmt.Errorf("orchestrator: button %d out of range for %d players: %w", c.Table.Button, c.Table.Players, errs.ErrInvalidInput)
	}
	if c.Table.Iterations <= 0 {
		return fmt.Errorf("orchestrator: iterations must be > 0, got %d: %w", c.Table.Iterations, errs.ErrInvalidInput)
	}
	if c.Table.InfosetPath == "" {
		return fmt.Errorf("orchestrator: infoset_path must not be empty: %w", errs.ErrInvalidInput)
	}
	return nil
}

func parseStreet(s string) (holdem.Street, error) {
	switch s {
	case "preflop":
		return holdem.Preflop, nil
	case "flop":
		return holdem.Flop, nil
	case "turn":
		return holdem.Turn, nil
	case "river":
		return holdem.River, nil
	default:
		return 0, fmt.Errorf("orchestrator: unknown street %q: %w", s, errs.ErrInvalidInput)
	}
}

func parsePosition(s string) (holdem.Position, error) {
	switch s {
	case "btn":
		return holdem.BTN, nil
	case "sb":
		return holdem.SB, nil
	case "bb":
		return holdem.BB, nil
	case "utg":
		return holdem.UTG, nil
	case "mp":
		return holdem.MP, nil
	case "co":
		return holdem.CO, nil
	default:
		return 0, fmt.Errorf("orchestrator: unknown position %q: %w", s, errs.ErrInvalidInput)
	}
}
