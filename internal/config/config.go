// Package config loads the project-level semcore.yaml file: the solver's
// maximum-explored-branches budget and the table of admissible qualifier
// combinations, both otherwise left at their built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nodalang/semcore/internal/types"
)

// QualifierCombination is one admissible row of the qualifier-compatibility
// table, spelled out in YAML the way a project author would write it:
// `[mut, stk, ref]` rather than a packed bitset.
type QualifierCombination []string

// Config is the decoded contents of semcore.yaml.
type Config struct {
	// MaxBranches overrides internal/solver's DefaultMaxBranches. Zero
	// means "use the solver's default."
	MaxBranches int `yaml:"max_branches"`

	// QualifierSets overrides internal/types.DefaultQualifierSets. Empty
	// means "use the language default."
	QualifierSets []QualifierCombination `yaml:"qualifier_sets"`
}

// Default returns the configuration a project gets without a semcore.yaml:
// the solver's built-in budget and the language's built-in qualifier table.
func Default() *Config {
	return &Config{}
}

// Load reads path and decodes it as YAML. A missing file is not an error —
// it yields Default() so callers can always treat Load's result as ready to
// use.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects qualifier names outside the six the language knows.
func (c *Config) Validate() error {
	for _, combo := range c.QualifierSets {
		for _, name := range combo {
			switch name {
			case "cst", "mut", "stk", "shd", "val", "ref":
			default:
				return fmt.Errorf("unknown qualifier %q in qualifier_sets", name)
			}
		}
	}
	if c.MaxBranches < 0 {
		return fmt.Errorf("max_branches must be >= 0, got %d", c.MaxBranches)
	}
	return nil
}

// ResolvedMaxBranches returns the budget to pass to solver.New: c's value,
// or 0 (meaning "use solver.DefaultMaxBranches") if unset.
func (c *Config) ResolvedMaxBranches() int {
	return c.MaxBranches
}

// ResolvedQualifierSets returns the qualifier-set table to install via
// CompilerContext.SetValidQualifierSets, or nil if the project didn't
// override it (callers should leave the context's default table in place).
func (c *Config) ResolvedQualifierSets() []types.QualifierSet {
	if len(c.QualifierSets) == 0 {
		return nil
	}
	out := make([]types.QualifierSet, len(c.QualifierSets))
	for i, combo := range c.QualifierSets {
		out[i] = types.ParseQualifierSet(combo)
	}
	return out
}

// Apply installs c's overrides onto ctx, leaving anything unset at the
// context's built-in default.
func (c *Config) Apply(ctx *types.CompilerContext) {
	if sets := c.ResolvedQualifierSets(); sets != nil {
		ctx.SetValidQualifierSets(sets)
	}
}
