package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodalang/semcore/internal/types"
)

func TestLoadMissingFileYieldsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "semcore.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadValidFileOverridesBranchesAndQualifierSets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semcore.yaml")
	content := "max_branches: 500\nqualifier_sets:\n  - [mut, stk, ref]\n  - [cst, shd, val]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.ResolvedMaxBranches())

	sets := cfg.ResolvedQualifierSets()
	require.Len(t, sets, 2)
	assert.True(t, sets[0].Has(types.Mut) && sets[0].Has(types.Stk) && sets[0].Has(types.Ref))
	assert.True(t, sets[1].Has(types.Cst) && sets[1].Has(types.Shd) && sets[1].Has(types.Val))
}

func TestLoadRejectsUnknownQualifierName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semcore.yaml")
	content := "qualifier_sets:\n  - [mut, bogus]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestLoadRejectsNegativeMaxBranches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_branches: -1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestResolvedQualifierSetsNilWhenUnset(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.ResolvedQualifierSets())
}

func TestApplyLeavesContextDefaultWhenConfigUnset(t *testing.T) {
	ctx := types.NewCompilerContext()
	cfg := Default()
	cfg.Apply(ctx)
	for _, combo := range types.DefaultQualifierSets() {
		assert.True(t, ctx.IsValidQualifierSet(combo))
	}
}

func TestApplyInstallsOverrideTable(t *testing.T) {
	ctx := types.NewCompilerContext()
	cfg := &Config{QualifierSets: []QualifierCombination{{"mut", "shd", "ref"}}}
	cfg.Apply(ctx)

	assert.True(t, ctx.IsValidQualifierSet(types.ParseQualifierSet([]string{"mut", "shd", "ref"})))
	// The default Cst/Stk/Val combination is no longer installed once the
	// table has been overridden.
	assert.False(t, ctx.IsValidQualifierSet(types.ParseQualifierSet([]string{"cst", "stk", "val"})))
}
