package config_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnsSolver/internal/config"
	"lnsSolver/internal/ladder"
	"lnsSolver/internal/opt/opttest"
	"lnsSolver/internal/relax"
	"lnsSolver/internal/strategy"
)

func TestDefaultPortfolio(t *testing.T) {
	p := config.Default()
	assert.Equal(t, "random", p.Strategy)
	require.Len(t, p.RelaxOperators, 2)
	require.Len(t, p.SearchOperators, 1)

	ops, err := p.Build(&opttest.Backend{}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, ops.Relax, 2)
	assert.Equal(t, "20% random atoms", ops.Relax[0].Name())
	assert.Equal(t, 0.2, ops.Relax[1].Size())
	require.Len(t, ops.Search, 1)
	assert.Equal(t, 15*time.Second, ops.Search[0].Timeout())
	assert.Equal(t, "random", ops.Strategy.Name())
	assert.False(t, ops.Strategy.SupportsIntensification())
}

func TestParse_YAML(t *testing.T) {
	src := `
strategy: roulette
intensify: true
strategyArgs:
  alpha: 0.3
relaxOperators:
  - type: declarative
    sizes: [-2, 3]
    name: zone
  - type: randomConstants
    rates: [0.1, 0.5]
    initialRate: 0.5
searchOperators:
  - type: default
    timeouts: [0.5, 2]
    strictBoundProb: 0.25
`
	p, err := config.Parse(strings.NewReader(src))
	require.NoError(t, err)

	sc := p.StrategyConfig()
	assert.Equal(t, strategy.KindRoulette, sc.Kind)
	assert.True(t, sc.Intensify)
	assert.Equal(t, 0.3, sc.Alpha)
	assert.Equal(t, 0.001, sc.MinWeight)

	ops, err := p.Build(&opttest.Backend{}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, "declarative(zone) size -2", ops.Relax[0].Name())
	assert.Equal(t, 0.5, ops.Relax[1].Size())
	assert.Equal(t, 500*time.Millisecond, ops.Search[0].Timeout())
	assert.True(t, ops.Strategy.SupportsIntensification())
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := config.Parse(strings.NewReader(`{"strategy": "random", "relaxOps": []}`))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "strategy": "dynamic",
  "strategyArgs": {"unsatStrikes": 5},
  "relaxOperators": [{"type": "randomAtoms", "sizes": [0.1, 0.3]}],
  "searchOperators": [{"type": "default", "timeouts": [1, 4], "initialTimeout": 4}]
}`), 0o644))

	p, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StrategyConfig().UnsatStrikeLimit)
	assert.Equal(t, 1, p.StrategyConfig().TimeoutStrikeLimit)

	ops, err := p.Build(&opttest.Backend{}, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, ops.Search[0].Timeout())

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestQuick(t *testing.T) {
	p, err := config.Quick("randomConstants, 0.3, 10")
	require.NoError(t, err)
	assert.True(t, p.Intensify)

	ops, err := p.Build(&opttest.Backend{}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.Len(t, ops.Relax, 1)
	assert.Equal(t, "30% random constants", ops.Relax[0].Name())
	assert.Equal(t, 10*time.Second, ops.Search[0].Timeout())
	assert.Equal(t, "random", ops.Strategy.Name())
	assert.True(t, ops.Strategy.SupportsIntensification())

	for _, bad := range []string{"randomAtoms,0.3", "randomAtoms,1.5,10", "randomAtoms,0.3,0", "randomAtoms,x,1"} {
		_, err := config.Quick(bad)
		assert.ErrorIs(t, err, config.ErrQuickConfig, bad)
	}

	p, err = config.Quick("bogus,0.3,10")
	require.NoError(t, err)
	_, err = p.Build(&opttest.Backend{}, rand.New(rand.NewSource(3)))
	assert.ErrorIs(t, err, relax.ErrUnknownType)
}

func TestBuild_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := &opttest.Backend{}

	_, err := config.Portfolio{SearchOperators: []config.SearchSpec{{Timeouts: []float64{1}}}}.Build(b, rng)
	assert.ErrorIs(t, err, config.ErrNoRelaxOperators)

	_, err = config.Portfolio{RelaxOperators: []config.RelaxSpec{{Type: "randomAtoms", Sizes: []float64{0.5}}}}.Build(b, rng)
	assert.ErrorIs(t, err, config.ErrNoSearchOperator)

	p := config.Default()
	p.SearchOperators[0].Type = "portfolio"
	_, err = p.Build(b, rng)
	assert.ErrorIs(t, err, config.ErrUnknownSearch)

	p = config.Default()
	p.SearchOperators[0].Timeouts = []float64{5, 1}
	p.SearchOperators[0].InitialTimeout = nil
	_, err = p.Build(b, rng)
	assert.ErrorIs(t, err, ladder.ErrNotIncreasing)

	p = config.Default()
	p.Strategy = "greedy"
	_, err = p.Build(b, rng)
	assert.ErrorIs(t, err, strategy.ErrUnknownStrategy)
}
