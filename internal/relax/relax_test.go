package relax_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnsSolver/internal/ladder"
	"lnsSolver/internal/opt"
	"lnsSolver/internal/relax"
	"lnsSolver/internal/term"
)

func shownFacts(n int) opt.Solution {
	m := &opt.Model{}
	for i := 1; i <= n; i++ {
		s := term.Function("x", term.Number(i))
		m.Symbols = append(m.Symbols, s)
		m.Shown = append(m.Shown, s)
	}
	return opt.Solution{Sat: opt.SatTrue, Cost: opt.Cost{n}, Model: m}
}

func newOp(t *testing.T, cfg relax.Config, seed int64) relax.Operator {
	t.Helper()
	op, err := relax.New(cfg, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return op
}

func assertSubsetOfShown(t *testing.T, asm []term.Symbol, inc opt.Solution) {
	t.Helper()
	shown := make(map[string]bool)
	for _, s := range inc.Model.Shown {
		shown[s.String()] = true
	}
	seen := make(map[string]bool)
	for _, s := range asm {
		assert.True(t, shown[s.String()], "unexpected fact %s", s)
		assert.False(t, seen[s.String()], "duplicate fact %s", s)
		seen[s.String()] = true
	}
}

func TestRandomAtoms_RelativeFixesRoundedShare(t *testing.T) {
	inc := shownFacts(10)
	op := newOp(t, relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.3}}, 1)

	asm, err := op.MoveAssumptions(inc)
	require.NoError(t, err)
	assert.Len(t, asm, 7)
	assertSubsetOfShown(t, asm, inc)
}

func TestRandomAtoms_AbsoluteRelaxesExactCount(t *testing.T) {
	inc := shownFacts(10)
	op := newOp(t, relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{4}}, 2)

	asm, err := op.MoveAssumptions(inc)
	require.NoError(t, err)
	assert.Len(t, asm, 6)
	assertSubsetOfShown(t, asm, inc)
}

func TestRandomAtoms_AbsoluteLargerThanUniverseRelaxesEverything(t *testing.T) {
	op := newOp(t, relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{50}}, 3)
	asm, err := op.MoveAssumptions(shownFacts(10))
	require.NoError(t, err)
	assert.Empty(t, asm)
}

func TestRandomAtoms_RoundsHalfToEven(t *testing.T) {
	// 5·(1−0.5) = 2.5 → 2
	op := newOp(t, relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.5}}, 4)
	asm, err := op.MoveAssumptions(shownFacts(5))
	require.NoError(t, err)
	assert.Len(t, asm, 2)
}

func TestRandomAtoms_SameSeedSameAssumptions(t *testing.T) {
	cfg := relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.5}}
	a, err := newOp(t, cfg, 42).MoveAssumptions(shownFacts(20))
	require.NoError(t, err)
	b, err := newOp(t, cfg, 42).MoveAssumptions(shownFacts(20))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(a), fmt.Sprint(b))
}

func TestRandomAtoms_NoModel(t *testing.T) {
	op := newOp(t, relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.5}}, 1)
	_, err := op.MoveAssumptions(opt.Solution{Sat: opt.SatTrue})
	require.ErrorIs(t, err, relax.ErrNoModel)
}

func assignments() opt.Solution {
	m := &opt.Model{}
	for _, s := range []string{"assign(j1,m1)", "assign(j2,m1)", "assign(j3,m2)"} {
		sym := term.MustParse(s)
		m.Symbols = append(m.Symbols, sym)
		m.Shown = append(m.Shown, sym)
	}
	return opt.Solution{Sat: opt.SatTrue, Model: m}
}

func TestRandomConstants_FixesFactsDisjointFromRelaxed(t *testing.T) {
	inc := assignments()
	// 5 констант, 20% → ровно одна освобождена
	for seed := int64(0); seed < 20; seed++ {
		op := newOp(t, relax.Config{Type: relax.TypeRandomConstants, Sizes: []float64{0.2}}, seed)
		asm, err := op.MoveAssumptions(inc)
		require.NoError(t, err)
		assertSubsetOfShown(t, asm, inc)
		assert.GreaterOrEqual(t, len(asm), 1)
		assert.LessOrEqual(t, len(asm), 2)
	}
}

func TestRandomConstants_AbsoluteClampsToUniverse(t *testing.T) {
	op := newOp(t, relax.Config{Type: relax.TypeRandomConstants, Sizes: []float64{9}}, 1)
	asm, err := op.MoveAssumptions(assignments())
	require.NoError(t, err)
	assert.Empty(t, asm)
}

func declarativeModel(name string, n int) opt.Solution {
	m := &opt.Model{}
	for i := 1; i <= n; i++ {
		atom := term.Function("assign", term.Number(i), term.Constant("m1"))
		id := term.Number(i)
		m.Symbols = append(m.Symbols, atom)
		m.Shown = append(m.Shown, atom)
		if name == "" {
			m.Symbols = append(m.Symbols,
				term.Function(relax.SelectPredicate, id),
				term.Function(relax.FixPredicate, atom, id))
		} else {
			tag := term.Constant(name)
			m.Symbols = append(m.Symbols,
				term.Function(relax.SelectPredicate, tag, id),
				term.Function(relax.FixPredicate, tag, atom, id))
		}
	}
	return opt.Solution{Sat: opt.SatTrue, Model: m}
}

func TestDeclarative_NegativeSizeRelaxesExactly(t *testing.T) {
	inc := declarativeModel("", 8)
	op := newOp(t, relax.Config{Type: relax.TypeDeclarative, Sizes: []float64{-3}}, 5)

	asm, err := op.MoveAssumptions(inc)
	require.NoError(t, err)
	assert.Len(t, asm, 5)
	assertSubsetOfShown(t, asm, inc)
}

func TestDeclarative_NegativeSizeClamps(t *testing.T) {
	op := newOp(t, relax.Config{Type: relax.TypeDeclarative, Sizes: []float64{-20}}, 5)
	asm, err := op.MoveAssumptions(declarativeModel("", 8))
	require.NoError(t, err)
	assert.Empty(t, asm)
}

func TestDeclarative_NamedIgnoresOtherOperators(t *testing.T) {
	inc := declarativeModel("machines", 4)
	other := declarativeModel("jobs", 6)
	inc.Model.Symbols = append(inc.Model.Symbols, other.Model.Symbols...)

	op := newOp(t, relax.Config{Type: relax.TypeDeclarative, Sizes: []float64{0.5}, Name: "machines"}, 7)
	asm, err := op.MoveAssumptions(inc)
	require.NoError(t, err)
	assert.Len(t, asm, 2)
	assert.Equal(t, "declarative(machines) size 50%", op.Name())
}

func TestDeclarative_EmptySelection(t *testing.T) {
	op := newOp(t, relax.Config{Type: relax.TypeDeclarative, Sizes: []float64{0.5}}, 1)
	_, err := op.MoveAssumptions(shownFacts(3))
	require.ErrorIs(t, err, relax.ErrEmptySelection)
}

func TestNew_ConfigErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := relax.New(relax.Config{Type: "shuffle", Sizes: []float64{0.1}}, rng)
	require.ErrorIs(t, err, relax.ErrUnknownType)

	_, err = relax.New(relax.Config{Type: relax.TypeRandomAtoms}, rng)
	require.ErrorIs(t, err, ladder.ErrEmpty)

	_, err = relax.New(relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.2, 3}}, rng)
	require.ErrorIs(t, err, ladder.ErrMixedKinds)

	_, err = relax.New(relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{-2}}, rng)
	require.ErrorIs(t, err, relax.ErrNegativeSize)

	_, err = relax.New(relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.4, 0.2}}, rng)
	require.ErrorIs(t, err, ladder.ErrNotIncreasing)

	init := 0.3
	_, err = relax.New(relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.2, 0.4}, InitialSize: &init}, rng)
	require.ErrorIs(t, err, ladder.ErrUnknownInitial)

	_, err = relax.New(relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.2}}, nil)
	require.Error(t, err)
}

func TestOperator_LadderAndFlatten(t *testing.T) {
	init := 0.4
	op := newOp(t, relax.Config{Type: relax.TypeRandomAtoms, Sizes: []float64{0.2, 0.4, 0.6}, InitialSize: &init}, 1)
	assert.Equal(t, 0.4, op.Size())
	assert.Equal(t, "40% random atoms", op.Name())

	assert.True(t, op.IncreaseSize())
	assert.False(t, op.IncreaseSize())
	op.ResetSize()
	assert.Equal(t, 0.2, op.Size())
	assert.False(t, op.DecreaseSize())

	flat := op.Flatten()
	require.Len(t, flat, 3)
	for i, f := range flat {
		assert.IsType(t, &relax.RandomAtoms{}, f)
		assert.Equal(t, []float64{0.2, 0.4, 0.6}[i], f.Size())
		assert.False(t, f.IncreaseSize())
	}

	abs := newOp(t, relax.Config{Type: relax.TypeRandomConstants, Sizes: []float64{2, 4}}, 1)
	assert.Equal(t, "2 random constants", abs.Name())
	assert.IsType(t, &relax.RandomConstants{}, abs.Flatten()[1])
}
