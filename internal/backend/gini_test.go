package backend_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnsSolver/internal/backend"
	"lnsSolver/internal/opt"
	"lnsSolver/internal/term"
)

// pick exactly one of three items, each with its own price
const pickOne = `
atom a item(a)
atom b item(b)
atom c item(c)
count 1 1 a b c
minimize 3 a
minimize 1 b
minimize 2 c
show item/1
`

func grounded(t *testing.T, src string) *backend.Gini {
	t.Helper()
	b := backend.NewGini()
	require.NoError(t, b.LoadProgram(src))
	require.NoError(t, b.Ground())
	return b
}

func req(limit int, strict bool, asm ...string) opt.Request {
	r := opt.Request{TimeLimit: 5 * time.Second, ModelLimit: limit, StrictBound: strict}
	for _, a := range asm {
		r.Assumptions = append(r.Assumptions, term.MustParse(a))
	}
	return r
}

func TestSolve_NativeOptimisationProvesOptimum(t *testing.T) {
	b := grounded(t, pickOne)
	sol, err := b.Solve(context.Background(), req(0, true))
	require.NoError(t, err)
	assert.Equal(t, opt.SatTrue, sol.Sat)
	assert.True(t, sol.Exhausted)
	assert.Equal(t, opt.Cost{1}, sol.Cost)
	require.NotNil(t, sol.Model)
	require.Len(t, sol.Model.Shown, 1)
	assert.Equal(t, "item(b)", sol.Model.Shown[0].String())
	assert.Equal(t, 1, sol.Model.Assignments["cost@0"])
	assert.True(t, b.SupportsNativeOptimization())
}

func TestSolve_StrictBoundReachesUnsat(t *testing.T) {
	b := grounded(t, pickOne)
	var costs []int
	for i := 0; i < 5; i++ {
		sol, err := b.Solve(context.Background(), req(1, true))
		require.NoError(t, err)
		if sol.Sat == opt.SatFalse {
			assert.True(t, sol.Exhausted)
			break
		}
		require.Equal(t, opt.SatTrue, sol.Sat)
		costs = append(costs, sol.Cost[0])
	}
	require.NotEmpty(t, costs)
	assert.LessOrEqual(t, len(costs), 3)
	for i := 1; i < len(costs); i++ {
		assert.Less(t, costs[i], costs[i-1])
	}
	assert.Equal(t, 1, costs[len(costs)-1])
}

func TestSolve_NonStrictBoundKeepsEqualCost(t *testing.T) {
	b := grounded(t, pickOne)
	prev := 1 << 30
	for i := 0; i < 6; i++ {
		sol, err := b.Solve(context.Background(), req(1, false))
		require.NoError(t, err)
		require.Equal(t, opt.SatTrue, sol.Sat, "call %d", i)
		assert.LessOrEqual(t, sol.Cost[0], prev)
		prev = sol.Cost[0]
	}
}

func TestSolve_Assumptions(t *testing.T) {
	b := grounded(t, pickOne)
	sol, err := b.Solve(context.Background(), req(0, true, "item(c)"))
	require.NoError(t, err)
	assert.Equal(t, opt.SatTrue, sol.Sat)
	assert.Equal(t, opt.Cost{2}, sol.Cost)

	// the bound is now below 2, so forcing c again has no model
	sol, err = b.Solve(context.Background(), req(1, true, "item(c)"))
	require.NoError(t, err)
	assert.Equal(t, opt.SatFalse, sol.Sat)

	sol, err = b.Solve(context.Background(), req(0, true))
	require.NoError(t, err)
	assert.Equal(t, opt.Cost{1}, sol.Cost)
}

func TestSolve_LexicographicObjective(t *testing.T) {
	src := `
atom x pick(x)
atom y pick(y)
count 1 * x y
minimize 1@2 x
minimize 5@1 y
`
	b := grounded(t, src)
	sol, err := b.Solve(context.Background(), req(0, true))
	require.NoError(t, err)
	assert.True(t, sol.Exhausted)
	// higher priority first: avoid x even though y weighs more
	assert.Equal(t, opt.Cost{0, 5}, sol.Cost)
	assert.Equal(t, 0, sol.Model.Assignments["cost@2"])
	assert.Equal(t, 5, sol.Model.Assignments["cost@1"])
}

func TestSolve_FormulasAndNegatedWeights(t *testing.T) {
	src := `
atom a p(a)
atom b p(b)
atom c p(c)
formula a | b
formula ^a
formula c -> a
minimize 2 ^c
`
	b := grounded(t, src)
	sol, err := b.Solve(context.Background(), req(0, true))
	require.NoError(t, err)
	assert.Equal(t, opt.SatTrue, sol.Sat)
	// c implies a, which is forbidden, so ^c is paid
	assert.Equal(t, opt.Cost{2}, sol.Cost)
	require.Len(t, sol.Model.Symbols, 1)
	assert.Equal(t, "p(b)", sol.Model.Symbols[0].String())
}

func TestSolve_UnsatisfiableProgram(t *testing.T) {
	b := grounded(t, "atom a p\nformula a\nformula ^a\n")
	sol, err := b.Solve(context.Background(), req(0, true))
	require.NoError(t, err)
	assert.Equal(t, opt.SatFalse, sol.Sat)
	assert.True(t, sol.Exhausted)
}

func TestSolve_NoObjectiveIsExhaustedOnFirstModel(t *testing.T) {
	b := grounded(t, "atom a p\natom b q\ncount 2 2 a b\n")
	sol, err := b.Solve(context.Background(), req(1, true))
	require.NoError(t, err)
	assert.Equal(t, opt.SatTrue, sol.Sat)
	assert.True(t, sol.Exhausted)
	assert.Len(t, sol.Model.Symbols, 2)
	assert.Len(t, sol.Model.Shown, 2)
}

func TestSolve_Errors(t *testing.T) {
	b := backend.NewGini()
	assert.ErrorIs(t, b.Ground(), backend.ErrNoProgram)
	require.Error(t, b.LoadProgram("atom"))

	require.NoError(t, b.LoadProgram(pickOne))
	_, err := b.Solve(context.Background(), req(1, true))
	assert.ErrorIs(t, err, backend.ErrNotGrounded)

	require.NoError(t, b.Ground())
	_, err = b.Solve(context.Background(), req(1, true, "item(z)"))
	assert.ErrorIs(t, err, backend.ErrUnknownAssumption)
}

func TestSolve_ZeroBudgetIsUnknown(t *testing.T) {
	b := grounded(t, pickOne)
	r := req(1, true)
	r.TimeLimit = 0
	sol, err := b.Solve(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, opt.SatUnknown, sol.Sat)
}

func TestObjectiveLimit(t *testing.T) {
	b := backend.NewGini(backend.WithMaxObjectiveLiterals(2))
	require.NoError(t, b.LoadProgram(pickOne))
	assert.Error(t, b.Ground())

	assert.Panics(t, func() { backend.NewGini(backend.WithMaxObjectiveLiterals(0)) })
}

// pigeonhole places n+1 pigeons into n holes with pairwise exclusion,
// which keeps a CDCL solver busy well past any test timeout for n >= 12.
func pigeonhole(n int) string {
	var sb strings.Builder
	for i := 0; i <= n; i++ {
		row := make([]string, n)
		for h := 0; h < n; h++ {
			fmt.Fprintf(&sb, "atom p_%d_%d at(%d,%d)\n", i, h, i, h)
			row[h] = fmt.Sprintf("p_%d_%d", i, h)
		}
		fmt.Fprintf(&sb, "formula %s\n", strings.Join(row, " | "))
	}
	for h := 0; h < n; h++ {
		for i := 0; i <= n; i++ {
			for k := i + 1; k <= n; k++ {
				fmt.Fprintf(&sb, "formula ^p_%d_%d | ^p_%d_%d\n", i, h, k, h)
			}
		}
	}
	return sb.String()
}

func TestSolve_CancelStopsRunningSearch(t *testing.T) {
	b := grounded(t, pigeonhole(12))
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	r := req(1, true)
	r.TimeLimit = 30 * time.Second
	start := time.Now()
	sol, err := b.Solve(ctx, r)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, opt.SatUnknown, sol.Sat)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSolve_CancelledContext(t *testing.T) {
	b := grounded(t, pickOne)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, limit := range []int{1, 0} {
		sol, err := b.Solve(ctx, req(limit, true))
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, opt.SatUnknown, sol.Sat)
	}

	sol, err := b.Solve(context.Background(), req(0, true))
	require.NoError(t, err)
	assert.Equal(t, opt.Cost{1}, sol.Cost)
}
